package plotjob

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"fuzzplot/internal/discover"
)

// Watch renders once, then re-renders whenever one of the job's logs is created
// or written, waiting for debounce of quiet first. It returns when ctx is done.
// Render errors are logged and the watch goes on.
func (r *Runner) Watch(ctx context.Context, req Request, debounce time.Duration) error {
	r.render(ctx, req)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan string, 64)
	dog, err := r.watchDogFactory.New(watchCtx, events, func(path string) bool {
		// our own temporary and output files land next to the logs
		if strings.HasPrefix(filepath.Base(path), ".") {
			return false
		}
		return req.Job.Matches(path)
	})
	if err != nil {
		return err
	}
	defer func() {
		cancel()
		// the watchdog closes events once it has stopped
		for range events {
		}
	}()

	for _, dir := range r.watchDirs(req.Job) {
		if err := dog.AddDir(dir); err != nil {
			r.logger.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	r.logger.Info("watching for log changes", zap.String("job", req.Job.Name()), zap.Duration("debounce", debounce))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			r.logger.Debug("log changed", zap.String("file", path))
			timer.Reset(debounce)
		case <-timer.C:
			r.render(ctx, req)
		}
	}
}

func (r *Runner) render(ctx context.Context, req Request) {
	if _, err := r.Run(ctx, req); err != nil {
		if errors.Is(err, ErrNoData) || errors.Is(err, discover.ErrNoLogFiles) {
			r.logger.Info("nothing to plot yet", zap.String("job", req.Job.Name()), zap.Error(err))
			return
		}
		r.logger.Error("render failed", zap.String("job", req.Job.Name()), zap.Error(err))
	}
}

// watchDirs lists the directories whose files feed the job, plus the job
// root so new files are noticed
func (r *Runner) watchDirs(job Job) []string {
	var dirs []string
	seen := make(map[string]struct{})
	add := func(dir string) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		dirs = append(dirs, abs)
	}

	add(job.Root())
	if sources, err := job.Discover(); err == nil {
		for _, dir := range discover.Dirs(sources...) {
			add(dir)
		}
	}
	return dirs
}
