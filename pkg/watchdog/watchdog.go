package watchdog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type WatchDogFactory struct {
	logger *zap.Logger
}

type filterFun func(string) bool

type WatchDog struct {
	watchCtx   context.Context
	notifyChan chan<- string
	filter     filterFun
	logger     *zap.Logger

	// states
	watcher *fsnotify.Watcher
}

func NewWatchDogFactory(logger *zap.Logger) *WatchDogFactory {
	return &WatchDogFactory{
		logger: logger.Named("watchdog"),
	}
}

// create a new WatchDog to monitor file creation and modification events
//
// - `watchCtx` controls the lifecycle of the watcher. After the context is done, the watcher stops and closes notifyChan.
//
// - `notifyChan` receives the path of every created or written file.
//
// - `filter` selects the files to report. If it returns false, the event is ignored. If set to nil, all events are sent.
func (w *WatchDogFactory) New(watchCtx context.Context, notifyChan chan<- string, filter filterFun) (*WatchDog, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	watchDog := &WatchDog{
		watchCtx,
		notifyChan, // send only channel
		filter,
		w.logger,
		watcher,
	}

	go watchDog.watch()

	return watchDog, nil
}

// add a directory to the watch list
func (w *WatchDog) AddDir(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path of %s: %w", dir, err)
	}
	// check if the directory exists
	if _, err := os.Stat(absDir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", absDir, err)
	}
	if err := w.watcher.Add(absDir); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", absDir, err)
	}
	w.logger.Debug("Added directory to watch list", zap.String("dir", absDir))
	return nil
}

func (w *WatchDog) watch() {
	// close the watcher before signalling consumers
	defer close(w.notifyChan)
	defer w.watcher.Close()
	for {
		select {
		case <-w.watchCtx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.logger.Debug("fsnotify channel closed")
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.logger.Debug("fsnotify error channel closed")
				return
			}
			w.logger.Error("fsnotify error", zap.Error(err))
		}
	}
}

func (w *WatchDog) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if w.filter != nil && !w.filter(event.Name) {
		return
	}
	w.logger.Debug("File changed", zap.String("event", event.String()))
	select {
	case w.notifyChan <- event.Name:
	case <-w.watchCtx.Done():
	}
}
