package plotjob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fuzzplot/internal/render"
	"fuzzplot/internal/series"
	"fuzzplot/internal/types"
	"fuzzplot/internal/utils"
	"fuzzplot/pkg/database"
	"fuzzplot/pkg/mq"
	"fuzzplot/pkg/telemetry"
	"fuzzplot/pkg/watchdog"
)

// Request selects what to plot and where; an empty Output means the job's
// default file with the renderer's extension
type Request struct {
	Job      Job
	Renderer string
	Output   string
}

type Result struct {
	RunId     string
	Output    string
	Summaries []series.Summary
}

type Runner struct {
	logger          *zap.Logger
	registry        *render.Registry
	extractor       *Extractor
	db              *gorm.DB
	publisher       *mq.ChartPublisher
	tracerFactory   *telemetry.TracerFactory
	watchDogFactory *watchdog.WatchDogFactory
}

type RunnerParams struct {
	fx.In
	Logger          *zap.Logger
	Registry        *render.Registry
	TracerFactory   *telemetry.TracerFactory
	WatchDogFactory *watchdog.WatchDogFactory
	Cache           *database.SeriesCache `optional:"true"`
	DB              *gorm.DB              `optional:"true"`
	Publisher       *mq.ChartPublisher    `optional:"true"`
}

func NewRunner(p RunnerParams) *Runner {
	logger := p.Logger.Named("runner")
	return &Runner{
		logger:          logger,
		registry:        p.Registry,
		extractor:       NewExtractor(p.Cache, logger),
		db:              p.DB,
		publisher:       p.Publisher,
		tracerFactory:   p.TracerFactory,
		watchDogFactory: p.WatchDogFactory,
	}
}

// Run extracts, renders and writes one chart
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	renderer, err := r.registry.Get(req.Renderer)
	if err != nil {
		return nil, err
	}
	output := req.Output
	if output == "" {
		output = render.DefaultOutput(renderer, req.Job.DefaultOutput())
	}
	format, err := render.FormatFor(renderer, output)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(output); err == nil {
		output = abs
	}

	runId := uuid.New().String()
	logger := r.logger.With(zap.String("run_id", runId), zap.String("job", req.Job.Name()))

	tracer := r.tracerFactory.NewTracer(ctx, "plot_"+req.Job.Name())
	tracer.WithAttributes(telemetry.NewSpanAttributes(telemetry.Rendering).
		WithRunId(runId).
		WithJob(req.Job.Name()).
		WithRenderer(renderer.Name()).
		WithOutput(output))
	tracer.Start()
	defer tracer.End()

	fail := func(err error) (*Result, error) {
		tracer.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sources, err := req.Job.Discover()
	if err != nil {
		return fail(err)
	}
	paths := make([]string, len(sources))
	for i, src := range sources {
		paths[i] = src.Path
	}
	logger.Debug("discovered logs", zap.Strings("files", paths))

	extractTracer := tracer.Spawn("extract")
	extractTracer.WithAttributes(telemetry.NewSpanAttributes(telemetry.Extraction).WithSources(paths))
	extractTracer.Start()
	extracted, err := r.extractor.Extract(ctx, req.Job.Parser(), sources)
	if err != nil {
		extractTracer.SetStatus(codes.Error, err.Error())
		extractTracer.End()
		return fail(err)
	}
	points := 0
	for _, s := range extracted {
		points += s.Len()
	}
	extractTracer.WithAttributes(telemetry.EmptySpanAttributes().
		WithSeriesCount(len(extracted)).
		WithPointCount(points))
	extractTracer.End()

	r.archive(ctx, logger, runId, req, renderer.Name(), output, extracted)

	c, err := req.Job.Build(sources, extracted)
	if err != nil {
		return fail(err)
	}

	summaries := make([]series.Summary, 0, len(extracted))
	for _, s := range extracted {
		sum := series.Summarize(s)
		summaries = append(summaries, sum)
		logger.Info("series",
			zap.String("name", sum.Name),
			zap.Int("points", sum.Count),
			zap.Float64("last_hours", sum.Last),
			zap.Float64("final", sum.Final),
			zap.Float64("max", sum.Max),
			zap.Float64("mean", sum.Mean),
			zap.Float64("stddev", sum.StdDev))
	}

	err = utils.WriteFileAtomic(output, func(w io.Writer) error {
		return renderer.Render(w, c, format)
	})
	if err != nil {
		return fail(fmt.Errorf("failed to write %s: %w", output, err))
	}
	tracer.AddEvent("chart_written", telemetry.NewEventAttributes(map[string]string{"output": output}))
	logger.Info("saved", zap.String("output", output), zap.String("renderer", renderer.Name()))

	msg := types.ChartMessage{
		RunId:        runId,
		Job:          req.Job.Name(),
		Renderer:     renderer.Name(),
		Output:       output,
		Series:       c.SeriesNames(),
		RenderedAt:   time.Now(),
		TraceContext: tracer.Export(),
	}
	if err := r.publisher.Publish(ctx, msg); err != nil {
		logger.Warn("failed to publish chart message", zap.Error(err))
	}

	tracer.SetStatus(codes.Ok, "chart rendered")
	return &Result{RunId: runId, Output: output, Summaries: summaries}, nil
}

// archive stores the extracted samples; failures only cost the archive
func (r *Runner) archive(ctx context.Context, logger *zap.Logger, runId string, req Request, renderer, output string, extracted []types.Series) {
	if r.db == nil {
		return
	}
	run := database.NewRun(runId, req.Job.Name(), renderer, output, database.Metadata{"series": len(extracted)})
	if err := database.AddRun(ctx, r.db, run); err != nil {
		logger.Warn("failed to archive run", zap.Error(err))
		return
	}
	samples := database.NewSamples(runId, extracted)
	if err := database.AddSamples(ctx, r.db, samples); err != nil {
		logger.Warn("failed to archive samples", zap.Error(err))
		return
	}
	logger.Debug("archived samples", zap.Int("samples", len(samples)))
}
