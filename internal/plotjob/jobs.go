package plotjob

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"fuzzplot/config"
	"fuzzplot/internal/chart"
	"fuzzplot/internal/discover"
	"fuzzplot/internal/logparse"
	"fuzzplot/internal/series"
	"fuzzplot/internal/types"
)

// ErrNoData matches every "nothing to plot" failure
var ErrNoData = errors.New("no data")

type noDataError string

func (e noDataError) Error() string        { return string(e) }
func (e noDataError) Is(target error) bool { return target == ErrNoData }

const (
	errNoCoverage      = noDataError("no coverage data extracted")
	errNoRunCoverage   = noDataError("no coverage data found in fuzz_log.txt files")
	errNoRunThroughput = noDataError("no throughput data found in fuzz_log.txt files")
)

const (
	SourceLog      = "log"
	SourceCSVStats = "csvstats"
)

// Job turns the logs of one directory layout into one chart
type Job interface {
	Name() string
	// Root is the directory the job reads from
	Root() string
	Discover() ([]discover.Source, error)
	Parser() logparse.Parser
	// Matches reports whether a changed file is one of the job's inputs
	Matches(path string) bool
	Build(sources []discover.Source, extracted []types.Series) (*chart.Chart, error)
	DefaultOutput() string
}

type Options struct {
	Dir        string
	Hours      float64 // end of the plotted window
	BinMinutes float64
	Source     string // coverage job input kind, SourceLog or SourceCSVStats
	Profile    *config.Profile
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Hours <= 0 {
		o.Hours = 24
	}
	if o.BinMinutes <= 0 {
		o.BinMinutes = 10
	}
	if o.Source == "" {
		o.Source = SourceLog
	}
	if o.Profile == nil {
		o.Profile = config.DefaultProfile()
	}
	return o
}

// New builds the job registered under name
func New(name string, opts Options) (Job, error) {
	switch name {
	case "coverage":
		return NewCoverageJob(opts)
	case "table":
		return NewTableJob(opts), nil
	case "runs":
		return NewRunsJob(opts)
	case "throughput":
		return NewThroughputJob(opts)
	}
	return nil, fmt.Errorf("unknown job %q", name)
}

// CoverageJob compares flat "<label>_fuzz_log.txt" files of one directory and
// annotates the series named by the profile
type CoverageJob struct {
	opts   Options
	suffix string
	parser logparse.Parser
}

func NewCoverageJob(opts Options) (*CoverageJob, error) {
	opts = opts.withDefaults()
	switch opts.Source {
	case SourceLog:
		parser, err := logparse.NewLookaheadParser(types.Coverage)
		if err != nil {
			return nil, err
		}
		return &CoverageJob{opts, discover.FlatLogSuffix, parser}, nil
	case SourceCSVStats:
		return &CoverageJob{opts, discover.FlatStatSuffix, logparse.NewCSVStatsParser()}, nil
	}
	return nil, fmt.Errorf("unknown coverage source %q", opts.Source)
}

func (j *CoverageJob) Root() string             { return j.opts.Dir }
func (j *CoverageJob) Name() string             { return "coverage" }
func (j *CoverageJob) Parser() logparse.Parser  { return j.parser }
func (j *CoverageJob) DefaultOutput() string    { return filepath.Join(j.opts.Dir, "coverage_comparison.png") }
func (j *CoverageJob) Matches(path string) bool { return strings.HasSuffix(filepath.Base(path), j.suffix) }

func (j *CoverageJob) Discover() ([]discover.Source, error) {
	return discover.Flat(j.opts.Dir, j.suffix)
}

func (j *CoverageJob) Build(_ []discover.Source, extracted []types.Series) (*chart.Chart, error) {
	profile := j.opts.Profile
	palette, err := chart.NewPalette(profile.Palette, len(extracted))
	if err != nil {
		return nil, err
	}

	title := "Coverage over time (hours) by log"
	if rules := profile.Describe(); rules != "" {
		title += ", " + rules
	}
	c := chart.New(title, "Elapsed time (hours)", "Coverage (%)", 12, 7)

	for _, s := range extracted {
		if s.Len() == 0 {
			continue
		}
		c.Lines = append(c.Lines, chart.Line{
			Name:         s.Name,
			Color:        palette.At(len(c.Lines)),
			Width:        0.5,
			MarkerRadius: 0.5,
			Points:       s.Points,
		})
		for _, rule := range profile.Annotations {
			if rule.Matches(s.Name) {
				c.Annotations = append(c.Annotations, chart.Annotate(s.Points, rule)...)
			}
		}
	}
	if len(c.Lines) == 0 {
		return nil, errNoCoverage
	}
	return c, nil
}

// TableJob plots every column of a side-by-side comparison log
type TableJob struct {
	opts   Options
	parser *logparse.TableParser
}

func NewTableJob(opts Options) *TableJob {
	return &TableJob{opts.withDefaults(), logparse.NewTableParser()}
}

func (j *TableJob) Root() string             { return j.opts.Dir }
func (j *TableJob) Name() string             { return "table" }
func (j *TableJob) Parser() logparse.Parser  { return j.parser }
func (j *TableJob) DefaultOutput() string    { return filepath.Join(j.opts.Dir, "coverage_comparison.png") }
func (j *TableJob) Matches(path string) bool { return filepath.Base(path) == discover.TableLogName }

func (j *TableJob) Discover() ([]discover.Source, error) {
	src, err := discover.Table(j.opts.Dir, discover.TableLogName)
	if err != nil {
		return nil, err
	}
	return []discover.Source{src}, nil
}

func (j *TableJob) Build(sources []discover.Source, extracted []types.Series) (*chart.Chart, error) {
	palette, err := chart.NewPalette(j.opts.Profile.Palette, len(extracted))
	if err != nil {
		return nil, err
	}

	engine := filepath.Base(j.opts.Dir)
	if len(sources) > 0 {
		engine = sources[0].Label
	}
	c := chart.New(fmt.Sprintf("Coverage over time (%s)", engine), "Elapsed time (hours)", "Coverage (%)", 12, 7)
	c.LegendColumns = 2

	for _, s := range extracted {
		if s.Len() == 0 {
			continue
		}
		c.Lines = append(c.Lines, chart.Line{
			Name:         s.Name,
			Color:        palette.At(len(c.Lines)),
			Width:        0.5,
			MarkerRadius: 0.5,
			Points:       s.Points,
		})
	}
	if len(c.Lines) == 0 {
		return nil, errNoCoverage
	}
	return c, nil
}

// RunsJob plots the coverage of every "<root>/<run>/fuzz_log.txt" over the
// first hours of the campaign, using the profile's run names and colours
type RunsJob struct {
	opts   Options
	parser *logparse.PendingParser
}

func NewRunsJob(opts Options) (*RunsJob, error) {
	parser, err := logparse.NewPendingParser(types.Coverage)
	if err != nil {
		return nil, err
	}
	return &RunsJob{opts.withDefaults(), parser}, nil
}

func (j *RunsJob) Root() string             { return j.opts.Dir }
func (j *RunsJob) Name() string             { return "runs" }
func (j *RunsJob) Parser() logparse.Parser  { return j.parser }
func (j *RunsJob) DefaultOutput() string    { return filepath.Join(j.opts.Dir, "coverage_plot.png") }
func (j *RunsJob) Matches(path string) bool { return filepath.Base(path) == discover.RunLogName }

func (j *RunsJob) Discover() ([]discover.Source, error) {
	sources, err := discover.Runs(j.opts.Dir, discover.RunLogName)
	if errors.Is(err, discover.ErrNoLogFiles) {
		return nil, errNoRunCoverage
	}
	return sources, err
}

func (j *RunsJob) Build(_ []discover.Source, extracted []types.Series) (*chart.Chart, error) {
	profile := j.opts.Profile
	palette, err := chart.NewPalette(profile.Palette, len(extracted))
	if err != nil {
		return nil, err
	}

	c := chart.New(fmt.Sprintf("Coverage Over Time (First %gh)", j.opts.Hours), "Time (hours)", "Coverage (%)", 10, 6)
	c.DPI = 150
	c.X = chart.Between(0, j.opts.Hours)
	c.Y = chart.From(20)

	// runs without a profile colour take the palette in order
	unstyled := 0
	for _, s := range extracted {
		points := series.Clip(s.Points, math.Inf(-1), j.opts.Hours)
		if len(points) == 0 {
			continue
		}

		color := palette.At(unstyled)
		if style, ok := profile.Runs[s.Name]; ok && style.Color != "" {
			parsed, err := chart.ParseColor(style.Color)
			if err != nil {
				return nil, fmt.Errorf("run %s: %w", s.Name, err)
			}
			color = parsed
		} else {
			unstyled++
		}

		c.Lines = append(c.Lines, chart.Line{
			Name:   profile.RunLabel(s.Name),
			Color:  color,
			Width:  1.5,
			Points: points,
		})
	}
	if len(c.Lines) == 0 {
		return nil, errNoRunCoverage
	}
	return c, nil
}

// ThroughputJob summarises the throughput of every run as a binned
// P25-P75 band around the median
type ThroughputJob struct {
	opts   Options
	parser *logparse.PendingParser
}

func NewThroughputJob(opts Options) (*ThroughputJob, error) {
	parser, err := logparse.NewPendingParser(types.Throughput)
	if err != nil {
		return nil, err
	}
	return &ThroughputJob{opts.withDefaults(), parser}, nil
}

func (j *ThroughputJob) Root() string             { return j.opts.Dir }
func (j *ThroughputJob) Name() string             { return "throughput" }
func (j *ThroughputJob) Parser() logparse.Parser  { return j.parser }
func (j *ThroughputJob) DefaultOutput() string    { return filepath.Join(j.opts.Dir, "throughput_plot.png") }
func (j *ThroughputJob) Matches(path string) bool { return filepath.Base(path) == discover.RunLogName }

func (j *ThroughputJob) Discover() ([]discover.Source, error) {
	sources, err := discover.Runs(j.opts.Dir, discover.RunLogName)
	if errors.Is(err, discover.ErrNoLogFiles) {
		return nil, errNoRunThroughput
	}
	return sources, err
}

func (j *ThroughputJob) bandOptions() series.BandOptions {
	opts := series.DefaultBandOptions()
	opts.BinMinutes = j.opts.BinMinutes
	opts.End = j.opts.Hours
	return opts
}

func (j *ThroughputJob) Build(_ []discover.Source, extracted []types.Series) (*chart.Chart, error) {
	palette, err := chart.NewPalette(j.opts.Profile.Palette, len(extracted))
	if err != nil {
		return nil, err
	}

	bandOpts := j.bandOptions()
	title := fmt.Sprintf("Throughput Quantile Band (0-%gh, %gmin bins, P%g-P%g + Median)",
		bandOpts.End, bandOpts.BinMinutes, bandOpts.Low, bandOpts.High)
	c := chart.New(title, "Time (hours)", "Throughput (seeds/min)", 10, 6)
	c.DPI = 150
	c.X = chart.Between(0, j.opts.Hours)

	for _, s := range extracted {
		band, err := series.QuantileBand(series.Clip(s.Points, 0, j.opts.Hours), bandOpts)
		if err != nil {
			return nil, err
		}
		if band.Len() == 0 {
			continue
		}

		color := palette.At(len(c.Lines))
		median := make([]types.Point, band.Len())
		for i := range band.X {
			median[i] = types.Point{Hours: band.X[i], Value: band.Mid[i]}
		}
		c.Bands = append(c.Bands, chart.Band{
			Name:  s.Name,
			Color: color,
			Alpha: 0.18,
			X:     band.X,
			Low:   band.Low,
			High:  band.High,
		})
		c.Lines = append(c.Lines, chart.Line{
			Name:   s.Name,
			Color:  color,
			Width:  0.9,
			Points: median,
		})
	}
	if len(c.Lines) == 0 {
		return nil, errNoRunThroughput
	}
	return c, nil
}
