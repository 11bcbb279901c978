package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fuzzplot/internal/types"
)

const sampleBatchSize = 500

// inserts a single plot run record into the database
func AddRun(ctx context.Context, db *gorm.DB, run *PlotRun) error {
	if run == nil {
		return nil
	}
	return db.WithContext(ctx).Create(run).Error
}

// NewRun creates a new PlotRun object with the provided parameters
func NewRun(runID, job, renderer, output string, metadata Metadata) *PlotRun {
	return &PlotRun{
		RunID:     runID,
		CreatedAt: time.Now(),
		Job:       job,
		Renderer:  renderer,
		Output:    output,
		Metadata:  metadata,
	}
}

// inserts metric samples in batches
func AddSamples(ctx context.Context, db *gorm.DB, samples []*MetricSample) error {
	if len(samples) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(samples, sampleBatchSize).Error
}

// NewSamples flattens extracted series into sample rows
func NewSamples(runID string, series []types.Series) []*MetricSample {
	var samples []*MetricSample
	for _, s := range series {
		for _, p := range s.Points {
			samples = append(samples, &MetricSample{
				RunID:  runID,
				Series: s.Name,
				Metric: string(s.Metric),
				Source: s.Source,
				Hours:  p.Hours,
				Value:  p.Value,
			})
		}
	}
	return samples
}
