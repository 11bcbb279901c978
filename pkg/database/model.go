package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PlotRun represents a record in the public.plot_runs table
type PlotRun struct {
	ID        int       `gorm:"primaryKey;column:id"`
	RunID     string    `gorm:"column:run_id;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	Job       string    `gorm:"column:job;not null"`
	Renderer  string    `gorm:"column:renderer"`
	Output    string    `gorm:"column:output"`
	Metadata  Metadata  `gorm:"column:metadata;type:jsonb"`
}

// MetricSample represents a record in the public.metric_samples table, one
// extracted (elapsed time, value) point
type MetricSample struct {
	ID     int     `gorm:"primaryKey;column:id"`
	RunID  string  `gorm:"column:run_id;not null;index"`
	Series string  `gorm:"column:series"`
	Metric string  `gorm:"column:metric;not null"`
	Source string  `gorm:"column:source"`
	Hours  float64 `gorm:"column:hours"`
	Value  float64 `gorm:"column:value"`
}

// Metadata represents the jsonb field in the plot_runs table
type Metadata map[string]any

// Value implements the driver.Valuer interface for the Metadata type
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for the Metadata type
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, &m)
}
