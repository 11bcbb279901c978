package types

import "time"

// ChartMessage announces a rendered chart on the notification queue
type ChartMessage struct {
	RunId      string    `json:"run_id"`
	Job        string    `json:"job"`
	Renderer   string    `json:"renderer"`
	Output     string    `json:"output"` // absolute path of the written chart
	Series     []string  `json:"series"`
	RenderedAt time.Time `json:"rendered_at"`
	// TraceContext links consumers to the rendering span, empty without telemetry
	TraceContext string `json:"trace_context,omitempty"`
}
