package domain

import "time"

// Domain contains core models shared by the runner, journal and publishers.

// CallRecord describes one completed API call issued by the runner.
type CallRecord struct {
	ID          string        `json:"id"`
	Script      string        `json:"script"`
	Call        string        `json:"call"`
	Method      string        `json:"method"`
	URL         string        `json:"url"`
	StatusCode  int           `json:"status_code"`
	BodyBytes   int           `json:"body_bytes"`
	Elapsed     time.Duration `json:"elapsed"`
	Error       string        `json:"error,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Succeeded reports whether the call got a 2xx response without error.
func (r CallRecord) Succeeded() bool {
	return r.Error == "" && r.StatusCode >= 200 && r.StatusCode <= 299
}
