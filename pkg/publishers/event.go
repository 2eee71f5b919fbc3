package publishers

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-rest-client/internal/domain"
)

// Event represents the "call completed" payload published downstream.
type Event struct {
	ID          string            `json:"id"`
	Script      string            `json:"script"`
	Call        domain.CallRecord `json:"call"`
	PublishedAt time.Time         `json:"published_at"`
}

// NewEvent constructs an Event for a completed call of the given script.
func NewEvent(script string, rec domain.CallRecord) Event {
	return Event{
		ID:          uuid.NewString(),
		Script:      script,
		Call:        rec,
		PublishedAt: time.Now().UTC(),
	}
}

// attributes returns the routing attributes attached by queue/topic sinks.
// Empty values are omitted since SQS and SNS reject them.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"status_code": strconv.Itoa(e.Call.StatusCode),
	}
	for k, v := range map[string]string{"script": e.Script, "call": e.Call.Call, "method": e.Call.Method} {
		if v != "" {
			attrs[k] = v
		}
	}
	return attrs
}
