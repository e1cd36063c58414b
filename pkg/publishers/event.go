package publishers

import (
	"encoding/json"
	"time"
)

// Event describes one completed backend call.
type Event struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Request    json.RawMessage `json:"request"`
	Response   json.RawMessage `json:"response"`
	StatusCode int             `json:"status_code"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEvent constructs an Event stamped with the current UTC time.
func NewEvent(id, kind string, request, response []byte, statusCode int) Event {
	return Event{
		ID:         id,
		Kind:       kind,
		Request:    json.RawMessage(request),
		Response:   json.RawMessage(response),
		StatusCode: statusCode,
		CreatedAt:  time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by queue and topic sinks.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id": e.ID,
		"kind":     e.Kind,
	}
}
