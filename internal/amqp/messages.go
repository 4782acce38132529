package amqp

import (
	"encoding/json"
	"time"

	"etp/internal/core"
)

// WorkflowEventMessage mirrors a single stage-log entry onto the broker so
// external consumers can tail a run without polling the HTTP feed.
type WorkflowEventMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWorkflowEventMessage builds a broker message from a stage-log entry.
func NewWorkflowEventMessage(entry core.LogEntry) *WorkflowEventMessage {
	return &WorkflowEventMessage{
		ID:        entry.ID,
		Message:   entry.Message,
		Status:    string(entry.Status),
		Timestamp: entry.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *WorkflowEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func WorkflowEventMessageFromJSON(data []byte) (*WorkflowEventMessage, error) {
	var msg WorkflowEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
