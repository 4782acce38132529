package amqp

import (
	"testing"
	"time"

	"etp/internal/core"
)

func TestNewWorkflowEventMessage(t *testing.T) {
	entry := core.LogEntry{
		ID:        "evt-1",
		Message:   "Reading file: expenses.xlsx",
		Timestamp: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Status:    core.LogProcessing,
	}

	msg := NewWorkflowEventMessage(entry)

	if msg.ID != entry.ID {
		t.Errorf("NewWorkflowEventMessage() ID = %v, want %v", msg.ID, entry.ID)
	}
	if msg.Message != entry.Message {
		t.Errorf("NewWorkflowEventMessage() Message = %v, want %v", msg.Message, entry.Message)
	}
	if msg.Status != string(core.LogProcessing) {
		t.Errorf("NewWorkflowEventMessage() Status = %v, want %v", msg.Status, core.LogProcessing)
	}
	if !msg.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("NewWorkflowEventMessage() Timestamp = %v, want %v", msg.Timestamp, entry.Timestamp)
	}
}

func TestWorkflowEventMessage_JSON(t *testing.T) {
	timestamp := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	msg := &WorkflowEventMessage{
		ID:        "evt-42",
		Message:   "Workflow completed successfully",
		Status:    string(core.LogSuccess),
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := WorkflowEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("WorkflowEventMessageFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Message != msg.Message {
		t.Errorf("Parsed Message = %v, want %v", parsedMsg.Message, msg.Message)
	}
	if parsedMsg.Status != msg.Status {
		t.Errorf("Parsed Status = %v, want %v", parsedMsg.Status, msg.Status)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestWorkflowEventMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": 7, "message": false}`)

	_, err := WorkflowEventMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("WorkflowEventMessageFromJSON() should fail with invalid JSON")
	}
}
