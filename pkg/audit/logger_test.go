package audit

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	verified := true
	logger.Log(Event{Kind: KindRecordParsed, Timestamp: time.Now()})
	logger.Log(Event{Kind: KindSignatureVerified, Timestamp: time.Now(), Verified: &verified})
	logger.Log(Event{Kind: KindComplianceChecked, Timestamp: time.Now(), Issues: []string{"METER_STATUS"}})
	logger.Log(Event{Kind: KindError, Timestamp: time.Now(), Message: "test error"})
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)
	multi.Log(Event{Kind: KindRecordParsed, Timestamp: time.Now(), RunID: "run-123"})

	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].RunID != "run-123" {
			t.Errorf("logger %d: RunID = %q, want %q", i, mock.events[0].RunID, "run-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()

	// Should not panic with empty logger list
	multi.Log(Event{Kind: KindRecordParsed, Timestamp: time.Now()})
}
