package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoggerCreation(t *testing.T) {
	logger := New("session")

	if logger.component != "session" {
		t.Errorf("expected component 'session', got '%s'", logger.component)
	}
}

func TestLoggerWithRequest(t *testing.T) {
	logger := New("server").WithRequest("req-1")

	if logger.request != "req-1" {
		t.Errorf("expected request 'req-1', got '%s'", logger.request)
	}
}

func TestLoggerWithConversation(t *testing.T) {
	logger := New("session").WithConversation(7)

	if logger.conversation != 7 {
		t.Errorf("expected conversation 7, got %d", logger.conversation)
	}
}

func TestEventSerialization(t *testing.T) {
	event := Event{
		Timestamp:    "2026-01-01T00:00:00Z",
		Level:        LevelInfo,
		Component:    "client",
		Event:        "ask_done",
		Conversation: 3,
		Duration:     100,
		Extra: map[string]interface{}{
			"key": "value",
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}

	if parsed["level"] != "info" {
		t.Errorf("expected level 'info', got '%v'", parsed["level"])
	}
	if parsed["component"] != "client" {
		t.Errorf("expected component 'client', got '%v'", parsed["component"])
	}
	if parsed["duration_ms"].(float64) != 100 {
		t.Errorf("expected duration_ms 100, got '%v'", parsed["duration_ms"])
	}
	if parsed["conversation"].(float64) != 3 {
		t.Errorf("expected conversation 3, got '%v'", parsed["conversation"])
	}
}

func TestEventOmitsEmptyFields(t *testing.T) {
	event := Event{
		Timestamp: "2026-01-01T00:00:00Z",
		Level:     LevelInfo,
		Component: "session",
		Event:     "list_loaded",
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	out := string(data)
	for _, field := range []string{"request", "conversation", "duration_ms", "error", "extra"} {
		if strings.Contains(out, `"`+field+`"`) {
			t.Errorf("expected field %q to be omitted, got %s", field, out)
		}
	}
}

func TestRequestEvent(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	RequestEvent("req-42", "POST", "/ask", 200, 150*time.Millisecond)

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if parsed["request"] != "req-42" {
		t.Errorf("expected request 'req-42', got '%v'", parsed["request"])
	}
	extra := parsed["extra"].(map[string]interface{})
	if extra["method"] != "POST" {
		t.Errorf("expected method 'POST', got '%v'", extra["method"])
	}
	if extra["status"].(float64) != 200 {
		t.Errorf("expected status 200, got '%v'", extra["status"])
	}
}

func TestRequestEventErrorLevel(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	RequestEvent("req-43", "GET", "/conversations", 500, time.Millisecond)

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if parsed["level"] != "error" {
		t.Errorf("expected level 'error', got '%v'", parsed["level"])
	}
}
