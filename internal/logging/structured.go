// Package logging provides structured JSON logging for lawchat components.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp    string                 `json:"ts"`
	Level        Level                  `json:"level"`
	Component    string                 `json:"component"`
	Event        string                 `json:"event"`
	Request      string                 `json:"request,omitempty"`
	Conversation int64                  `json:"conversation,omitempty"`
	Duration     int64                  `json:"duration_ms,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Extra        map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging
type Logger struct {
	component    string
	request      string
	conversation int64
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component}
}

// WithRequest sets the request context
func (l *Logger) WithRequest(request string) *Logger {
	return &Logger{
		component:    l.component,
		request:      request,
		conversation: l.conversation,
	}
}

// WithConversation sets the conversation context
func (l *Logger) WithConversation(id int64) *Logger {
	return &Logger{
		component:    l.component,
		request:      l.request,
		conversation: id,
	}
}

// log emits a structured log event
func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error) {
	e := Event{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Level:        level,
		Component:    l.component,
		Event:        event,
		Request:      l.request,
		Conversation: l.conversation,
		Extra:        extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(os.Stderr, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err)
}

// TimedEvent logs an event with duration
func (l *Logger) TimedEvent(event string, start time.Time, extra map[string]interface{}) {
	e := Event{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Level:        LevelInfo,
		Component:    l.component,
		Event:        event,
		Request:      l.request,
		Conversation: l.conversation,
		Duration:     time.Since(start).Milliseconds(),
		Extra:        extra,
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(os.Stderr, string(data))
}

// RequestEvent logs a completed HTTP request
func RequestEvent(requestID, method, path string, status int, duration time.Duration) {
	level := LevelInfo
	if status >= 500 {
		level = LevelError
	}

	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: "server",
		Event:     "request",
		Request:   requestID,
		Duration:  duration.Milliseconds(),
		Extra: map[string]interface{}{
			"method": method,
			"path":   path,
			"status": status,
		},
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(os.Stderr, string(data))
}
