package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type EventType string

const (
	EventStatus   EventType = "status"
	EventProfile  EventType = "profile"
	EventExercise EventType = "exercise"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

type Event struct {
	Type EventType
	Data any
}

func Status(message string) Event {
	return Event{Type: EventStatus, Data: map[string]string{"message": message}}
}

func Profile(summary, topic string) Event {
	return Event{Type: EventProfile, Data: map[string]string{"summary": summary, "topic": topic}}
}

func Complete(message string, total int) Event {
	return Event{Type: EventComplete, Data: map[string]any{"message": message, "total": total}}
}

func Error(message string) Event {
	return Event{Type: EventError, Data: map[string]string{"error": message}}
}

// Writer frames events for one open event-stream response and flushes after
// every write so each item reaches the client as soon as it exists. A write
// error means the peer went away; callers stop the loop on the first one.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return &Writer{w: w, flusher: flusher}, nil
}

func (sw *Writer) Send(ev Event) error {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}
