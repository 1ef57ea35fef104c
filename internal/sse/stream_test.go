package sse

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewWriterSetsStreamingHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	if _, err := NewWriter(rec); err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	headers := map[string]string{
		"Content-Type":      "text/event-stream",
		"Cache-Control":     "no-cache",
		"X-Accel-Buffering": "no",
	}
	for k, want := range headers {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("header %s=%q, want %q", k, got, want)
		}
	}
}

func TestSendFramesEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if err := w.Send(Status("preparando")); err != nil {
		t.Fatalf("Send status failed: %v", err)
	}
	if err := w.Send(Complete("listo", 5)); err != nil {
		t.Fatalf("Send complete failed: %v", err)
	}

	body := rec.Body.String()
	frames := strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n")
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2: %q", len(frames), body)
	}
	if !strings.HasPrefix(frames[0], "event: status\ndata: ") {
		t.Fatalf("bad status frame: %q", frames[0])
	}
	if !strings.Contains(frames[0], `"message":"preparando"`) {
		t.Fatalf("status payload missing: %q", frames[0])
	}
	if !strings.HasPrefix(frames[1], "event: complete\ndata: ") {
		t.Fatalf("bad complete frame: %q", frames[1])
	}
	if !strings.Contains(frames[1], `"total":5`) {
		t.Fatalf("complete payload missing total: %q", frames[1])
	}
	if !rec.Flushed {
		t.Fatal("writer did not flush")
	}
}

func TestSendRejectsUnmarshalableData(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := w.Send(Event{Type: EventStatus, Data: make(chan int)}); err == nil {
		t.Fatal("Send accepted unmarshalable data")
	}
}
