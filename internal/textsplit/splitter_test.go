package textsplit

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter()
	chunks := s.Split("La dicotomía del control es el fundamento de la práctica estoica.")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter()
	if chunks := s.Split("   \n\n  "); chunks != nil {
		t.Fatalf("got %v, want nil", chunks)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter()

	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("No son las cosas las que perturban a los hombres, sino las opiniones que tienen de ellas. ")
		if i%4 == 3 {
			b.WriteString("\n\n")
		}
	}
	text := b.String()

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks for %d bytes, want several", len(chunks), len(text))
	}
	for i, c := range chunks {
		if c == "" {
			t.Fatalf("chunk %d is empty", i)
		}
		if len(c) > s.ChunkSize {
			t.Fatalf("chunk %d is %d bytes, limit %d", i, len(c), s.ChunkSize)
		}
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	s := NewSplitter()
	s.ChunkSize = 40
	s.ChunkOverlap = 0

	text := "primero uno. segundo dos. tercero tres. cuarto cuatro. quinto cinco. sexto seis."
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}

	lastPos := -1
	for _, c := range chunks {
		head := strings.SplitN(c, " ", 2)[0]
		pos := strings.Index(text, head)
		if pos < lastPos {
			t.Fatalf("chunk %q appears out of order", c)
		}
		lastPos = pos
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := NewSplitter()
	s.ChunkSize = 60
	s.ChunkOverlap = 25

	text := "frase uno aquí. frase dos aquí. frase tres aquí. frase cuatro aquí. frase cinco aquí."
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want several", len(chunks))
	}

	overlapped := false
	for i := 1; i < len(chunks); i++ {
		head := strings.SplitN(chunks[i], ". ", 2)[0]
		if strings.Contains(chunks[i-1], head) {
			overlapped = true
			break
		}
	}
	if !overlapped {
		t.Fatalf("no chunk reopens with its predecessor's tail: %q", chunks)
	}
}

func TestSplitNoSeparatorFallsBackToWindows(t *testing.T) {
	s := NewSplitter()
	s.ChunkSize = 100
	s.ChunkOverlap = 20

	text := strings.Repeat("x", 350)
	chunks := s.Split(text)
	if len(chunks) < 4 {
		t.Fatalf("got %d chunks for unbroken text, want windowed pieces", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > s.ChunkSize {
			t.Fatalf("window %d is %d bytes, limit %d", i, len(c), s.ChunkSize)
		}
	}
}
