package textsplit

import "strings"

// Splitter breaks document text into overlapping chunks along a ladder of
// separators, preferring paragraph boundaries so complete arguments stay in
// one chunk. Sizes are tuned for philosophical prose: larger chunks, generous
// overlap.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

func NewSplitter() *Splitter {
	return &Splitter{
		ChunkSize:    1200,
		ChunkOverlap: 300,
		Separators: []string{
			"\n\n\n",
			"\n\n",
			"\n",
			". ",
			"; ",
			", ",
			" ",
			"",
		},
	}
}

func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	seps := s.Separators
	if len(seps) == 0 {
		seps = []string{""}
	}
	return s.split(text, seps)
}

func (s *Splitter) split(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	var rest []string
	for i, candidate := range seps {
		if candidate == "" {
			sep = ""
			rest = nil
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return s.windows(text)
	}

	pieces := strings.Split(text, sep)

	var final []string
	var good []string
	for _, piece := range pieces {
		if len(piece) <= s.ChunkSize {
			good = append(good, piece)
			continue
		}
		final = append(final, s.merge(good, sep)...)
		good = nil
		final = append(final, s.split(piece, rest)...)
	}
	final = append(final, s.merge(good, sep)...)
	return final
}

// merge greedily joins pieces back up to ChunkSize, carrying a tail of
// roughly ChunkOverlap characters into the next chunk.
func (s *Splitter) merge(pieces []string, sep string) []string {
	var chunks []string
	var current []string
	total := 0
	for _, p := range pieces {
		pLen := len(p)
		sepLen := 0
		if len(current) > 0 {
			sepLen = len(sep)
		}
		if total+pLen+sepLen > s.ChunkSize && len(current) > 0 {
			chunk := strings.TrimSpace(strings.Join(current, sep))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(current) > 0 && (total > s.ChunkOverlap || total+pLen+sepLen > s.ChunkSize) {
				headSep := 0
				if len(current) > 1 {
					headSep = len(sep)
				}
				total -= len(current[0]) + headSep
				current = current[1:]
			}
		}
		current = append(current, p)
		total += pLen
		if len(current) > 1 {
			total += len(sep)
		}
	}
	if len(current) > 0 {
		chunk := strings.TrimSpace(strings.Join(current, sep))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// windows splits character-by-character when no separator fits, stepping by
// ChunkSize minus the overlap so adjacent windows still share context.
func (s *Splitter) windows(text string) []string {
	step := s.ChunkSize - s.ChunkOverlap
	if step <= 0 {
		step = s.ChunkSize
	}
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
