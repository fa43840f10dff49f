package callibella

import "strings"

// SplitSegments splits a source text into sentence-like segments at every
// `.`, `!` or `?`, keeping the terminator with its sentence. Whitespace-only
// pieces are dropped. A non-empty text with no terminator yields itself as a
// single segment; an empty text yields none.
func SplitSegments(text string) []string {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}

	var segments []string
	start := 0
	for i, r := range t {
		if r == '.' || r == '!' || r == '?' {
			piece := strings.TrimSpace(t[start : i+1])
			if piece != "" {
				segments = append(segments, piece)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(t[start:]); tail != "" {
		segments = append(segments, tail)
	}

	if len(segments) == 0 {
		return []string{t}
	}
	return segments
}
