package scene

import (
	"fmt"
	"strings"

	"adforge/internal/artifact"
)

// Beat split thresholds.
const (
	splitWordThreshold = 18
	minFragmentWords   = 4
)

// Clause markers that suggest a line carries two distinct thoughts.
var clauseMarkers = []string{", ", "; ", " and ", " but ", " because ", " so ", " which ", " then "}

// SplitBeats decomposes script lines into filmable beats. A line splits
// into at most two beats when it is long or multi-clause; the split point
// prefers a sentence or clause boundary and falls back to the midpoint
// word. Fragments shorter than the minimum merge back into their neighbor.
// Every beat keeps lineage to the single source line it came from.
func SplitBeats(lines []artifact.ScriptLine) []artifact.Beat {
	var beats []artifact.Beat
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		parts := splitLine(text)
		for i, p := range parts {
			beats = append(beats, artifact.Beat{
				ID:                 fmt.Sprintf("%s-b%d", line.ID, i+1),
				SourceScriptLineID: line.ID,
				BeatIndex:          i + 1,
				Text:               p,
				EvidenceIDs:        line.EvidenceIDs,
			})
		}
	}
	return beats
}

func splitLine(text string) []string {
	words := strings.Fields(text)
	if len(words) < splitWordThreshold && countClauses(text) < 2 {
		return []string{text}
	}

	first, second := splitAtBoundary(text)
	if first == "" || second == "" {
		first, second = splitAtMidpoint(words)
	}
	// Merge runt fragments back into the neighbor.
	if len(strings.Fields(first)) < minFragmentWords || len(strings.Fields(second)) < minFragmentWords {
		return []string{text}
	}
	return []string{first, second}
}

// countClauses counts clause markers present in the text.
func countClauses(text string) int {
	n := 1
	lower := strings.ToLower(text)
	for _, m := range clauseMarkers {
		n += strings.Count(lower, m)
	}
	return n
}

// splitAtBoundary tries sentence then clause boundaries nearest the middle.
func splitAtBoundary(text string) (string, string) {
	mid := len(text) / 2
	best := -1
	bestDist := len(text)
	tryIndex := func(idx, cut int) {
		if idx <= 0 || idx >= len(text)-1 {
			return
		}
		d := idx + cut - mid
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = idx + cut
		}
	}
	for _, sep := range []string{". ", "! ", "? "} {
		idx := strings.Index(text, sep)
		for idx >= 0 {
			tryIndex(idx, len(sep)-1)
			next := strings.Index(text[idx+1:], sep)
			if next < 0 {
				break
			}
			idx = idx + 1 + next
		}
	}
	if best < 0 {
		lower := strings.ToLower(text)
		for _, m := range clauseMarkers {
			idx := strings.Index(lower, m)
			for idx >= 0 {
				tryIndex(idx, 1)
				next := strings.Index(lower[idx+1:], m)
				if next < 0 {
					break
				}
				idx = idx + 1 + next
			}
		}
	}
	if best < 0 {
		return "", ""
	}
	return strings.TrimSpace(strings.Trim(text[:best], ",; ")), strings.TrimSpace(text[best:])
}

func splitAtMidpoint(words []string) (string, string) {
	mid := len(words) / 2
	return strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")
}
