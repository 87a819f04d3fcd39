package artifact

// PlanMatrix is the planning input: ordered awareness levels, an ordered
// emotion catalog, and per-cell target counts. Cell order in the input is
// not significant; the expander re-sorts by (awareness, emotion) index.
type PlanMatrix struct {
	AwarenessLevels []string     `json:"awareness_levels"`
	Emotions        []string     `json:"emotions"`
	Cells           []MatrixCell `json:"cells"`
}

// MatrixCell is one (awareness level, emotion) planning cell.
type MatrixCell struct {
	AwarenessLevel string `json:"awareness_level"`
	EmotionKey     string `json:"emotion_key"`
	TargetCount    int    `json:"target_count"`
}

// AwarenessIndex returns the position of level in the ordered catalog, or -1.
func (m PlanMatrix) AwarenessIndex(level string) int {
	for i, l := range m.AwarenessLevels {
		if l == level {
			return i
		}
	}
	return -1
}

// EmotionIndex returns the position of key in the ordered catalog, or -1.
func (m PlanMatrix) EmotionIndex(key string) int {
	for i, e := range m.Emotions {
		if e == key {
			return i
		}
	}
	return -1
}
