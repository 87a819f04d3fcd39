package artifact

import "fmt"

// BriefUnit is one (awareness level, emotional driver) work item. Units are
// immutable once expanded; downstream stages reference them by ID only.
type BriefUnit struct {
	ID             string `json:"id"`
	AwarenessLevel string `json:"awareness_level"`
	EmotionKey     string `json:"emotion_key"`
	Ordinal        int    `json:"ordinal"`
	PlanHash       string `json:"plan_hash"`
}

// UnitID builds the canonical unit identifier for a cell ordinal.
func UnitID(awareness, emotion string, ordinal int) string {
	return fmt.Sprintf("bu-%s-%s-%d", awareness, emotion, ordinal)
}
