package artifact

import "strings"

// Arm is one of the two generation strategies under comparison.
type Arm string

const (
	ArmControl   Arm = "control"
	ArmAlternate Arm = "alternate"
)

// Arms lists both arms in a fixed order.
func Arms() []Arm { return []Arm{ArmControl, ArmAlternate} }

// Unit artifact statuses.
const (
	StatusOK      = "ok"
	StatusBlocked = "blocked"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Script section names, in delivery order. Every draft must fill all five.
const (
	SectionHook      = "hook"
	SectionProblem   = "problem"
	SectionMechanism = "mechanism"
	SectionProof     = "proof"
	SectionCTA       = "cta"
)

// ScriptSections returns the required section names in order.
func ScriptSections() []string {
	return []string{SectionHook, SectionProblem, SectionMechanism, SectionProof, SectionCTA}
}

// ScriptSpec is the deterministic drafting contract for one unit. It is a
// pure function of (BriefUnit, EvidencePack); no generation call involved.
type ScriptSpec struct {
	UnitID        string   `json:"unit_id"`
	Tone          string   `json:"tone"`
	Sections      []string `json:"sections"`
	MinWords      int      `json:"min_words"`
	MaxWords      int      `json:"max_words"`
	OneCTA        bool     `json:"one_cta"`
	CiteEveryLine bool     `json:"cite_every_line"`
}

// ScriptLine is one ordered line of a draft with its citations.
type ScriptLine struct {
	ID          string   `json:"id"`
	Section     string   `json:"section"`
	Text        string   `json:"text"`
	EvidenceIDs []string `json:"evidence_ids"`
}

// WordCount counts whitespace-separated tokens in the line text.
func (l ScriptLine) WordCount() int { return len(strings.Fields(l.Text)) }

// ScriptGateReport records the hard checks applied to an ok draft.
type ScriptGateReport struct {
	SchemaValid      bool     `json:"schema_valid"`
	SectionsComplete bool     `json:"sections_complete"`
	CitationsValid   bool     `json:"citations_valid"`
	WordCountOK      bool     `json:"word_count_ok"`
	WordCount        int      `json:"word_count"`
	EmptySections    []string `json:"empty_sections,omitempty"`
	ForeignIDs       []string `json:"foreign_ids,omitempty"`
	UncitedLineIDs   []string `json:"uncited_line_ids,omitempty"`
	Pass             bool     `json:"pass"`
}

// CoreScriptDraft is one arm's script for one unit. Drafts are replaced
// wholesale on regeneration, never patched field-by-field.
type CoreScriptDraft struct {
	UnitID    string           `json:"unit_id"`
	Arm       Arm              `json:"arm"`
	Status    string           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Lines     []ScriptLine     `json:"lines,omitempty"`
	Gate      ScriptGateReport `json:"gate"`
	LatencyMS int64            `json:"latency_ms"`
	CostUSD   float64          `json:"cost_usd"`
}

// FirstUsableLine returns the first line whose text is non-empty after
// trimming, which anchors hook generation.
func (d CoreScriptDraft) FirstUsableLine() (ScriptLine, bool) {
	for _, l := range d.Lines {
		if strings.TrimSpace(l.Text) != "" {
			return l, true
		}
	}
	return ScriptLine{}, false
}

// TotalWords sums word counts across all lines.
func (d CoreScriptDraft) TotalWords() int {
	n := 0
	for _, l := range d.Lines {
		n += l.WordCount()
	}
	return n
}
