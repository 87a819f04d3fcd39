package artifact

// HookLane names a creative angle used to diversify hook candidates.
type HookLane string

// The lane catalog is closed. LaneScriptAnchor is reserved for the one
// candidate whose copy is the script's own first line, never model output.
const (
	LanePatternInterrupt HookLane = "pattern_interrupt"
	LaneMythBust         HookLane = "myth_bust"
	LaneMechanismReveal  HookLane = "mechanism_reveal"
	LaneSocialProof      HookLane = "social_proof"
	LaneQuestion         HookLane = "question"
	LaneBoldClaim        HookLane = "bold_claim"
	LaneScriptAnchor     HookLane = "script_anchor"
)

// HookLanes returns the generative lanes in catalog order (anchor excluded).
func HookLanes() []HookLane {
	return []HookLane{
		LanePatternInterrupt,
		LaneMythBust,
		LaneMechanismReveal,
		LaneSocialProof,
		LaneQuestion,
		LaneBoldClaim,
	}
}

// HookCandidate is one raw opening-hook option before gating.
type HookCandidate struct {
	ID          string   `json:"id"`
	Lane        HookLane `json:"lane"`
	Copy        string   `json:"copy"`
	EvidenceIDs []string `json:"evidence_ids"`
}

// IsAnchor reports whether the candidate is the reserved script anchor.
func (c HookCandidate) IsAnchor() bool { return c.Lane == LaneScriptAnchor }

// HookGateResult is the per-candidate gate outcome. Pass requires every
// boolean check and both score thresholds.
type HookGateResult struct {
	CandidateID   string   `json:"candidate_id"`
	Aligned       bool     `json:"aligned"`
	EvidenceValid bool     `json:"evidence_valid"`
	ClaimSafe     bool     `json:"claim_safe"`
	MetaFree      bool     `json:"meta_free"`
	ScrollStop    int      `json:"scroll_stop"`
	Specificity   int      `json:"specificity"`
	ScoreFallback bool     `json:"score_fallback"`
	Reasons       []string `json:"reasons,omitempty"`
	Pass          bool     `json:"pass"`
}

// Selection statuses for promoted variants.
const (
	SelectionPrimary         = "primary"
	SelectionGated           = "gated"
	SelectionRelaxed         = "relaxed_diversity"
	SelectionQualityReleased = "quality_gate_released"
)

// HookVariant is a gated, ranked candidate in the final bundle.
type HookVariant struct {
	HookCandidate
	Rank            int            `json:"rank"`
	SelectionStatus string         `json:"selection_status"`
	Composite       float64        `json:"composite"`
	Gate            HookGateResult `json:"gate"`
}

// HookDeficiencyFlags records shortfalls the ranker could not fix. They are
// surfaced to the caller, never hidden.
type HookDeficiencyFlags struct {
	LaneShortfall    bool `json:"lane_shortfall"`
	DiversityHigh    bool `json:"diversity_high"`
	TargetShortfall  bool `json:"target_shortfall"`
	QualityGateRelax bool `json:"quality_gate_relax"`
}

// HookBundle is the final ranked, deduplicated hook output for one
// (unit, arm).
type HookBundle struct {
	UnitID   string              `json:"unit_id"`
	Arm      Arm                 `json:"arm"`
	Status   string              `json:"status"`
	Variants []HookVariant       `json:"variants,omitempty"`
	Flags    HookDeficiencyFlags `json:"flags"`
}
