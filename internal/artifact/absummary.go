package artifact

// ArmOutcome is one (unit, arm) terminal pipeline result fed into the A/B
// rollup. Immutable snapshot; the computer never mutates its inputs.
type ArmOutcome struct {
	UnitID    string  `json:"unit_id"`
	Arm       Arm     `json:"arm"`
	Status    string  `json:"status"`
	GatePass  bool    `json:"gate_pass"`
	LatencyMS int64   `json:"latency_ms"`
	CostUSD   float64 `json:"cost_usd"`
}

// QualityReview is one human review of a generated unit.
type QualityReview struct {
	UnitID   string  `json:"unit_id"`
	Arm      Arm     `json:"arm"`
	Score    float64 `json:"score"`
	Rejected bool    `json:"rejected"`
}

// ArmSummary is the per-arm rollup.
type ArmSummary struct {
	Arm             Arm     `json:"arm"`
	Generated       int     `json:"generated"`
	Blocked         int     `json:"blocked"`
	Failed          int     `json:"failed"`
	GatePassRate    float64 `json:"gate_pass_rate"`
	ReviewCount     int     `json:"review_count"`
	QualityMean     float64 `json:"quality_mean"`
	QualityMedian   float64 `json:"quality_median"`
	RejectionRate   float64 `json:"rejection_rate"`
	MedianLatencyMS float64 `json:"median_latency_ms"`
	MedianCostUSD   float64 `json:"median_cost_usd"`
}

// Winner decisions.
const (
	WinnerControl             = "control"
	WinnerAlternate           = "alternate"
	WinnerTie                 = "tie"
	WinnerInsufficientReviews = "insufficient_reviews"
)

// ABSummary is the deterministic arm comparison. Recomputed fresh on every
// review submission, never partially updated.
type ABSummary struct {
	Control   ArmSummary `json:"control"`
	Alternate ArmSummary `json:"alternate"`
	Winner    string     `json:"winner"`
	Reason    string     `json:"reason"`
}
