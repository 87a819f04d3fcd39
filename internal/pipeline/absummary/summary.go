package absummary

import (
	"fmt"
	"sort"

	"adforge/internal/artifact"
)

// Compute builds the deterministic A/B comparison from immutable outcome
// and review snapshots. Re-running on the same inputs yields the same
// winner and reason string; nothing here mutates its inputs.
func Compute(outcomes []artifact.ArmOutcome, reviews []artifact.QualityReview) artifact.ABSummary {
	control := summarize(artifact.ArmControl, outcomes, reviews)
	alternate := summarize(artifact.ArmAlternate, outcomes, reviews)

	summary := artifact.ABSummary{Control: control, Alternate: alternate}
	summary.Winner, summary.Reason = decide(control, alternate)
	return summary
}

func summarize(arm artifact.Arm, outcomes []artifact.ArmOutcome, reviews []artifact.QualityReview) artifact.ArmSummary {
	s := artifact.ArmSummary{Arm: arm}

	gatePassed := 0
	var latencies, costs []float64
	for _, o := range outcomes {
		if o.Arm != arm {
			continue
		}
		switch o.Status {
		case artifact.StatusOK:
			s.Generated++
			if o.GatePass {
				gatePassed++
			}
			latencies = append(latencies, float64(o.LatencyMS))
			costs = append(costs, o.CostUSD)
		case artifact.StatusBlocked:
			s.Blocked++
		default:
			s.Failed++
		}
	}
	if s.Generated > 0 {
		s.GatePassRate = float64(gatePassed) / float64(s.Generated)
	}
	s.MedianLatencyMS = median(latencies)
	s.MedianCostUSD = median(costs)

	rejected := 0
	var scores []float64
	for _, r := range reviews {
		if r.Arm != arm {
			continue
		}
		s.ReviewCount++
		scores = append(scores, r.Score)
		if r.Rejected {
			rejected++
		}
	}
	if s.ReviewCount > 0 {
		s.QualityMean = mean(scores)
		s.QualityMedian = median(scores)
		s.RejectionRate = float64(rejected) / float64(s.ReviewCount)
	}
	return s
}

// decide picks the winner: highest mean quality outright, then the fixed
// tie-break tuple in order. Identical tuples are an explicit tie, never an
// arbitrary pick. No reviews at all means insufficient_reviews.
func decide(control, alternate artifact.ArmSummary) (string, string) {
	if control.ReviewCount == 0 && alternate.ReviewCount == 0 {
		return artifact.WinnerInsufficientReviews, "no human reviews submitted"
	}
	if control.QualityMean != alternate.QualityMean {
		return pickHigher(control, alternate, control.QualityMean, alternate.QualityMean,
			"higher mean quality (%.2f vs %.2f)")
	}
	if control.GatePassRate != alternate.GatePassRate {
		return pickHigher(control, alternate, control.GatePassRate, alternate.GatePassRate,
			"mean quality tied; higher gate-pass rate (%.2f vs %.2f)")
	}
	if control.RejectionRate != alternate.RejectionRate {
		return pickLower(control, alternate, control.RejectionRate, alternate.RejectionRate,
			"mean quality tied; lower rejection rate (%.2f vs %.2f)")
	}
	if control.MedianLatencyMS != alternate.MedianLatencyMS {
		return pickLower(control, alternate, control.MedianLatencyMS, alternate.MedianLatencyMS,
			"mean quality tied; lower median latency (%.0fms vs %.0fms)")
	}
	if control.MedianCostUSD != alternate.MedianCostUSD {
		return pickLower(control, alternate, control.MedianCostUSD, alternate.MedianCostUSD,
			"mean quality tied; lower median cost (%.6f vs %.6f)")
	}
	return artifact.WinnerTie, "all comparison metrics identical"
}

func pickHigher(control, alternate artifact.ArmSummary, c, a float64, format string) (string, string) {
	if c > a {
		return string(control.Arm), fmt.Sprintf(format, c, a)
	}
	return string(alternate.Arm), fmt.Sprintf(format, a, c)
}

func pickLower(control, alternate artifact.ArmSummary, c, a float64, format string) (string, string) {
	if c < a {
		return string(control.Arm), fmt.Sprintf(format, c, a)
	}
	return string(alternate.Arm), fmt.Sprintf(format, a, c)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
