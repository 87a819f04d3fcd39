package absummary

import (
	"reflect"
	"testing"

	"adforge/internal/artifact"
)

func outcome(arm artifact.Arm, status string, gatePass bool, latency int64, cost float64) artifact.ArmOutcome {
	return artifact.ArmOutcome{UnitID: "u", Arm: arm, Status: status, GatePass: gatePass, LatencyMS: latency, CostUSD: cost}
}

func review(arm artifact.Arm, score float64, rejected bool) artifact.QualityReview {
	return artifact.QualityReview{UnitID: "u", Arm: arm, Score: score, Rejected: rejected}
}

func TestComputeInsufficientReviews(t *testing.T) {
	outcomes := []artifact.ArmOutcome{
		outcome(artifact.ArmControl, artifact.StatusOK, true, 1000, 0.01),
		outcome(artifact.ArmAlternate, artifact.StatusOK, true, 1000, 0.01),
	}
	s := Compute(outcomes, nil)
	if s.Winner != artifact.WinnerInsufficientReviews {
		t.Fatalf("winner = %q, want insufficient_reviews", s.Winner)
	}
}

func TestComputeHigherQualityWins(t *testing.T) {
	outcomes := []artifact.ArmOutcome{
		outcome(artifact.ArmControl, artifact.StatusOK, true, 1000, 0.01),
		outcome(artifact.ArmAlternate, artifact.StatusOK, true, 500, 0.005),
	}
	reviews := []artifact.QualityReview{
		review(artifact.ArmControl, 8, false),
		review(artifact.ArmAlternate, 6, false),
	}
	s := Compute(outcomes, reviews)
	if s.Winner != artifact.WinnerControl {
		t.Fatalf("winner = %q, want control (quality beats speed and cost)", s.Winner)
	}
	if s.Reason == "" {
		t.Fatal("winner needs a reason")
	}
}

func TestComputeTieBreakChain(t *testing.T) {
	base := []artifact.ArmOutcome{
		outcome(artifact.ArmControl, artifact.StatusOK, true, 1000, 0.01),
		outcome(artifact.ArmAlternate, artifact.StatusOK, true, 1000, 0.01),
	}
	equalReviews := []artifact.QualityReview{
		review(artifact.ArmControl, 7, false),
		review(artifact.ArmAlternate, 7, false),
	}

	t.Run("gate pass rate", func(t *testing.T) {
		outcomes := append([]artifact.ArmOutcome{}, base...)
		outcomes = append(outcomes,
			outcome(artifact.ArmControl, artifact.StatusOK, true, 1000, 0.01),
			outcome(artifact.ArmAlternate, artifact.StatusOK, false, 1000, 0.01),
		)
		s := Compute(outcomes, equalReviews)
		if s.Winner != artifact.WinnerControl {
			t.Fatalf("winner = %q, want control on gate-pass rate", s.Winner)
		}
	})

	t.Run("rejection rate", func(t *testing.T) {
		reviews := append([]artifact.QualityReview{}, equalReviews...)
		reviews = append(reviews,
			review(artifact.ArmControl, 7, true),
			review(artifact.ArmAlternate, 7, false),
		)
		s := Compute(base, reviews)
		if s.Winner != artifact.WinnerAlternate {
			t.Fatalf("winner = %q, want alternate on rejection rate", s.Winner)
		}
	})

	t.Run("median latency", func(t *testing.T) {
		outcomes := []artifact.ArmOutcome{
			outcome(artifact.ArmControl, artifact.StatusOK, true, 2000, 0.01),
			outcome(artifact.ArmAlternate, artifact.StatusOK, true, 900, 0.01),
		}
		s := Compute(outcomes, equalReviews)
		if s.Winner != artifact.WinnerAlternate {
			t.Fatalf("winner = %q, want alternate on latency", s.Winner)
		}
	})

	t.Run("median cost", func(t *testing.T) {
		outcomes := []artifact.ArmOutcome{
			outcome(artifact.ArmControl, artifact.StatusOK, true, 1000, 0.002),
			outcome(artifact.ArmAlternate, artifact.StatusOK, true, 1000, 0.009),
		}
		s := Compute(outcomes, equalReviews)
		if s.Winner != artifact.WinnerControl {
			t.Fatalf("winner = %q, want control on cost", s.Winner)
		}
	})

	t.Run("explicit tie", func(t *testing.T) {
		s := Compute(base, equalReviews)
		if s.Winner != artifact.WinnerTie {
			t.Fatalf("winner = %q, want tie", s.Winner)
		}
	})
}

func TestComputeIdempotent(t *testing.T) {
	outcomes := []artifact.ArmOutcome{
		outcome(artifact.ArmControl, artifact.StatusOK, true, 1200, 0.01),
		outcome(artifact.ArmControl, artifact.StatusBlocked, false, 0, 0),
		outcome(artifact.ArmAlternate, artifact.StatusOK, false, 800, 0.02),
		outcome(artifact.ArmAlternate, artifact.StatusError, false, 0, 0),
	}
	reviews := []artifact.QualityReview{
		review(artifact.ArmControl, 6.5, false),
		review(artifact.ArmAlternate, 7.5, true),
	}
	first := Compute(outcomes, reviews)
	second := Compute(outcomes, reviews)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recompute differs:\n%+v\n%+v", first, second)
	}
}

func TestSummarizeBuckets(t *testing.T) {
	outcomes := []artifact.ArmOutcome{
		outcome(artifact.ArmControl, artifact.StatusOK, true, 1000, 0.01),
		outcome(artifact.ArmControl, artifact.StatusOK, false, 3000, 0.03),
		outcome(artifact.ArmControl, artifact.StatusBlocked, false, 0, 0),
		outcome(artifact.ArmControl, artifact.StatusError, false, 0, 0),
		outcome(artifact.ArmControl, artifact.StatusSkipped, false, 0, 0),
		outcome(artifact.ArmAlternate, artifact.StatusOK, true, 100, 0.001),
	}
	s := summarize(artifact.ArmControl, outcomes, nil)
	if s.Generated != 2 || s.Blocked != 1 || s.Failed != 2 {
		t.Fatalf("buckets = generated %d, blocked %d, failed %d", s.Generated, s.Blocked, s.Failed)
	}
	if s.GatePassRate != 0.5 {
		t.Fatalf("gate pass rate = %v", s.GatePassRate)
	}
	if s.MedianLatencyMS != 2000 {
		t.Fatalf("median latency = %v", s.MedianLatencyMS)
	}
}

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Fatalf("odd median = %v", got)
	}
	if got := median([]float64{4, 1, 2, 3}); got != 2.5 {
		t.Fatalf("even median = %v", got)
	}
	if got := median(nil); got != 0 {
		t.Fatalf("empty median = %v", got)
	}
}
