package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// MatchConfidence represents the discrete confidence tier of a match
// ---------------------------------------------------------------------------

// MatchConfidence classifies how likely two records represent the same
// real-world order.
type MatchConfidence string

const (
	// MatchConfidenceHigh indicates a near-certain match (score >= 50).
	MatchConfidenceHigh MatchConfidence = "high"
	// MatchConfidenceMedium indicates a probable match (score >= 30).
	MatchConfidenceMedium MatchConfidence = "medium"
	// MatchConfidenceLow indicates no meaningful overlap.
	MatchConfidenceLow MatchConfidence = "low"
)

// IsValid returns true if the confidence tier is valid.
func (c MatchConfidence) IsValid() bool {
	switch c {
	case MatchConfidenceHigh, MatchConfidenceMedium, MatchConfidenceLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of MatchConfidence.
func (c MatchConfidence) String() string {
	return string(c)
}

// Rank returns the discrete rank used for best-match selection:
// high=3, medium=2, low=1.
func (c MatchConfidence) Rank() int {
	switch c {
	case MatchConfidenceHigh:
		return 3
	case MatchConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// ---------------------------------------------------------------------------
// Match scoring
// ---------------------------------------------------------------------------

// Signal weights and tier thresholds. No signal may contribute negatively.
const (
	scoreIdentifierExact    = 50
	scoreIdentifierContains = 30
	scoreEmailEqual         = 30
	scoreDateWithinDay      = 10
	scoreDateWithinWeek     = 5
	scoreTotalWithinTol     = 10

	thresholdHigh   = 50
	thresholdMedium = 30
)

// NoSignificantMatch is the sentinel reason used when no signal fired.
const NoSignificantMatch = "no significant match"

// Side-specific reasons reported for records left unmatched after a
// reconciliation run, naming the side that came up empty.
const (
	NoMatchOnCounterpart = "no match found on counterpart side"
	NoMatchOnSource      = "no match found on source side"
)

// totalTolerancePct is the tolerance applied to the total signal, relative
// to side A's total.
var totalTolerancePct = decimal.RequireFromString("0.05")

// MatchResult is the outcome of scoring one (source, counterpart) pair.
// It is a pure, deterministic function of the two normalized orders.
type MatchResult struct {
	// Confidence is the discrete tier derived from the score.
	Confidence MatchConfidence
	// Reasons lists the signals that contributed, in evaluation order.
	Reasons []string
}

// Reason joins the contributing signals into a single display string, or
// NoSignificantMatch when none fired.
func (r MatchResult) Reason() string {
	if len(r.Reasons) == 0 {
		return NoSignificantMatch
	}
	return strings.Join(r.Reasons, ", ")
}

// Score computes the match result for a pair of normalized orders. Signals
// are additive and independently guarded, so missing fields contribute zero
// instead of failing.
//
// The total-tolerance signal is intentionally directional: the tolerance
// window is 5% of side A's total, not of either side.
func Score(a, b NormalizedOrder) MatchResult {
	score := 0
	var reasons []string

	// Identifier: exact match and containment are mutually exclusive, only
	// the strongest applicable signal fires.
	if a.Identifier != "" && b.Identifier != "" {
		switch {
		case a.Identifier == b.Identifier:
			score += scoreIdentifierExact
			reasons = append(reasons, "order number matches")
		case strings.Contains(a.Identifier, b.Identifier) || strings.Contains(b.Identifier, a.Identifier):
			score += scoreIdentifierContains
			reasons = append(reasons, "order number similar")
		}
	}

	if a.Email != "" && b.Email != "" && strings.EqualFold(a.Email, b.Email) {
		score += scoreEmailEqual
		reasons = append(reasons, "customer email matches")
	}

	// Date proximity: only the tighter applicable band scores.
	if a.CreatedAt != nil && b.CreatedAt != nil {
		diff := a.CreatedAt.Sub(*b.CreatedAt)
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff <= 24*time.Hour:
			score += scoreDateWithinDay
			reasons = append(reasons, "dates within 1 day")
		case diff <= 7*24*time.Hour:
			score += scoreDateWithinWeek
			reasons = append(reasons, "dates within 7 days")
		}
	}

	if a.Total != nil && b.Total != nil {
		tolerance := a.Total.Mul(totalTolerancePct)
		if a.Total.Sub(*b.Total).Abs().LessThanOrEqual(tolerance) {
			score += scoreTotalWithinTol
			reasons = append(reasons, "total matches within tolerance")
		}
	}

	return MatchResult{
		Confidence: confidenceForScore(score),
		Reasons:    reasons,
	}
}

// ScoreOrders is a convenience wrapper that normalizes both orders first.
func ScoreOrders(a, b Order) MatchResult {
	return Score(Normalize(a), Normalize(b))
}

// confidenceForScore maps an additive score to its discrete tier.
func confidenceForScore(score int) MatchConfidence {
	switch {
	case score >= thresholdHigh:
		return MatchConfidenceHigh
	case score >= thresholdMedium:
		return MatchConfidenceMedium
	default:
		return MatchConfidenceLow
	}
}
