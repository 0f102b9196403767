package policy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/transfermarket/platform/internal/domain"
)

// Heuristic thresholds. All numeric comparisons are strict: a value sitting
// exactly on a threshold is not flagged.
const (
	inflationMediumPct   = 200 // price above market value, percent
	inflationHighPct     = 500
	multipleBidsMedium   = 2 // bids by one buyer for one player in 24h
	multipleBidsHigh     = 5
	rapidTransfersLimit  = 3 // seller's non-rejected transfers in 1h
	minTypicalAge        = 16
	maxTypicalAge        = 45
	nightWindowStartHour = 2 // inclusive
	nightWindowEndHour   = 5 // inclusive
	maxRiskScore         = 100
)

// AlertThreshold is the minimum risk score that triggers an admin
// notification; alerts below it are still persisted for review.
const AlertThreshold = 20

// Candidate carries the snapshot a fraud evaluation runs against. The
// counts are aggregate query results supplied by the caller so Evaluate
// stays a pure function.
type Candidate struct {
	PlayerName        string
	PlayerAge         int
	PlayerNationality string
	MarketValue       int64 // minor units
	OfferedAmount     int64 // minor units

	// DuplicateIdentityCount is the number of other active players that
	// share the candidate player's name, age and nationality.
	DuplicateIdentityCount int

	// BuyerBidCount24h is the buyer club's offer count for this player in
	// the trailing 24 hours, the candidate offer included.
	BuyerBidCount24h int

	// SellerTransferCount1h is the seller club's non-rejected transfer
	// count in the trailing hour.
	SellerTransferCount1h int

	EvaluatedAt time.Time
}

// Evaluation is the result of one fraud pass: a 0-100 risk score and the
// violations that produced it.
type Evaluation struct {
	RiskScore  int                `json:"risk_score"`
	Violations []domain.Violation `json:"violations"`
}

// Suspicious reports whether the evaluation found anything at all.
func (e Evaluation) Suspicious() bool { return len(e.Violations) > 0 }

// severityWeight maps violation severity to score points. Unknown
// severities count as 5 so a new severity label can never zero out a check.
func severityWeight(s domain.Severity) int {
	switch s {
	case domain.SeverityHigh:
		return 10
	case domain.SeverityMedium:
		return 5
	case domain.SeverityLow:
		return 2
	default:
		return 5
	}
}

// Evaluate runs all heuristic checks against the candidate and sums the
// severity weights of everything that fired, capped at 100.
func Evaluate(c Candidate) Evaluation {
	var violations []domain.Violation

	if v, ok := checkDuplicatePlayer(c); ok {
		violations = append(violations, v)
	}
	if v, ok := checkInflatedValue(c); ok {
		violations = append(violations, v)
	}
	if v, ok := checkMultipleBids(c); ok {
		violations = append(violations, v)
	}
	if v, ok := checkUnusualPatterns(c); ok {
		violations = append(violations, v)
	}

	score := 0
	for _, v := range violations {
		score += severityWeight(v.Severity)
	}
	if score > maxRiskScore {
		score = maxRiskScore
	}

	return Evaluation{RiskScore: score, Violations: violations}
}

func checkDuplicatePlayer(c Candidate) (domain.Violation, bool) {
	if c.DuplicateIdentityCount <= 0 {
		return domain.Violation{}, false
	}
	details, _ := json.Marshal(map[string]interface{}{
		"matching_players": c.DuplicateIdentityCount,
		"name":             c.PlayerName,
		"age":              c.PlayerAge,
		"nationality":      c.PlayerNationality,
	})
	return domain.Violation{
		Type:     domain.ViolationDuplicatePlayer,
		Severity: domain.SeverityHigh,
		Description: fmt.Sprintf("%d other active player(s) share the identity %q (%d, %s)",
			c.DuplicateIdentityCount, c.PlayerName, c.PlayerAge, c.PlayerNationality),
		Details: details,
	}, true
}

// exceedsPct reports whether premium is strictly above pct% of market.
// Division keeps the comparison exact without the overflow a
// premium*100 cross-multiplication would hit on large minor-unit amounts.
// pct must be a multiple of 100.
func exceedsPct(premium, market, pct int64) bool {
	if premium <= 0 {
		return false
	}
	mult := pct / 100
	q := premium / market
	return q > mult || (q == mult && premium%market > 0)
}

func checkInflatedValue(c Candidate) (domain.Violation, bool) {
	if c.MarketValue <= 0 {
		return domain.Violation{}, false
	}
	premium := c.OfferedAmount - c.MarketValue
	if !exceedsPct(premium, c.MarketValue, inflationMediumPct) {
		return domain.Violation{}, false
	}

	severity := domain.SeverityMedium
	if exceedsPct(premium, c.MarketValue, inflationHighPct) {
		severity = domain.SeverityHigh
	}

	inflationPct := float64(premium) / float64(c.MarketValue) * 100
	details, _ := json.Marshal(map[string]interface{}{
		"market_value":   c.MarketValue,
		"offered_amount": c.OfferedAmount,
		"inflation_pct":  inflationPct,
	})
	return domain.Violation{
		Type:     domain.ViolationInflatedValue,
		Severity: severity,
		Description: fmt.Sprintf("offered amount is %.0f%% above market value (%d vs %d)",
			inflationPct, c.OfferedAmount, c.MarketValue),
		Details: details,
	}, true
}

func checkMultipleBids(c Candidate) (domain.Violation, bool) {
	if c.BuyerBidCount24h <= multipleBidsMedium {
		return domain.Violation{}, false
	}

	severity := domain.SeverityMedium
	if c.BuyerBidCount24h > multipleBidsHigh {
		severity = domain.SeverityHigh
	}

	details, _ := json.Marshal(map[string]interface{}{
		"offer_count":  c.BuyerBidCount24h,
		"window_hours": 24,
	})
	return domain.Violation{
		Type:     domain.ViolationMultipleBids,
		Severity: severity,
		Description: fmt.Sprintf("buyer club placed %d offers for the same player within 24 hours",
			c.BuyerBidCount24h),
		Details: details,
	}, true
}

// checkUnusualPatterns aggregates the rapid-transfers, unusual-age and
// unusual-timing checks under one parent violation.
func checkUnusualPatterns(c Candidate) (domain.Violation, bool) {
	type pattern struct {
		Pattern     string `json:"pattern"`
		Description string `json:"description"`
	}
	var patterns []pattern

	if c.SellerTransferCount1h > rapidTransfersLimit {
		patterns = append(patterns, pattern{
			Pattern: "rapid_transfers",
			Description: fmt.Sprintf("seller club involved in %d transfers within 1 hour",
				c.SellerTransferCount1h),
		})
	}
	if c.PlayerAge < minTypicalAge || c.PlayerAge > maxTypicalAge {
		patterns = append(patterns, pattern{
			Pattern:     "unusual_age",
			Description: fmt.Sprintf("player age %d is outside the typical range", c.PlayerAge),
		})
	}
	if hour := c.EvaluatedAt.Hour(); hour >= nightWindowStartHour && hour <= nightWindowEndHour {
		patterns = append(patterns, pattern{
			Pattern:     "unusual_timing",
			Description: fmt.Sprintf("market action at %02d:00 local time", hour),
		})
	}

	if len(patterns) == 0 {
		return domain.Violation{}, false
	}

	details, _ := json.Marshal(map[string]interface{}{"patterns": patterns})
	return domain.Violation{
		Type:        domain.ViolationUnusualPatterns,
		Severity:    domain.SeverityMedium,
		Description: fmt.Sprintf("%d unusual activity pattern(s) detected", len(patterns)),
		Details:     details,
	}, true
}
