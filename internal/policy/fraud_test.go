package policy

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transfermarket/platform/internal/domain"
)

// quiet returns a candidate that trips no checks: midday, typical age,
// offer at market value.
func quiet() Candidate {
	return Candidate{
		PlayerName:        "Jonas Verner",
		PlayerAge:         24,
		PlayerNationality: "DK",
		MarketValue:       100,
		OfferedAmount:     100,
		EvaluatedAt:       time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC),
	}
}

func findViolation(t *testing.T, e Evaluation, typ string) domain.Violation {
	t.Helper()
	for _, v := range e.Violations {
		if v.Type == typ {
			return v
		}
	}
	t.Fatalf("violation %s not found in %+v", typ, e.Violations)
	return domain.Violation{}
}

func TestEvaluate_CleanCandidate(t *testing.T) {
	e := Evaluate(quiet())
	assert.False(t, e.Suspicious())
	assert.Equal(t, 0, e.RiskScore)
	assert.Empty(t, e.Violations)
}

// --- Inflated value ---

func TestInflatedValue_BoundaryNotFlagged(t *testing.T) {
	c := quiet()
	c.MarketValue = 100
	c.OfferedAmount = 300 // exactly 200% above market
	e := Evaluate(c)
	assert.False(t, e.Suspicious(), "exactly 200%% must not be flagged")
}

func TestInflatedValue_JustAboveBoundaryIsMedium(t *testing.T) {
	c := quiet()
	c.MarketValue = 100
	c.OfferedAmount = 301 // 201%
	e := Evaluate(c)
	v := findViolation(t, e, domain.ViolationInflatedValue)
	assert.Equal(t, domain.SeverityMedium, v.Severity)
	assert.Equal(t, 5, e.RiskScore)
}

func TestInflatedValue_HighBoundary(t *testing.T) {
	c := quiet()
	c.MarketValue = 100

	c.OfferedAmount = 600 // exactly 500%: still medium
	v := findViolation(t, Evaluate(c), domain.ViolationInflatedValue)
	assert.Equal(t, domain.SeverityMedium, v.Severity)

	c.OfferedAmount = 601 // 501%: high
	v = findViolation(t, Evaluate(c), domain.ViolationInflatedValue)
	assert.Equal(t, domain.SeverityHigh, v.Severity)
}

func TestInflatedValue_EndToEndScenario(t *testing.T) {
	// Market value 100, offered 650: inflation 550%, high severity, 10
	// points, below the notification threshold when it is the only finding.
	c := quiet()
	c.MarketValue = 100
	c.OfferedAmount = 650

	e := Evaluate(c)
	require.Len(t, e.Violations, 1)
	v := e.Violations[0]
	assert.Equal(t, domain.ViolationInflatedValue, v.Type)
	assert.Equal(t, domain.SeverityHigh, v.Severity)
	assert.Equal(t, 10, e.RiskScore)
	assert.Less(t, e.RiskScore, AlertThreshold)

	var details struct {
		InflationPct float64 `json:"inflation_pct"`
	}
	require.NoError(t, json.Unmarshal(v.Details, &details))
	assert.InDelta(t, 550.0, details.InflationPct, 0.001)
}

func TestInflatedValue_LargeAmountsNoOverflow(t *testing.T) {
	// Amounts in minor units can sit near the int64 ceiling; the ratio
	// check must not wrap around on them.
	c := quiet()

	c.MarketValue = math.MaxInt64 / 4
	c.OfferedAmount = math.MaxInt64 // roughly 300% premium
	v := findViolation(t, Evaluate(c), domain.ViolationInflatedValue)
	assert.Equal(t, domain.SeverityMedium, v.Severity)

	c.MarketValue = 3
	c.OfferedAmount = math.MaxInt64
	v = findViolation(t, Evaluate(c), domain.ViolationInflatedValue)
	assert.Equal(t, domain.SeverityHigh, v.Severity)

	// A near-market offer on a colossal valuation stays clean.
	c.MarketValue = math.MaxInt64 - 1
	c.OfferedAmount = math.MaxInt64
	assert.False(t, Evaluate(c).Suspicious())
}

func TestInflatedValue_ZeroMarketValueSkipped(t *testing.T) {
	c := quiet()
	c.MarketValue = 0
	c.OfferedAmount = 1_000_000
	assert.False(t, Evaluate(c).Suspicious())
}

// --- Multiple bids ---

func TestMultipleBids_Thresholds(t *testing.T) {
	c := quiet()

	c.BuyerBidCount24h = 2
	assert.False(t, Evaluate(c).Suspicious(), "2 bids is within bounds")

	c.BuyerBidCount24h = 3
	v := findViolation(t, Evaluate(c), domain.ViolationMultipleBids)
	assert.Equal(t, domain.SeverityMedium, v.Severity)

	var details struct {
		OfferCount int `json:"offer_count"`
	}
	require.NoError(t, json.Unmarshal(v.Details, &details))
	assert.Equal(t, 3, details.OfferCount)

	c.BuyerBidCount24h = 5
	v = findViolation(t, Evaluate(c), domain.ViolationMultipleBids)
	assert.Equal(t, domain.SeverityMedium, v.Severity, "5 bids is still medium")

	c.BuyerBidCount24h = 6
	v = findViolation(t, Evaluate(c), domain.ViolationMultipleBids)
	assert.Equal(t, domain.SeverityHigh, v.Severity)
}

// --- Duplicate player ---

func TestDuplicatePlayer_AlwaysHigh(t *testing.T) {
	c := quiet()
	c.DuplicateIdentityCount = 1
	e := Evaluate(c)
	v := findViolation(t, e, domain.ViolationDuplicatePlayer)
	assert.Equal(t, domain.SeverityHigh, v.Severity)
	assert.Equal(t, 10, e.RiskScore)
}

// --- Unusual patterns (aggregated) ---

func TestUnusualPatterns_RapidTransfers(t *testing.T) {
	c := quiet()

	c.SellerTransferCount1h = 3
	assert.False(t, Evaluate(c).Suspicious(), "3 transfers in 1h is within bounds")

	c.SellerTransferCount1h = 4
	v := findViolation(t, Evaluate(c), domain.ViolationUnusualPatterns)
	assert.Equal(t, domain.SeverityMedium, v.Severity)
}

func TestUnusualPatterns_AgeBoundaries(t *testing.T) {
	c := quiet()

	for _, age := range []int{16, 45} {
		c.PlayerAge = age
		assert.False(t, Evaluate(c).Suspicious(), "age %d is within bounds", age)
	}
	for _, age := range []int{15, 46} {
		c.PlayerAge = age
		findViolation(t, Evaluate(c), domain.ViolationUnusualPatterns)
	}
}

func TestUnusualPatterns_NightHours(t *testing.T) {
	c := quiet()
	day := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	flagged := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for hour := 0; hour < 24; hour++ {
		c.EvaluatedAt = day.Add(time.Duration(hour) * time.Hour)
		assert.Equal(t, flagged[hour], Evaluate(c).Suspicious(), "hour %d", hour)
	}
}

func TestUnusualPatterns_AggregateIntoOneViolation(t *testing.T) {
	c := quiet()
	c.PlayerAge = 14
	c.SellerTransferCount1h = 10
	c.EvaluatedAt = time.Date(2026, 7, 14, 3, 0, 0, 0, time.UTC)

	e := Evaluate(c)
	require.Len(t, e.Violations, 1, "patterns 4-6 aggregate under one parent violation")
	v := e.Violations[0]
	assert.Equal(t, domain.ViolationUnusualPatterns, v.Type)
	assert.Equal(t, 5, e.RiskScore, "the parent violation scores once")

	var details struct {
		Patterns []struct {
			Pattern string `json:"pattern"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal(v.Details, &details))
	assert.Len(t, details.Patterns, 3)
}

// --- Scoring ---

func TestScore_HighPlusMedium(t *testing.T) {
	c := quiet()
	c.DuplicateIdentityCount = 2 // high, 10
	c.BuyerBidCount24h = 4       // medium, 5
	e := Evaluate(c)
	assert.Equal(t, 15, e.RiskScore)
}

func TestScore_SeverityWeights(t *testing.T) {
	assert.Equal(t, 10, severityWeight(domain.SeverityHigh))
	assert.Equal(t, 5, severityWeight(domain.SeverityMedium))
	assert.Equal(t, 2, severityWeight(domain.SeverityLow))
	assert.Equal(t, 5, severityWeight(domain.Severity("unknown")))
}

func TestScore_CappedAt100(t *testing.T) {
	// Build a worst-case candidate: every check fires at high severity.
	c := quiet()
	c.DuplicateIdentityCount = 5
	c.MarketValue = 100
	c.OfferedAmount = 10_000
	c.BuyerBidCount24h = 50
	c.SellerTransferCount1h = 50
	c.PlayerAge = 12
	c.EvaluatedAt = time.Date(2026, 7, 14, 3, 0, 0, 0, time.UTC)
	e := Evaluate(c)
	assert.LessOrEqual(t, e.RiskScore, 100)
	assert.Equal(t, 35, e.RiskScore, "three high (10) plus one medium (5)")
}
