// Package accuracy derives prediction-vs-market metrics.
//
// Everything here is pure: callers look the two prices up and hand them
// in. A missing input always yields a nil result, never a zero.
package accuracy

import (
	"strings"
	"time"

	"github.com/wonny/analystlens/internal/contracts"
)

// DefaultHorizonMonths applies when a prediction has no usable horizon
const DefaultHorizonMonths = 12

// HorizonMonths parses a stored horizon the way the dashboard always has:
// the leading integer is taken ("12", " 6 ", "18 months", "12.5" -> 12)
// and anything without one, or zero, falls back to DefaultHorizonMonths.
func HorizonMonths(horizon *string) int {
	if horizon == nil {
		return DefaultHorizonMonths
	}
	n, ok := leadingInt(*horizon)
	if !ok || n == 0 {
		return DefaultHorizonMonths
	}
	return n
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if digits > 6 {
			// no real horizon is a million months
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ComputeEndDate returns the window boundary: announcement date plus the
// horizon in calendar months. Month overflow rolls over the way time.AddDate
// normalizes it (Jan 31 + 1 month lands in early March).
func ComputeEndDate(announced time.Time, horizon *string) time.Time {
	return AddMonths(announced, HorizonMonths(horizon))
}

// AddMonths adds months to the calendar date of t (UTC midnight result)
func AddMonths(t time.Time, months int) time.Time {
	return contracts.NewDate(t).AddDate(0, months, 0)
}

// IsBullish reports whether the target sits above the start price.
// A target equal to the start counts as bearish.
func IsBullish(start, target float64) bool {
	return target > start
}

// DirectionOf classifies the forecast; unknown without a start price
func DirectionOf(start *float64, target float64) contracts.Direction {
	if start == nil {
		return contracts.DirectionUnknown
	}
	if IsBullish(*start, target) {
		return contracts.DirectionBullish
	}
	return contracts.DirectionBearish
}

// ComputeReturn is the realized move in percent, signed so that a move in
// the predicted direction is positive. nil if either price is missing.
func ComputeReturn(start, end *float64, target float64) *float64 {
	if start == nil || end == nil {
		return nil
	}

	var pct float64
	if IsBullish(*start, target) {
		pct = (*end - *start) / *start * 100
	} else {
		pct = (*start - *end) / *start * 100
	}
	return &pct
}

// ComputeAccuracy is the deviation of the end price from the target in
// percent. nil if the end price is missing. A zero target is not guarded
// and produces ±Inf (or NaN when end is also zero).
func ComputeAccuracy(end *float64, target float64) *float64 {
	if end == nil {
		return nil
	}
	pct := (*end - target) / target * 100
	return &pct
}

// Derive computes the full metrics record for one prediction.
// start and end are the looked-up price points, nil when none matched.
// An undated prediction has no window, so EndDate stays zero.
func Derive(p contracts.Prediction, start, end *contracts.PricePoint) contracts.PredictionMetrics {
	var m contracts.PredictionMetrics
	if !p.AnnouncedAt.IsZero() {
		m.EndDate = contracts.NewDate(ComputeEndDate(p.AnnouncedAt.Time, p.Horizon))
	}

	if start != nil {
		price := start.Price
		date := contracts.NewDate(start.Date)
		m.StartPrice = &price
		m.StartPriceDate = &date
	}
	if end != nil {
		price := end.Price
		date := contracts.NewDate(end.Date)
		m.EndPrice = &price
		m.EndPriceDate = &date
	}

	m.Direction = DirectionOf(m.StartPrice, p.Value)
	m.ReturnPct = ComputeReturn(m.StartPrice, m.EndPrice, p.Value)
	m.AccuracyPct = ComputeAccuracy(m.EndPrice, p.Value)
	m.ReturnBand = ClassifyReturn(m.ReturnPct)
	m.AccuracyBand = ClassifyAccuracy(m.AccuracyPct)

	return m
}
