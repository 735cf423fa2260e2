package accuracy

import (
	"math"

	"github.com/wonny/analystlens/internal/contracts"
)

// Summary is a scoreline over a set of derived metrics.
// Absent and non-finite values are skipped, never counted as zero.
type Summary struct {
	Count              int      `json:"count"`
	WithReturn         int      `json:"with_return"`
	Favorable          int      `json:"favorable"`
	WithAccuracy       int      `json:"with_accuracy"`
	Close              int      `json:"close"`
	MeanReturnPct      *float64 `json:"mean_return_pct"`
	MeanAbsAccuracyPct *float64 `json:"mean_abs_accuracy_pct"`
}

// Summarize folds metrics into a Summary
func Summarize(metrics []contracts.PredictionMetrics) Summary {
	s := Summary{Count: len(metrics)}
	var sumRet, sumAcc float64

	for _, m := range metrics {
		if r := m.ReturnPct; r != nil && isFinite(*r) {
			s.WithReturn++
			sumRet += *r
			if ClassifyReturn(r) == contracts.ReturnFavorable {
				s.Favorable++
			}
		}
		if a := m.AccuracyPct; a != nil && isFinite(*a) {
			s.WithAccuracy++
			sumAcc += math.Abs(*a)
			if ClassifyAccuracy(a) == contracts.AccuracyClose {
				s.Close++
			}
		}
	}

	if s.WithReturn > 0 {
		mean := sumRet / float64(s.WithReturn)
		s.MeanReturnPct = &mean
	}
	if s.WithAccuracy > 0 {
		mean := sumAcc / float64(s.WithAccuracy)
		s.MeanAbsAccuracyPct = &mean
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
