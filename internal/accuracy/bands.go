package accuracy

import (
	"math"

	"github.com/wonny/analystlens/internal/contracts"
)

// CloseThresholdPct is the widest |accuracy| still reported as close
const CloseThresholdPct = 10.0

// ClassifyReturn: >= 0 favorable, < 0 unfavorable, "" when absent
func ClassifyReturn(returnPct *float64) contracts.ReturnBand {
	if returnPct == nil || math.IsNaN(*returnPct) {
		return ""
	}
	if *returnPct >= 0 {
		return contracts.ReturnFavorable
	}
	return contracts.ReturnUnfavorable
}

// ClassifyAccuracy: |a| <= 10 close, otherwise off, "" when absent
func ClassifyAccuracy(accuracyPct *float64) contracts.AccuracyBand {
	if accuracyPct == nil || math.IsNaN(*accuracyPct) {
		return ""
	}
	if math.Abs(*accuracyPct) <= CloseThresholdPct {
		return contracts.AccuracyClose
	}
	return contracts.AccuracyOff
}
