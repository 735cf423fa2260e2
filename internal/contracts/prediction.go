package contracts

import (
	"math"
	"time"
)

// Prediction is one price-target forecast. Rows are immutable here.
type Prediction struct {
	ID            int64   `json:"prediction_id"`
	AnalystID     int64   `json:"analyst_id"`
	CompanyID     *int64  `json:"company_id"`
	Ticker        string  `json:"ticker"`
	CompanyName   string  `json:"cname"`
	CUSIP         string  `json:"cusip"`
	AnnouncedAt   Date    `json:"anndats"`
	AnnouncedTime string  `json:"anntims"`
	EstimatorID   string  `json:"estimid"`
	Horizon       *string `json:"horizon"` // months, stored as text; nil when absent
	Value         float64 `json:"value"`   // target price
	Currency      string  `json:"curr"`
	AnalystName   string  `json:"alysnam"`
}

// PricePoint is one (ticker, date, price) sample of the daily series
type PricePoint struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"prc"`
}

// Direction of a forecast relative to the start price
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionUnknown Direction = "unknown"
)

// ReturnBand classifies a realized return. Empty when the return is absent.
type ReturnBand string

const (
	ReturnFavorable   ReturnBand = "favorable"
	ReturnUnfavorable ReturnBand = "unfavorable"
)

// AccuracyBand classifies the end-vs-target deviation. Empty when absent.
type AccuracyBand string

const (
	AccuracyClose AccuracyBand = "close"
	AccuracyOff   AccuracyBand = "off"
)

// PredictionMetrics is derived on demand and never persisted.
// Every pointer is nil when the inputs it depends on are missing.
type PredictionMetrics struct {
	StartPrice     *float64     `json:"start_price"`
	StartPriceDate *Date        `json:"start_price_date"`
	EndPrice       *float64     `json:"end_price"`
	EndPriceDate   *Date        `json:"end_price_date"`
	EndDate        Date         `json:"end_date"` // window boundary: announced + horizon
	ReturnPct      *float64     `json:"return_pct"`
	AccuracyPct    *float64     `json:"accuracy_pct"`
	Direction      Direction    `json:"direction"`
	ReturnBand     ReturnBand   `json:"return_band,omitempty"`
	AccuracyBand   AccuracyBand `json:"accuracy_band,omitempty"`
}

// Complete reports whether both prices were found
func (m PredictionMetrics) Complete() bool {
	return m.StartPrice != nil && m.EndPrice != nil
}

// Finite returns a copy with non-finite percentages (zero target) dropped.
// encoding/json rejects ±Inf and NaN, so the API applies this at the boundary.
func (m PredictionMetrics) Finite() PredictionMetrics {
	m.ReturnPct = finiteOrNil(m.ReturnPct)
	m.AccuracyPct = finiteOrNil(m.AccuracyPct)
	if m.AccuracyPct == nil {
		m.AccuracyBand = ""
	}
	if m.ReturnPct == nil {
		m.ReturnBand = ""
	}
	return m
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsInf(*v, 0) || math.IsNaN(*v) {
		return nil
	}
	return v
}

// PredictionWithMetrics flattens a prediction and its metrics into one JSON object
type PredictionWithMetrics struct {
	Prediction
	PredictionMetrics
}
