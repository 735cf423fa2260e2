package contracts

import (
	"context"
	"time"
)

// AnalystStore reads the analyst directory
// ⭐ SSOT: 애널리스트 조회 인터페이스
type AnalystStore interface {
	GetByID(ctx context.Context, id int64) (*Analyst, error)
	GetLinkedIn(ctx context.Context, id int64) (*LinkedInInfo, error)
	Search(ctx context.Context, term string, limit int) ([]Analyst, error)
	Count(ctx context.Context) (int, error)
	AtOffset(ctx context.Context, offset int) (*Analyst, error)
}

// PredictionStore reads price-target predictions
// ⭐ SSOT: 예측 조회 인터페이스
type PredictionStore interface {
	GetByID(ctx context.Context, id int64) (*Prediction, error)
	CountByAnalyst(ctx context.Context, analystID int64) (int, error)
	PageByAnalyst(ctx context.Context, analystID int64, offset, limit int) ([]Prediction, error)
}

// EarningsStore reads earnings-call questions
// ⭐ SSOT: 어닝콜 질문 조회 인터페이스
type EarningsStore interface {
	CountByAnalyst(ctx context.Context, analystID int64) (int, error)
	PageByAnalyst(ctx context.Context, analystID int64, offset, limit int) ([]EarningsQuestion, error)
	AllByAnalyst(ctx context.Context, analystID int64) ([]EarningsQuestion, error)
}

// PriceLookup resolves the prices bracketing a forecast window.
// (nil, nil) means no matching row; it is never a zero price.
// ⭐ SSOT: 가격 조회 계약
type PriceLookup interface {
	// FirstOnOrAfter returns the earliest price with date >= date
	FirstOnOrAfter(ctx context.Context, ticker string, date time.Time) (*PricePoint, error)
	// LastOnOrBefore returns the latest price with date <= date
	LastOnOrBefore(ctx context.Context, ticker string, date time.Time) (*PricePoint, error)
}
