package earnings

import (
	"context"

	"github.com/wonny/analystlens/internal/contracts"
)

// DefaultPageSize matches the commentary list
const DefaultPageSize = 10

// Service pages questions for the API
type Service struct {
	store    contracts.EarningsStore
	pageSize int
}

// NewService creates a Service; pageSize <= 0 uses DefaultPageSize
func NewService(store contracts.EarningsStore, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{store: store, pageSize: pageSize}
}

// Page returns one zero-based page of an analyst's questions
func (s *Service) Page(ctx context.Context, analystID int64, page int) (contracts.Page[contracts.EarningsQuestion], error) {
	if page < 0 {
		page = 0
	}

	total, err := s.store.CountByAnalyst(ctx, analystID)
	if err != nil {
		return contracts.Page[contracts.EarningsQuestion]{}, err
	}

	items, err := s.store.PageByAnalyst(ctx, analystID, contracts.Offset(page, s.pageSize), s.pageSize)
	if err != nil {
		return contracts.Page[contracts.EarningsQuestion]{}, err
	}
	return contracts.NewPage(items, page, s.pageSize, total), nil
}

// All returns every question, newest first
func (s *Service) All(ctx context.Context, analystID int64) ([]contracts.EarningsQuestion, error) {
	return s.store.AllByAnalyst(ctx, analystID)
}

// ChatContext loads every question and renders the chat context
func (s *Service) ChatContext(ctx context.Context, analystID int64) (string, error) {
	qs, err := s.store.AllByAnalyst(ctx, analystID)
	if err != nil {
		return "", err
	}
	return BuildChatContext(qs), nil
}
