package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service/card_generation"
	"github.com/phrazzld/scry-study/internal/service/card_review"
	"github.com/phrazzld/scry-study/internal/service/dashboard"
	"github.com/phrazzld/scry-study/internal/service/quota"
	"github.com/phrazzld/scry-study/internal/service/scheduler"
)

// MockSchedulerService implements scheduler.Service.
type MockSchedulerService struct {
	GetDueCardsFn   func(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID, limit *int) (*scheduler.DueCards, error)
	GetDueSummaryFn func(ctx context.Context, userID uuid.UUID) (*domain.DueSummary, error)
}

var _ scheduler.Service = (*MockSchedulerService)(nil)

func (m *MockSchedulerService) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	limit *int,
) (*scheduler.DueCards, error) {
	if m.GetDueCardsFn != nil {
		return m.GetDueCardsFn(ctx, userID, deckID, limit)
	}
	return &scheduler.DueCards{}, nil
}

func (m *MockSchedulerService) GetDueSummary(ctx context.Context, userID uuid.UUID) (*domain.DueSummary, error) {
	if m.GetDueSummaryFn != nil {
		return m.GetDueSummaryFn(ctx, userID)
	}
	return &domain.DueSummary{}, nil
}

// MockCardReviewService implements card_review.CardReviewService.
type MockCardReviewService struct {
	SubmitReviewFn func(ctx context.Context, userID, cardID uuid.UUID, grade domain.ReviewGrade) (*card_review.ReviewResult, error)
}

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

func (m *MockCardReviewService) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.ReviewGrade,
) (*card_review.ReviewResult, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, userID, cardID, grade)
	}
	return nil, card_review.ErrCardNotFound
}

// MockQuotaService implements quota.Service.
type MockQuotaService struct {
	CheckAndReserveFn func(ctx context.Context, userID uuid.UUID, requested int) (*quota.Reservation, error)
	StatusFn          func(ctx context.Context, userID uuid.UUID) (*quota.Status, error)
	ReleaseFn         func(ctx context.Context, r *quota.Reservation, n int) error
	MonthlyLimit      int
}

var _ quota.Service = (*MockQuotaService)(nil)

func (m *MockQuotaService) CheckAndReserve(ctx context.Context, userID uuid.UUID, requested int) (*quota.Reservation, error) {
	if m.CheckAndReserveFn != nil {
		return m.CheckAndReserveFn(ctx, userID, requested)
	}
	return &quota.Reservation{UserID: userID, Approved: true, Requested: requested}, nil
}

func (m *MockQuotaService) Status(ctx context.Context, userID uuid.UUID) (*quota.Status, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx, userID)
	}
	return &quota.Status{Limit: m.Limit(), Remaining: m.Limit()}, nil
}

func (m *MockQuotaService) Release(ctx context.Context, r *quota.Reservation, n int) error {
	if m.ReleaseFn != nil {
		return m.ReleaseFn(ctx, r, n)
	}
	return nil
}

func (m *MockQuotaService) Limit() int {
	if m.MonthlyLimit == 0 {
		return quota.DefaultMonthlyLimit
	}
	return m.MonthlyLimit
}

// MockDashboardService implements dashboard.Service.
type MockDashboardService struct {
	OverviewFn func(ctx context.Context, userID uuid.UUID) (*dashboard.Overview, error)
}

var _ dashboard.Service = (*MockDashboardService)(nil)

func (m *MockDashboardService) Overview(ctx context.Context, userID uuid.UUID) (*dashboard.Overview, error) {
	if m.OverviewFn != nil {
		return m.OverviewFn(ctx, userID)
	}
	return &dashboard.Overview{}, nil
}

// MockCardGenerationService implements card_generation.Service.
type MockCardGenerationService struct {
	GenerateFn func(ctx context.Context, userID uuid.UUID, req card_generation.Request) (*card_generation.Result, error)
}

var _ card_generation.Service = (*MockCardGenerationService)(nil)

func (m *MockCardGenerationService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	req card_generation.Request,
) (*card_generation.Result, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, userID, req)
	}
	return &card_generation.Result{Requested: req.Count}, nil
}
