package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/abeleng/shemeta/internal/advisory"
	"github.com/abeleng/shemeta/internal/auth"
	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/market"
	"github.com/abeleng/shemeta/internal/offer"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockOfferService is a mock implementation of offer.Service
type MockOfferService struct {
	mock.Mock
}

// NewMockOfferService creates a mock that asserts its expectations on cleanup.
func NewMockOfferService(t testingT) *MockOfferService {
	m := &MockOfferService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOfferService) Propose(ctx context.Context, caller domain.Identity, in offer.ProposeInput) (*domain.Offer, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferService) Respond(ctx context.Context, caller domain.Identity, offerID string, decision domain.Decision) (*domain.Offer, error) {
	args := m.Called(ctx, caller, offerID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferService) Expire(ctx context.Context, offerID string) (*domain.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferService) ExpireDue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	args := m.Called(ctx, asOf, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockOfferService) Get(ctx context.Context, caller domain.Identity, offerID string) (*domain.Offer, error) {
	args := m.Called(ctx, caller, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferService) ListForUser(ctx context.Context, caller domain.Identity) ([]domain.Offer, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

// MockAdvisoryService is a mock implementation of advisory.Service
type MockAdvisoryService struct {
	mock.Mock
}

// NewMockAdvisoryService creates a mock that asserts its expectations on cleanup.
func NewMockAdvisoryService(t testingT) *MockAdvisoryService {
	m := &MockAdvisoryService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAdvisoryService) RegisterLand(ctx context.Context, caller domain.Identity, in advisory.LandInput) (*domain.FarmerHome, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FarmerHome), args.Error(1)
}

func (m *MockAdvisoryService) Home(ctx context.Context, caller domain.Identity) (*domain.FarmerHome, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FarmerHome), args.Error(1)
}

func (m *MockAdvisoryService) Recommendations(ctx context.Context, geoUnitID string) ([]domain.ScoredCrop, error) {
	args := m.Called(ctx, geoUnitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredCrop), args.Error(1)
}

func (m *MockAdvisoryService) MatchedBuyers(ctx context.Context, caller domain.Identity, crop string) ([]domain.BuyerMatch, error) {
	args := m.Called(ctx, caller, crop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BuyerMatch), args.Error(1)
}

// MockMarketService is a mock implementation of market.Service
type MockMarketService struct {
	mock.Mock
}

// NewMockMarketService creates a mock that asserts its expectations on cleanup.
func NewMockMarketService(t testingT) *MockMarketService {
	m := &MockMarketService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockMarketService) PostRequirement(ctx context.Context, caller domain.Identity, in market.RequirementInput) (*domain.CropRequirement, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CropRequirement), args.Error(1)
}

func (m *MockMarketService) GetRequirement(ctx context.Context, caller domain.Identity, requirementID string) (*domain.CropRequirement, error) {
	args := m.Called(ctx, caller, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CropRequirement), args.Error(1)
}

func (m *MockMarketService) ListRequirements(ctx context.Context, caller domain.Identity) ([]domain.CropRequirement, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CropRequirement), args.Error(1)
}

func (m *MockMarketService) MatchedFarmers(ctx context.Context, caller domain.Identity, requirementID string) ([]domain.Match, error) {
	args := m.Called(ctx, caller, requirementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

func (m *MockMarketService) MatchRequirement(ctx context.Context, req domain.CropRequirement) ([]domain.Match, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Match), args.Error(1)
}

// MockAggregationService is a mock implementation of aggregation.Service
type MockAggregationService struct {
	mock.Mock
}

// NewMockAggregationService creates a mock that asserts its expectations on cleanup.
func NewMockAggregationService(t testingT) *MockAggregationService {
	m := &MockAggregationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAggregationService) ActiveOfferCount(ctx context.Context, buyerID string) (int, error) {
	args := m.Called(ctx, buyerID)
	return args.Int(0), args.Error(1)
}

func (m *MockAggregationService) TotalMatchedFarmers(ctx context.Context, buyerID string) (int, error) {
	args := m.Called(ctx, buyerID)
	return args.Int(0), args.Error(1)
}

func (m *MockAggregationService) PotentialEarnings(ctx context.Context, farmerID string) (float64, error) {
	args := m.Called(ctx, farmerID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockAggregationService) RequirementSummaries(ctx context.Context, buyerID string) ([]domain.RequirementSummary, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RequirementSummary), args.Error(1)
}

func (m *MockAggregationService) BuyerDashboard(ctx context.Context, buyerID string) (*domain.BuyerDashboard, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BuyerDashboard), args.Error(1)
}

func (m *MockAggregationService) FarmerDashboard(ctx context.Context, farmerID string) (*domain.FarmerDashboard, error) {
	args := m.Called(ctx, farmerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FarmerDashboard), args.Error(1)
}

// MockAuthService is a mock implementation of auth.Service
type MockAuthService struct {
	mock.Mock
}

// NewMockAuthService creates a mock that asserts its expectations on cleanup.
func NewMockAuthService(t testingT) *MockAuthService {
	m := &MockAuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, userID string) (*auth.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}
