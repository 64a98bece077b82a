package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/abeleng/shemeta/internal/domain"
)

// MockUserRepository is a mock implementation of repository.User
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock that asserts its expectations on cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUsersByIDs(ctx context.Context, userIDs []string) ([]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockLandRepository is a mock implementation of repository.Land
type MockLandRepository struct {
	mock.Mock
}

// NewMockLandRepository creates a mock that asserts its expectations on cleanup.
func NewMockLandRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLandRepository {
	m := &MockLandRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLandRepository) CreateLand(ctx context.Context, land *domain.LandParcel) error {
	args := m.Called(ctx, land)
	return args.Error(0)
}

func (m *MockLandRepository) GetLatestLand(ctx context.Context, farmerID string) (*domain.LandParcel, error) {
	args := m.Called(ctx, farmerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LandParcel), args.Error(1)
}

// MockFarmerSource is a mock implementation of repository.FarmerSource
type MockFarmerSource struct {
	mock.Mock
}

// NewMockFarmerSource creates a mock that asserts its expectations on cleanup.
func NewMockFarmerSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFarmerSource {
	m := &MockFarmerSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFarmerSource) FarmersByRegion(ctx context.Context, region domain.Region) ([]domain.FarmerProfile, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FarmerProfile), args.Error(1)
}

// MockFeatureSource is a mock implementation of repository.FeatureSource
type MockFeatureSource struct {
	mock.Mock
}

// NewMockFeatureSource creates a mock that asserts its expectations on cleanup.
func NewMockFeatureSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockFeatureSource {
	m := &MockFeatureSource{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFeatureSource) FeaturesByGeoUnit(ctx context.Context, geoUnitID string) ([]domain.FeatureRecord, error) {
	args := m.Called(ctx, geoUnitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeatureRecord), args.Error(1)
}

// MockRequirementRepository is a mock implementation of repository.Requirement
type MockRequirementRepository struct {
	mock.Mock
}

// NewMockRequirementRepository creates a mock that asserts its expectations on cleanup.
func NewMockRequirementRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRequirementRepository {
	m := &MockRequirementRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRequirementRepository) CreateRequirement(ctx context.Context, req *domain.CropRequirement) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequirementRepository) GetRequirement(ctx context.Context, id string) (*domain.CropRequirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CropRequirement), args.Error(1)
}

func (m *MockRequirementRepository) GetRequirementsByIDs(ctx context.Context, ids []string) ([]domain.CropRequirement, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CropRequirement), args.Error(1)
}

func (m *MockRequirementRepository) ListRequirementsByBuyer(ctx context.Context, buyerID string) ([]domain.CropRequirement, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CropRequirement), args.Error(1)
}

func (m *MockRequirementRepository) ListOpenRequirementsByCrop(ctx context.Context, crop domain.CropName, asOf time.Time) ([]domain.CropRequirement, error) {
	args := m.Called(ctx, crop, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CropRequirement), args.Error(1)
}

// MockOfferRepository is a mock implementation of repository.Offer
type MockOfferRepository struct {
	mock.Mock
}

// NewMockOfferRepository creates a mock that asserts its expectations on cleanup.
func NewMockOfferRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOfferRepository {
	m := &MockOfferRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOfferRepository) CreateOffer(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindProposedOffer(ctx context.Context, key domain.OfferKey) (*domain.Offer, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *MockOfferRepository) UpdateOfferStateIfMatches(ctx context.Context, id string, expectedVersion int, state domain.OfferState, at time.Time) (int64, error) {
	args := m.Called(ctx, id, expectedVersion, state, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOfferRepository) ListOffersByBuyer(ctx context.Context, buyerID string) ([]domain.Offer, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListOffersByFarmer(ctx context.Context, farmerID string) ([]domain.Offer, error) {
	args := m.Called(ctx, farmerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListDueOffers(ctx context.Context, asOf time.Time, limit int) ([]domain.Offer, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
