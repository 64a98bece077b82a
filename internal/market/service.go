// Package market implements the buyer side of the marketplace: posting crop
// requirements and ranking the farmers that can supply them.
package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/event"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/matching"
	"github.com/abeleng/shemeta/internal/profile"
	"github.com/abeleng/shemeta/internal/repository"
)

// Service defines the interface for buyer-side operations
type Service interface {
	PostRequirement(ctx context.Context, caller domain.Identity, in RequirementInput) (*domain.CropRequirement, error)
	GetRequirement(ctx context.Context, caller domain.Identity, requirementID string) (*domain.CropRequirement, error)
	ListRequirements(ctx context.Context, caller domain.Identity) ([]domain.CropRequirement, error)
	MatchedFarmers(ctx context.Context, caller domain.Identity, requirementID string) ([]domain.Match, error)
	MatchRequirement(ctx context.Context, req domain.CropRequirement) ([]domain.Match, error)
}

// RequirementInput is what a buyer submits when posting demand.
type RequirementInput struct {
	Crop         string
	QuantityTons float64
	PricePerKG   float64
	HarvestDate  time.Time
	Region       string
	QualityNotes string
}

type service struct {
	requirements repository.Requirement
	profiles     *profile.Builder
	matcher      *matching.Matcher
	publisher    event.Publisher
	now          func() time.Time
}

// NewService creates a new market service. A nil now uses time.Now.
func NewService(requirements repository.Requirement, profiles *profile.Builder, matcher *matching.Matcher, publisher event.Publisher, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		requirements: requirements,
		profiles:     profiles,
		matcher:      matcher,
		publisher:    publisher,
		now:          func() time.Time { return now().UTC() },
	}
}

// PostRequirement validates and stores a buyer requirement.
func (s *service) PostRequirement(ctx context.Context, caller domain.Identity, in RequirementInput) (*domain.CropRequirement, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	if caller.Role != domain.RoleBuyer {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgBuyersOnly)
	}

	crop, ok := domain.ParseCrop(in.Crop)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCrop, in.Crop)
	}
	region, ok := domain.ParseRequirementRegion(in.Region)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRegion, in.Region)
	}
	if in.HarvestDate.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgHarvestDateNeeded)
	}

	now := s.now()
	req := &domain.CropRequirement{
		ID:           uuid.NewString(),
		BuyerID:      caller.UserID,
		Crop:         crop,
		QuantityTons: in.QuantityTons,
		PricePerKG:   in.PricePerKG,
		HarvestDate:  in.HarvestDate.UTC(),
		Region:       region,
		QualityNotes: strings.TrimSpace(in.QualityNotes),
		CreatedAt:    now,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.IsOpen(now) {
		return nil, fmt.Errorf("%w: %s", domain.ErrHarvestPassed, req.HarvestDate.Format(time.DateOnly))
	}

	if err := s.requirements.CreateRequirement(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateRequirement, err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event.NewRequirementPostedEvent(*req)); err != nil {
			logger.FromContext(ctx).Error(LogMsgPublishFailed, "requirement_id", req.ID, "error", err)
		}
	}
	logger.FromContext(ctx).Info(LogMsgRequirementPosted,
		"requirement_id", req.ID, "crop", req.Crop, "region", req.Region, "quantity_tons", req.QuantityTons)
	return req, nil
}

// GetRequirement returns a requirement visible to its owner or an admin.
func (s *service) GetRequirement(ctx context.Context, caller domain.Identity, requirementID string) (*domain.CropRequirement, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	req, err := s.requirements.GetRequirement(ctx, requirementID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadRequirement, err)
	}
	if caller.Role != domain.RoleAdmin && req.BuyerID != caller.UserID {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNotOwner)
	}
	return req, nil
}

// ListRequirements returns the caller's requirements, newest first.
func (s *service) ListRequirements(ctx context.Context, caller domain.Identity) ([]domain.CropRequirement, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgNoIdentity)
	}
	if caller.Role != domain.RoleBuyer {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, ErrMsgBuyersOnly)
	}
	reqs, err := s.requirements.ListRequirementsByBuyer(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListRequirements, err)
	}
	return reqs, nil
}

// MatchedFarmers ranks the farmers able to supply one of the caller's requirements.
func (s *service) MatchedFarmers(ctx context.Context, caller domain.Identity, requirementID string) ([]domain.Match, error) {
	req, err := s.GetRequirement(ctx, caller, requirementID)
	if err != nil {
		return nil, err
	}
	matches, err := s.MatchRequirement(ctx, *req)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug(LogMsgFarmersMatched, "requirement_id", req.ID, "matches", len(matches))
	return matches, nil
}

// MatchRequirement recomputes the ranked farmer list for req from current data.
func (s *service) MatchRequirement(ctx context.Context, req domain.CropRequirement) ([]domain.Match, error) {
	profiles, err := s.profiles.ForRegion(ctx, req.Region)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildProfiles, err)
	}
	matches, err := s.matcher.Match(ctx, req, profiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgMatchFarmers, err)
	}
	return matches, nil
}
