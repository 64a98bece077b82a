package repository

import (
	"context"
	"time"

	"github.com/abeleng/shemeta/internal/domain"
)

// Requirement defines the interface for crop requirement persistence
type Requirement interface {
	CreateRequirement(ctx context.Context, req *domain.CropRequirement) error
	GetRequirement(ctx context.Context, id string) (*domain.CropRequirement, error)
	GetRequirementsByIDs(ctx context.Context, ids []string) ([]domain.CropRequirement, error)
	ListRequirementsByBuyer(ctx context.Context, buyerID string) ([]domain.CropRequirement, error)
	// ListOpenRequirementsByCrop returns requirements whose harvest date is not before asOf's day.
	ListOpenRequirementsByCrop(ctx context.Context, crop domain.CropName, asOf time.Time) ([]domain.CropRequirement, error)
}
