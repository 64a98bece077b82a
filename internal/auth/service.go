package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abeleng/shemeta/internal/domain"
	"github.com/abeleng/shemeta/internal/logger"
	"github.com/abeleng/shemeta/internal/repository"
)

// Service registers accounts and issues their tokens
type Service interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	IssueToken(ctx context.Context, userID string) (*Session, error)
}

// RegisterInput is a self-service signup. Region is optional for buyers.
type RegisterInput struct {
	Name            string
	Phone           string
	Role            string
	Region          string
	ExperienceYears int
}

// Session is an account together with a bearer token for it
type Session struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type service struct {
	users  repository.User
	issuer *Issuer
	now    func() time.Time
}

// NewService creates a new auth service
func NewService(users repository.User, issuer *Issuer, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{users: users, issuer: issuer, now: now}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, ErrMsgNameRequired)
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, in.Role)
	}
	if role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRole, ErrMsgAdminSelfSignup)
	}
	var region domain.Region
	if strings.TrimSpace(in.Region) != "" {
		r, ok := domain.ParseRegion(in.Region)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRegion, in.Region)
		}
		region = r
	}
	if in.ExperienceYears < 0 {
		return nil, fmt.Errorf("%w: experience years must not be negative", domain.ErrValidation)
	}

	user := domain.User{
		ID:              uuid.NewString(),
		Name:            name,
		Phone:           strings.TrimSpace(in.Phone),
		Role:            role,
		Region:          region,
		ExperienceYears: in.ExperienceYears,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateUser, err)
	}
	logger.FromContext(ctx).Info(LogMsgUserRegistered, "user_id", user.ID, "role", user.Role)

	return s.session(user)
}

func (s *service) IssueToken(ctx context.Context, userID string) (*Session, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadUser, err)
	}
	logger.FromContext(ctx).Info(LogMsgTokenIssued, "user_id", user.ID)
	return s.session(*user)
}

func (s *service) session(user domain.User) (*Session, error) {
	token, expires, err := s.issuer.Issue(domain.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}
