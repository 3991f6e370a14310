// Package account manages user profiles: sign-in by email, plan changes and
// the pro custom domain.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/storage"
)

var (
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidDomain = errors.New("invalid domain name")
	ErrInvalidPlan   = errors.New("plan must be free or pro")
	ErrProOnly       = errors.New("custom domains require the pro plan")
)

var validate = validator.New()

// Profiles is the profile persistence the service needs.
type Profiles interface {
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (models.Profile, error)
}

type Service struct {
	profiles Profiles
}

func NewService(profiles Profiles) *Service {
	return &Service{profiles: profiles}
}

// SignIn returns the profile for email, creating a free profile on first use.
func (s *Service) SignIn(ctx context.Context, email, fullName string) (models.Profile, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return models.Profile{}, err
	}

	p, err := s.profiles.GetProfileByEmail(ctx, addr)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, fmt.Errorf("failed to look up profile: %w", err)
	}

	logger.Info("Creating profile", "email", addr)
	return s.profiles.CreateProfile(ctx, models.Profile{
		Email:            addr,
		FullName:         strings.TrimSpace(fullName),
		SubscriptionPlan: constants.PlanFree,
	})
}

// EnsureProfile fetches userID's profile, creating an empty free one when the
// row is missing.
func (s *Service) EnsureProfile(ctx context.Context, userID, email string) (models.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, err
	}
	logger.Warn("Profile missing, creating it", "user", userID)
	return s.profiles.CreateProfile(ctx, models.Profile{
		ID:               userID,
		Email:            strings.TrimSpace(email),
		SubscriptionPlan: constants.PlanFree,
	})
}

func (s *Service) Get(ctx context.Context, userID string) (models.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// Update changes display fields. Empty values are left unchanged.
func (s *Service) Update(ctx context.Context, userID, fullName, avatarURL string) (models.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	if v := strings.TrimSpace(fullName); v != "" {
		p.FullName = v
	}
	if v := strings.TrimSpace(avatarURL); v != "" {
		p.AvatarURL = v
	}
	return s.profiles.UpdateProfile(ctx, p)
}

// SetPlan switches the subscription plan. Downgrading to free clears the
// custom domain.
func (s *Service) SetPlan(ctx context.Context, userID string, plan constants.Plan) (models.Profile, error) {
	if !models.ValidPlan(plan) {
		return models.Profile{}, ErrInvalidPlan
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	p.SubscriptionPlan = plan
	if plan != constants.PlanPro {
		p.CustomDomain = ""
	}
	return s.profiles.UpdateProfile(ctx, p)
}

// SetCustomDomain sets or, with an empty domain, clears the custom domain.
func (s *Service) SetCustomDomain(ctx context.Context, userID, domain string) (models.Profile, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain != "" && !ValidDomain(domain) {
		return models.Profile{}, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	if domain != "" && p.Plan() != constants.PlanPro {
		return models.Profile{}, ErrProOnly
	}
	p.CustomDomain = domain
	return s.profiles.UpdateProfile(ctx, p)
}

// ValidDomain reports whether domain is a fully qualified DNS hostname.
func ValidDomain(domain string) bool {
	return len(domain) <= 253 && validate.Var(domain, "required,fqdn") == nil
}

func normalizeEmail(email string) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(addr, "required,email"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return addr, nil
}
