package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/storage"
)

func (s *Store) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.ProfileColumns+" FROM profiles WHERE id = $1", id)
	p, err := storage.ScanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	return p, err
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.ProfileColumns+" FROM profiles WHERE lower(email) = lower($1)", strings.TrimSpace(email))
	p, err := storage.ScanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %s: %w", email, storage.ErrNotFound)
	}
	return p, err
}

func (s *Store) CreateProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Email = strings.TrimSpace(p.Email)
	if p.SubscriptionPlan == "" {
		p.SubscriptionPlan = constants.PlanFree
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+storage.ProfileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Email, p.FullName, p.AvatarURL, string(p.SubscriptionPlan), p.CustomDomain,
		storage.FormatTimestamp(p.CreatedAt), storage.FormatTimestamp(p.UpdatedAt))
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE profiles
		SET email = $1, full_name = $2, avatar_url = $3, subscription_plan = $4, custom_domain = $5, updated_at = $6
		WHERE id = $7
		RETURNING `+storage.ProfileColumns,
		p.Email, p.FullName, p.AvatarURL, string(p.SubscriptionPlan), p.CustomDomain,
		storage.FormatTimestamp(time.Now()), p.ID)
	updated, err := storage.ScanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %s: %w", p.ID, storage.ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}
