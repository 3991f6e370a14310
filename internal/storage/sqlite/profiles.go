package sqlite

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
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.ProfileColumns+" FROM profiles WHERE id = ?", id)
	p, err := storage.ScanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	return p, err
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.ProfileColumns+" FROM profiles WHERE lower(email) = lower(?)", strings.TrimSpace(email))
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, p.AvatarURL, string(p.SubscriptionPlan), p.CustomDomain,
		storage.FormatTimestamp(p.CreatedAt), storage.FormatTimestamp(p.UpdatedAt))
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	p.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET email = ?, full_name = ?, avatar_url = ?, subscription_plan = ?, custom_domain = ?, updated_at = ?
		WHERE id = ?`,
		p.Email, p.FullName, p.AvatarURL, string(p.SubscriptionPlan), p.CustomDomain,
		storage.FormatTimestamp(p.UpdatedAt), p.ID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Profile{}, fmt.Errorf("profile %s: %w", p.ID, storage.ErrNotFound)
	}
	return s.GetProfile(ctx, p.ID)
}
