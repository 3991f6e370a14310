package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/validation"
)

// ValidateCmd checks the signed-in user's entries for data problems.
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validateEntries(ctx)
	if err != nil {
		return err
	}
	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
	}
	if result.HasSevere() {
		return errors.New("journal data has problems")
	}
	return nil
}

func validateEntries(ctx *cli.Context) (validation.ValidationResult, error) {
	profile, err := ctx.CurrentProfile()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	clock, err := ctx.Clock()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	entries, err := ctx.Store.ListEntries(ctx.Background(), profile.ID)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to list entries: %w", err)
	}
	v := validation.New(clock, subscription.PolicyFromSettings(settings))
	return v.ValidateEntries(&profile, entries), nil
}
