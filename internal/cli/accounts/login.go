package accounts

import (
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
)

type LoginCmd struct {
	Email string `arg:"" help:"Email address of the profile to use."`
	Name  string `help:"Full name, used when the profile is created."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.Accounts().SignIn(ctx.Background(), c.Email, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetSetting(constants.SettingCurrentUserID, profile.ID); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	fmt.Printf("✓ Logged in as %s (%s plan)\n", profile.DisplayName(), profile.Plan())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.SetSetting(constants.SettingCurrentUserID, ""); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("✓ Logged out")
	return nil
}
