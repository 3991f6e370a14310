package accounts

import (
	"fmt"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
)

type ProfileCmd struct {
	Show   ProfileShowCmd   `cmd:"" help:"Show the signed-in profile." default:"1"`
	Update ProfileUpdateCmd `cmd:"" help:"Update the display name or avatar."`
	Plan   ProfilePlanCmd   `cmd:"" help:"Switch subscription plan (free or pro)."`
	Domain ProfileDomainCmd `cmd:"" help:"Set or clear the custom domain (pro only)."`
}

func printProfile(ctx *cli.Context, p models.Profile) error {
	fmt.Printf("Name:    %s\n", p.DisplayName())
	fmt.Printf("Email:   %s\n", p.Email)
	fmt.Printf("Plan:    %s\n", p.Plan())
	if p.CustomDomain != "" {
		fmt.Printf("Domain:  %s\n", p.CustomDomain)
	}
	if p.AvatarURL != "" {
		fmt.Printf("Avatar:  %s\n", p.AvatarURL)
	}
	fmt.Printf("Joined:  %s\n", p.CreatedAt.Local().Format(constants.DateFormat))

	sess, err := ctx.Open()
	if err != nil {
		return err
	}
	sub := sess.Subscription()
	fmt.Printf("Entries: %d this week, %d of %d this month\n", sub.EntriesThisWeek, sub.EntriesThisMonth, sub.MaxEntriesPerMonth)
	return nil
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.CurrentProfile()
	if err != nil {
		return err
	}
	return printProfile(ctx, p)
}

type ProfileUpdateCmd struct {
	Name   string `help:"Full name."`
	Avatar string `help:"Avatar URL."`
}

func (c *ProfileUpdateCmd) Run(ctx *cli.Context) error {
	if c.Name == "" && c.Avatar == "" {
		fmt.Println("No changes specified. Use --name or --avatar.")
		return nil
	}
	p, err := ctx.CurrentProfile()
	if err != nil {
		return err
	}
	p, err = ctx.Accounts().Update(ctx.Background(), p.ID, c.Name, c.Avatar)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	fmt.Println("✓ Profile updated")
	return printProfile(ctx, p)
}

type ProfilePlanCmd struct {
	Plan string `arg:"" enum:"free,pro" help:"New plan: free or pro."`
}

func (c *ProfilePlanCmd) Run(ctx *cli.Context) error {
	p, err := ctx.CurrentProfile()
	if err != nil {
		return err
	}
	p, err = ctx.Accounts().SetPlan(ctx.Background(), p.ID, constants.Plan(c.Plan))
	if err != nil {
		return fmt.Errorf("failed to change plan: %w", err)
	}
	fmt.Printf("✓ Plan changed to %s\n", p.Plan())
	return nil
}

type ProfileDomainCmd struct {
	Domain string `arg:"" optional:"" help:"Hostname to use; omit to clear."`
}

func (c *ProfileDomainCmd) Run(ctx *cli.Context) error {
	p, err := ctx.CurrentProfile()
	if err != nil {
		return err
	}
	p, err = ctx.Accounts().SetCustomDomain(ctx.Background(), p.ID, c.Domain)
	if err != nil {
		return err
	}
	if p.CustomDomain == "" {
		fmt.Println("✓ Custom domain cleared")
	} else {
		fmt.Printf("✓ Custom domain set to %s\n", p.CustomDomain)
	}
	return nil
}
