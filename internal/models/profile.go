package models

import (
	"time"

	"github.com/julianstephens/lifemap/internal/constants"
)

// Profile is a user account record.
type Profile struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	FullName         string         `json:"full_name,omitempty"`
	AvatarURL        string         `json:"avatar_url,omitempty"`
	SubscriptionPlan constants.Plan `json:"subscription_plan"`
	CustomDomain     string         `json:"custom_domain,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Plan returns the profile's plan, treating an unset plan as free.
func (p *Profile) Plan() constants.Plan {
	if p == nil || p.SubscriptionPlan == "" {
		return constants.PlanFree
	}
	return p.SubscriptionPlan
}

// DisplayName returns the full name, or the email when no name is set.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// ValidPlan reports whether the plan is a known tier.
func ValidPlan(plan constants.Plan) bool {
	return plan == constants.PlanFree || plan == constants.PlanPro
}
