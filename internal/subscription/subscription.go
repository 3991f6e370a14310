// Package subscription derives a user's plan state and decides whether new
// entries and pro features are available.
package subscription

import (
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/utils"
)

// Feature is a capability that may be limited to a plan.
type Feature string

const (
	FeatureAIInsights           Feature = "ai_insights"
	FeatureCustomDomain         Feature = "custom_domain"
	FeatureMultipleDailyEntries Feature = "multiple_daily_entries"
)

var proFeatures = map[Feature]bool{
	FeatureAIInsights:           true,
	FeatureCustomDomain:         true,
	FeatureMultipleDailyEntries: true,
}

// Policy holds the configurable entry quota.
type Policy struct {
	MaxEntriesPerMonth int
}

// DefaultPolicy returns the quota applied when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{MaxEntriesPerMonth: constants.DefaultMaxEntriesPerMonth}
}

// PolicyFromSettings reads the quota from settings, falling back to the default.
func PolicyFromSettings(s models.Settings) Policy {
	if s.MaxEntriesPerMonth <= 0 {
		return DefaultPolicy()
	}
	return Policy{MaxEntriesPerMonth: s.MaxEntriesPerMonth}
}

// Derive computes the subscription view for a profile and its entries. A nil
// profile or an unset plan is treated as free.
func Derive(profile *models.Profile, entries []models.JournalEntry, clock utils.Clock, policy Policy) models.Subscription {
	if policy.MaxEntriesPerMonth <= 0 {
		policy = DefaultPolicy()
	}
	sub := models.Subscription{
		Plan:               profile.Plan(),
		EntriesThisWeek:    len(stats.ThisWeekEntries(entries, clock)),
		EntriesThisMonth:   len(stats.ThisMonthEntries(entries, clock)),
		MaxEntriesPerMonth: policy.MaxEntriesPerMonth,
	}
	if profile != nil {
		sub.CustomDomain = profile.CustomDomain
	}
	return sub
}

// CanCreateEntry reports whether the user may save. Editing an existing entry is
// always allowed; a new entry needs room in this month's quota.
func CanCreateEntry(sub models.Subscription, isEditingExisting bool) bool {
	if isEditingExisting {
		return true
	}
	return sub.EntriesThisMonth < sub.MaxEntriesPerMonth
}

// HasFeature reports whether the plan includes the feature.
func HasFeature(sub models.Subscription, f Feature) bool {
	if !proFeatures[f] {
		return true
	}
	return sub.Plan == constants.PlanPro
}

// AllowsNewEntryToday reports whether a new entry may be created given today's
// existing entry. Free plans keep one editable entry per day.
func AllowsNewEntryToday(sub models.Subscription, todays *models.JournalEntry) bool {
	if todays == nil {
		return true
	}
	return HasFeature(sub, FeatureMultipleDailyEntries)
}

// UpgradePrompt is the message shown when the gate denies a new entry.
func UpgradePrompt(sub models.Subscription) string {
	if sub.Plan == constants.PlanPro {
		return "You've reached this month's entry limit. You can still edit existing entries."
	}
	return "You've reached this month's entry limit. Upgrade to Pro to keep journaling, or edit an existing entry."
}
