package entries

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifemap/internal/cli"
	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx := &cli.Context{Ctx: context.Background(), Store: store}
	profile, err := ctx.Accounts().SignIn(ctx.Background(), "ada@example.com", "Ada Lovelace")
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(constants.SettingCurrentUserID, profile.ID))
	return ctx, profile.ID
}

func listEntries(t *testing.T, ctx *cli.Context, userID string) []models.JournalEntry {
	t.Helper()
	entries, err := ctx.Store.ListEntries(ctx.Background(), userID)
	require.NoError(t, err)
	return entries
}

func TestEntryAddCmd(t *testing.T) {
	ctx, userID := setupTestDB(t)

	cmd := &EntryAddCmd{Mood: 4, Decision: "  walk after lunch ", Habit: []string{"exercise", "Stretching"}}
	require.NoError(t, cmd.Run(ctx))

	entries := listEntries(t, ctx, userID)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, 4, e.Mood)
	assert.Equal(t, models.DefaultMoodEmoji(4), e.MoodEmoji)
	assert.Equal(t, "walk after lunch", e.Decision)
	assert.True(t, e.Habits["Exercise"], "default habit names are matched case-insensitively")
	assert.True(t, e.Habits["Stretching"])
	for _, name := range constants.DefaultHabits {
		_, ok := e.Habits[name]
		assert.True(t, ok, "default habit %q is recorded", name)
	}
}

func TestEntryAddCmd_RequiresMood(t *testing.T) {
	ctx, _ := setupTestDB(t)

	err := (&EntryAddCmd{Decision: "no mood"}).Run(ctx)
	assert.Error(t, err)

	err = (&EntryAddCmd{Mood: 9}).Run(ctx)
	assert.Error(t, err)
}

func TestEntryAddCmd_FreePlanOncePerDay(t *testing.T) {
	ctx, userID := setupTestDB(t)

	require.NoError(t, (&EntryAddCmd{Mood: 3}).Run(ctx))
	require.NoError(t, (&EntryAddCmd{Mood: 5}).Run(ctx), "the gate prints a message instead of failing")
	assert.Len(t, listEntries(t, ctx, userID), 1)

	// Backdated entries are not limited by today's entry.
	require.NoError(t, (&EntryAddCmd{Mood: 2, Date: "2020-01-01"}).Run(ctx))
	assert.Len(t, listEntries(t, ctx, userID), 2)
}

func TestEntryAddCmd_ProPlanMultiplePerDay(t *testing.T) {
	ctx, userID := setupTestDB(t)
	_, err := ctx.Accounts().SetPlan(ctx.Background(), userID, constants.PlanPro)
	require.NoError(t, err)

	require.NoError(t, (&EntryAddCmd{Mood: 3}).Run(ctx))
	require.NoError(t, (&EntryAddCmd{Mood: 5}).Run(ctx))
	assert.Len(t, listEntries(t, ctx, userID), 2)
}

func TestEntryAddCmd_QuotaReached(t *testing.T) {
	ctx, userID := setupTestDB(t)
	require.NoError(t, ctx.Store.SetSetting(constants.SettingMaxEntriesPerMonth, "1"))
	_, err := ctx.Accounts().SetPlan(ctx.Background(), userID, constants.PlanPro)
	require.NoError(t, err)

	require.NoError(t, (&EntryAddCmd{Mood: 3}).Run(ctx))
	require.NoError(t, (&EntryAddCmd{Mood: 4}).Run(ctx))
	assert.Len(t, listEntries(t, ctx, userID), 1)
}

func TestEntryAddCmd_QuotaIgnoresOtherMonths(t *testing.T) {
	ctx, userID := setupTestDB(t)
	require.NoError(t, ctx.Store.SetSetting(constants.SettingMaxEntriesPerMonth, "1"))
	_, err := ctx.Accounts().SetPlan(ctx.Background(), userID, constants.PlanPro)
	require.NoError(t, err)

	require.NoError(t, (&EntryAddCmd{Mood: 3}).Run(ctx))
	require.Len(t, listEntries(t, ctx, userID), 1, "this month's quota is now used up")

	require.NoError(t, (&EntryAddCmd{Mood: 2, Date: "2020-01-01"}).Run(ctx))
	require.NoError(t, (&EntryAddCmd{Mood: 4, Date: "2020-01-02"}).Run(ctx))
	entries := listEntries(t, ctx, userID)
	assert.Len(t, entries, 3, "entries dated in another month are not held to this month's quota")
}

func TestEntryAddCmd_NotLoggedIn(t *testing.T) {
	ctx, _ := setupTestDB(t)
	require.NoError(t, ctx.Store.SetSetting(constants.SettingCurrentUserID, ""))

	err := (&EntryAddCmd{Mood: 3}).Run(ctx)
	assert.True(t, errors.Is(err, cli.ErrNotLoggedIn), "got %v", err)
}

func TestEntryEditCmd(t *testing.T) {
	ctx, userID := setupTestDB(t)
	require.NoError(t, (&EntryAddCmd{Mood: 2, Habit: []string{"Reading"}}).Run(ctx))
	id := listEntries(t, ctx, userID)[0].ID

	mood := 5
	decision := "call mom"
	cmd := &EntryEditCmd{ID: id[:8], Mood: &mood, Decision: &decision, Habit: []string{"Meditation"}}
	require.NoError(t, cmd.Run(ctx))

	e := listEntries(t, ctx, userID)[0]
	assert.Equal(t, 5, e.Mood)
	assert.Equal(t, models.DefaultMoodEmoji(5), e.MoodEmoji)
	assert.Equal(t, "call mom", e.Decision)
	assert.Equal(t, []string{"Meditation"}, e.Habits.Completed())
}

func TestEntryEditCmd_NoChanges(t *testing.T) {
	ctx, userID := setupTestDB(t)
	require.NoError(t, (&EntryAddCmd{Mood: 2}).Run(ctx))
	before := listEntries(t, ctx, userID)[0]

	require.NoError(t, (&EntryEditCmd{ID: before.ID}).Run(ctx))
	assert.Equal(t, before.UpdatedAt, listEntries(t, ctx, userID)[0].UpdatedAt)
}

func TestEntryEditCmd_InvalidMood(t *testing.T) {
	ctx, userID := setupTestDB(t)
	require.NoError(t, (&EntryAddCmd{Mood: 2}).Run(ctx))
	id := listEntries(t, ctx, userID)[0].ID

	mood := 0
	assert.Error(t, (&EntryEditCmd{ID: id, Mood: &mood}).Run(ctx))
}

func TestEntryEditCmd_NotFound(t *testing.T) {
	ctx, _ := setupTestDB(t)
	assert.Error(t, (&EntryEditCmd{ID: "does-not-exist"}).Run(ctx))
}

func TestEntryDeleteCmd(t *testing.T) {
	ctx, userID := setupTestDB(t)
	require.NoError(t, (&EntryAddCmd{Mood: 4}).Run(ctx))
	id := listEntries(t, ctx, userID)[0].ID

	require.NoError(t, (&EntryDeleteCmd{ID: id, Yes: true}).Run(ctx))
	assert.Empty(t, listEntries(t, ctx, userID))

	assert.Error(t, (&EntryDeleteCmd{ID: id, Yes: true}).Run(ctx))
}

func TestEntryListAndShow(t *testing.T) {
	ctx, userID := setupTestDB(t)

	require.NoError(t, (&EntryListCmd{}).Run(ctx), "empty list")
	require.NoError(t, (&EntryTodayCmd{}).Run(ctx), "no entry today")

	require.NoError(t, (&EntryAddCmd{Mood: 4, Decision: "sleep early"}).Run(ctx))
	require.NoError(t, (&EntryAddCmd{Mood: 1, Date: "2020-01-01"}).Run(ctx))
	id := listEntries(t, ctx, userID)[0].ID

	assert.NoError(t, (&EntryListCmd{Limit: 1}).Run(ctx))
	assert.NoError(t, (&EntryListCmd{Week: true, JSON: true}).Run(ctx))
	assert.NoError(t, (&EntryShowCmd{ID: id}).Run(ctx))
	assert.NoError(t, (&EntryTodayCmd{}).Run(ctx))
}

func TestHabitSet(t *testing.T) {
	h := habitSet([]string{"reading", " ", "Journaling"})

	assert.True(t, h["Reading"])
	assert.True(t, h["Journaling"])
	assert.False(t, h["Exercise"])
	assert.Len(t, h, len(constants.DefaultHabits)+1)
}

func TestFindEntry_AmbiguousPrefix(t *testing.T) {
	ctx, userID := setupTestDB(t)
	_, err := ctx.Accounts().SetPlan(ctx.Background(), userID, constants.PlanPro)
	require.NoError(t, err)
	require.NoError(t, (&EntryAddCmd{Mood: 4}).Run(ctx))

	sess, err := ctx.Open()
	require.NoError(t, err)
	_, err = findEntry(sess, "abc")
	assert.Error(t, err, "prefixes shorter than four characters are not matched")
}
