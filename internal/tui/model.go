// Package tui is the terminal dashboard over the signed-in user's journal.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifemap/internal/journal"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/narrator"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/tui/components/entrylist"
	"github.com/julianstephens/lifemap/internal/tui/components/report"
	"github.com/julianstephens/lifemap/internal/utils"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateEntries
	StateSummary
	StateEditing
	StateConfirmDelete
)

const tabCount = 3

var tabTitles = [tabCount]string{"Dashboard", "Entries", "Summary"}

// Options wires the model to the journal and its collaborators.
type Options struct {
	Store    *journal.Store
	Narrator *narrator.Narrator // nil disables the remote summary
	Profile  *models.Profile
	Policy   subscription.Policy
	Clock    utils.Clock
}

type Model struct {
	ctx      context.Context
	store    *journal.Store
	narrator *narrator.Narrator
	profile  *models.Profile
	policy   subscription.Policy
	clock    utils.Clock

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model
	entryList     entrylist.Model
	dashboard     report.Model
	summary       report.Model
	form          *huh.Form
	entryForm     *EntryFormModel
	editingID     string
	entryToDelete string

	loadingSummary bool
	status         string
	quitting       bool
	width          int
	height         int
}

func NewModel(ctx context.Context, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		narrator:  opts.Narrator,
		profile:   opts.Profile,
		policy:    opts.Policy,
		clock:     opts.Clock,
		state:     StateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		entryList: entrylist.New(nil, 0, 0),
		dashboard: report.New(0, 0, "Loading..."),
		summary:   report.New(0, 0, "Press 's' to generate this week's summary."),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDashboard:
		keys = append(keys, m.keys.Add, m.keys.Refresh)
	case StateEntries:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	case StateSummary:
		keys = append(keys, m.keys.Summary)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateDashboard:
		actions = []key.Binding{m.keys.Add}
	case StateEntries:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete}
	case StateSummary:
		actions = []key.Binding{m.keys.Summary}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.store.Changes()), scheduleDayTick(m.clock))
}

// snapshot is the statistics and gate state for the current entry list.
func (m Model) snapshot() ([]models.JournalEntry, stats.Dashboard, models.Subscription) {
	entries := m.store.List()
	return entries, stats.Compute(entries, m.clock), subscription.Derive(m.profile, entries, m.clock, m.policy)
}

// refresh re-derives everything shown from the store's current list.
func (m *Model) refresh() {
	entries, dash, sub := m.snapshot()
	m.entryList.SetEntries(entries)
	name := ""
	if m.profile != nil {
		name = m.profile.DisplayName()
	}
	m.dashboard.SetContent(report.Dashboard(name, dash, sub))
}
