package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/models"
	"github.com/julianstephens/lifemap/internal/narrator"
	"github.com/julianstephens/lifemap/internal/stats"
	"github.com/julianstephens/lifemap/internal/subscription"
	"github.com/julianstephens/lifemap/internal/tui/components/entrylist"
	"github.com/julianstephens/lifemap/internal/tui/components/report"
	"github.com/julianstephens/lifemap/internal/utils"
)

type changedMsg struct{}

type dayTickMsg struct{}

type reloadedMsg struct {
	err error
}

type summaryMsg struct {
	summary models.WeeklySummary
	err     error
}

type savedMsg struct {
	entry models.JournalEntry
	err   error
}

type deletedMsg struct {
	err error
}

// waitForChange delivers one changedMsg per coalesced store notification.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// scheduleDayTick fires just after the next local midnight so day-based
// statistics roll over without a change event.
func scheduleDayTick(clock utils.Clock) tea.Cmd {
	now := clock.Now()
	next := utils.StartOfDay(now.Year(), now.Month(), now.Day()+1, clock.Location()).Add(time.Second)
	return tea.Tick(next.Sub(now), func(time.Time) tea.Msg {
		return dayTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := msg.Width-4, msg.Height-6
		m.entryList.SetSize(w, h)
		m.dashboard.SetSize(w, h)
		m.summary.SetSize(w, h)
		return m, nil

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.store.Changes())

	case dayTickMsg:
		m.refresh()
		return m, scheduleDayTick(m.clock)

	case reloadedMsg:
		if msg.err != nil {
			m.status = "Failed to reload entries: " + msg.err.Error()
		}
		m.refresh()
		return m, nil

	case summaryMsg:
		m.loadingSummary = false
		m.summary.SetContent(report.Summary(msg.summary))
		if msg.err != nil {
			m.status = msg.err.Error() + " Showing your local summary instead."
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			logger.Error("Failed to save entry", "error", msg.err)
			m.status = "Failed to save entry: " + msg.err.Error()
		} else {
			m.status = "Saved reflection for " + msg.entry.Date
		}
		m.refresh()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			logger.Error("Failed to delete entry", "error", msg.err)
			m.status = "Failed to delete entry: " + msg.err.Error()
		} else {
			m.status = "Entry deleted"
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loadingSummary {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case entrylist.AddEntryMsg:
		return m.startAdd()

	case entrylist.EditEntryMsg:
		return m.startEdit(msg.Entry)

	case entrylist.DeleteEntryMsg:
		m.entryToDelete = msg.ID
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateEditing:
		return m.updateEditing(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !(m.state == StateEntries && m.entryList.Filtering()) {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.reload()
		case key.Matches(msg, m.keys.Add) && m.state == StateDashboard:
			return m.startAdd()
		case key.Matches(msg, m.keys.Summary) && m.state == StateSummary:
			return m.startSummary()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case StateEntries:
		m.entryList, cmd = m.entryList.Update(msg)
	case StateSummary:
		m.summary, cmd = m.summary.Update(msg)
	}
	return m, cmd
}

func (m Model) reload() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return reloadedMsg{err: store.Refresh(ctx)}
	}
}

// startAdd opens the form for a new entry when the gate allows it. A free
// user who already reflected today edits that entry instead.
func (m Model) startAdd() (tea.Model, tea.Cmd) {
	m.status = ""
	entries, _, sub := m.snapshot()
	today := stats.TodaysEntry(entries, m.clock)
	if !subscription.AllowsNewEntryToday(sub, today) {
		m.status = "You already reflected today. Editing today's entry (Pro allows several per day)."
		return m.startEdit(*today)
	}
	if !subscription.CanCreateEntry(sub, false) {
		m.status = subscription.UpgradePrompt(sub)
		return m, nil
	}

	m.editingID = ""
	m.entryForm = NewEntryFormModel(m.clock.Today())
	m.form = NewEntryForm(m.entryForm)
	m.previousState = m.state
	m.state = StateEditing
	return m, m.form.Init()
}

func (m Model) startEdit(e models.JournalEntry) (tea.Model, tea.Cmd) {
	m.editingID = e.ID
	m.entryForm = EntryFormModelFrom(e)
	m.form = NewEntryForm(m.entryForm)
	if m.state != StateEditing {
		m.previousState = m.state
	}
	m.state = StateEditing
	return m, m.form.Init()
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		cmds = append(cmds, m.save(m.editingID, m.entryForm))
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m Model) save(id string, fm *EntryFormModel) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		if id == "" {
			e, err := store.Create(ctx, fm.Draft())
			return savedMsg{entry: e, err: err}
		}
		e, err := store.Update(ctx, id, fm.Patch())
		return savedMsg{entry: e, err: err}
	}
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		id := m.entryToDelete
		store, ctx := m.store, m.ctx
		m.entryToDelete = ""
		m.state = m.previousState
		return m, func() tea.Msg {
			return deletedMsg{err: store.Delete(ctx, id)}
		}
	case "n", "N", "esc", "q":
		m.entryToDelete = ""
		m.state = m.previousState
	}
	return m, nil
}

// startSummary fetches the weekly summary. Plans without AI insights get the
// local summary directly.
func (m Model) startSummary() (tea.Model, tea.Cmd) {
	if m.loadingSummary {
		return m, nil
	}
	entries, _, sub := m.snapshot()
	n := m.narrator
	m.status = ""
	if !subscription.HasFeature(sub, subscription.FeatureAIInsights) {
		n = nil
		m.status = "AI insights are a Pro feature. Showing your local summary."
	}
	m.loadingSummary = true

	ctx, userID, clock := m.ctx, m.store.UserID(), m.clock
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		s, err := narrator.SummaryWithFallback(ctx, n, userID, entries, clock)
		return summaryMsg{summary: s, err: err}
	})
}
