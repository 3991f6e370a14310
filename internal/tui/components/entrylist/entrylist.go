package entrylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifemap/internal/models"
)

type AddEntryMsg struct{}

type EditEntryMsg struct {
	Entry models.JournalEntry
}

type DeleteEntryMsg struct {
	ID string
}

type Item struct {
	Entry models.JournalEntry
}

func (i Item) Title() string {
	return fmt.Sprintf("%s %s  %s", i.Entry.MoodEmoji, i.Entry.Date, models.MoodLabel(i.Entry.Mood))
}

func (i Item) Description() string {
	parts := []string{}
	if i.Entry.Decision != "" {
		parts = append(parts, i.Entry.Decision)
	}
	if done := i.Entry.Habits.Completed(); len(done) > 0 {
		parts = append(parts, "✓ "+strings.Join(done, ", "))
	}
	if len(parts) == 0 {
		return "no notes"
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Entry.Date + " " + i.Entry.Decision }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.JournalEntry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Entries"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toItems(entries []models.JournalEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

// SetEntries replaces the list contents, keeping the cursor on the same entry
// when it still exists.
func (m *Model) SetEntries(entries []models.JournalEntry) {
	selected := ""
	if i, ok := m.list.SelectedItem().(Item); ok {
		selected = i.Entry.ID
	}
	m.list.SetItems(toItems(entries))
	for idx, e := range entries {
		if e.ID == selected {
			m.list.Select(idx)
			break
		}
	}
}

// Selected returns the highlighted entry.
func (m Model) Selected() (models.JournalEntry, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.JournalEntry{}, false
	}
	return i.Entry, true
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEntryMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditEntryMsg(i) }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{ID: i.Entry.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No entries yet.\n  Press 'a' to write today's reflection."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
