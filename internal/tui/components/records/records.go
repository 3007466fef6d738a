// Package records renders one of the interaction lists as a table.
package records

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

// Kind selects the columns
type Kind int

const (
	Pending Kind = iota
	Today
)

// ExpandMsg asks for the inline form of a pending row
type ExpandMsg struct {
	Record models.Interaction
}

type KeyMap struct {
	Expand key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "register"),
		),
	}
}

type Model struct {
	table   table.Model
	kind    Kind
	keys    KeyMap
	records []models.Interaction
}

func New(kind Kind, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(kind, width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return Model{table: t, kind: kind, keys: DefaultKeyMap()}
}

func columns(kind Kind, width int) []table.Column {
	if width <= 0 {
		width = 100
	}
	if kind == Today {
		return []table.Column{
			{Title: "Partner", Width: width * 30 / 100},
			{Title: "Type", Width: width * 15 / 100},
			{Title: "When", Width: width * 17 / 100},
			{Title: "Channel", Width: width * 15 / 100},
			{Title: "Consultant", Width: width * 18 / 100},
		}
	}
	return []table.Column{
		{Title: " ", Width: 2},
		{Title: "Partner", Width: width * 25 / 100},
		{Title: "Unit", Width: width * 12 / 100},
		{Title: "Class", Width: width * 8 / 100},
		{Title: "Status", Width: width * 14 / 100},
		{Title: "Channel", Width: width * 12 / 100},
		{Title: "Trigger", Width: width * 14 / 100},
		{Title: "Type", Width: width * 8 / 100},
	}
}

// SetRecords replaces the rows. expanded marks the open row and types
// fills the chosen-type column of the pending table.
func (m *Model) SetRecords(recs []models.Interaction, expanded int, types map[int]constants.InteractionType) {
	m.records = recs
	rows := make([]table.Row, len(recs))
	for i, rec := range recs {
		rows[i] = m.row(rec, expanded, types)
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) row(rec models.Interaction, expanded int, types map[int]constants.InteractionType) table.Row {
	channel := rec.ChannelName
	if channel == "" {
		channel = rec.ChannelType
	}
	if m.kind == Today {
		when := ""
		if rec.Timestamp != nil {
			when = rec.Timestamp.Local().Format(constants.DateTimeFormat)
		}
		return table.Row{rec.PartnerName, rec.Type.Label(), when, channel, rec.Consultant}
	}

	marker := " "
	if rec.ID == expanded {
		marker = "▸"
	}
	trigger := rec.ExtraTrigger
	if trigger == "" && rec.Contacted != nil && *rec.Contacted {
		trigger = "contacted"
	}
	chosen := ""
	if t, ok := types[rec.ID]; ok {
		chosen = t.Label()
	}
	partner := rec.PartnerName
	if partner == "" {
		partner = "#" + strconv.Itoa(rec.PartnerID)
	}
	return table.Row{marker, partner, rec.Unit, rec.Classification, rec.Status, channel, trigger, chosen}
}

// Selected returns the record under the cursor
func (m Model) Selected() (models.Interaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return models.Interaction{}, false
	}
	return m.records[i], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.kind == Pending && key.Matches(msg, m.keys.Expand) {
		if rec, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ExpandMsg{Record: rec} }
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.records) == 0 {
		if m.kind == Today {
			return "\n  No interactions registered today."
		}
		return "\n  Nothing pending. Adjust the filters or press 'r' to refresh."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(m.kind, width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
