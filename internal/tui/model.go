package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/tui/components/records"
)

type RegisterFormModel struct {
	Row         int
	Type        constants.InteractionType
	Opportunity bool
	Value       string
	Note        string
}

type FilterFormModel struct {
	Status  string
	Trigger string
	Channel string
}

type SellerFormModel struct {
	Seller string
}

type TriggerFormModel struct {
	PartnerID   string
	Description string
}

type UploadFormModel struct {
	Path string
}

// Controller is what the screen drives
type Controller interface {
	State() interactions.State
	LoadStatic(ctx context.Context) error
	LoadDynamic(ctx context.Context) error
	SetPartnerFilter(string)
	SetStatusFilter(string)
	SetTriggerFilter(string)
	SetChannelFilter(string)
	SetSellerFilter(string)
	ClearFilters()
	SetPendingPage(int)
	SetTodayPage(int)
	Expand(int)
	Collapse()
	SetTypeDraft(int, constants.InteractionType)
	SetValueDraft(string)
	SetNoteDraft(string)
	SetTriggerPartner(string)
	SetTriggerDescription(string)
	RegisterInteraction(ctx context.Context, row int, withOpportunity bool) error
	CreateManualTrigger(ctx context.Context) error
	UploadTriggers(ctx context.Context, name string, content []byte) error
	DismissMessage()
}

type Model struct {
	ctx     context.Context
	ctrl    Controller
	profile models.Profile

	state    constants.SessionState
	previous constants.SessionState
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	// searching routes keys to the partner filter input
	searching bool

	pending records.Model
	today   records.Model

	form         *huh.Form
	registerForm *RegisterFormModel
	filterForm   *FilterFormModel
	sellerForm   *SellerFormModel
	triggerForm  *TriggerFormModel
	uploadForm   *UploadFormModel

	snapshot interactions.State
	view     interactions.ViewModel
	formErr  string

	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, ctrl Controller, profile models.Profile) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "partner id"
	ti.Prompt = "/ "
	ti.CharLimit = 12

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		profile: profile,
		state:   constants.StatePending,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		search:  ti,
		pending: records.New(records.Pending, 0, constants.PageSize),
		today:   records.New(records.Today, 0, constants.PageSize),
	}
	m.apply(ctrl.State())
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StatePending:
		keys = append(keys, m.keys.Enter, m.keys.Search, m.keys.Filter, m.keys.NextPage, m.keys.PrevPage)
	case constants.StateToday:
		keys = append(keys, m.keys.Search, m.keys.NextPage, m.keys.PrevPage)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh, m.keys.Dismiss}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevPage, m.keys.NextPage, m.keys.Enter}
	actions := []key.Binding{m.keys.Search, m.keys.Filter, m.keys.Seller, m.keys.Clear, m.keys.Trigger, m.keys.Upload}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.ctrl.LoadStatic))
}

// apply takes a controller snapshot unless a newer one is already shown
func (m *Model) apply(s interactions.State) bool {
	if s.Version < m.snapshot.Version {
		return false
	}
	m.snapshot = s
	m.view = interactions.ViewOf(s)
	m.pending.SetRecords(m.view.Pending, s.Editing.Expanded, s.Editing.Types)
	m.today.SetRecords(m.view.Today, 0, nil)
	return true
}
