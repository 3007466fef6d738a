package tui

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/salesops/internal/config"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/logger"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
	"github.com/julianstephens/salesops/internal/tui/components/records"
)

// stateMsg carries a controller snapshot into the event loop
type stateMsg interactions.State

// opDoneMsg reports the end of a controller operation run as a command
type opDoneMsg struct {
	err error
}

func (m Model) run(op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		tableHeight := msg.Height - 12
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.pending.SetSize(msg.Width-4, tableHeight)
		m.today.SetSize(msg.Width-4, tableHeight)
		return m, nil

	case stateMsg:
		m.apply(interactions.State(msg))
		return m, nil

	case opDoneMsg:
		// failures are already in the snapshot's message
		if msg.err != nil && !quiet(msg.err) {
			logger.Debug("operation finished with error", "error", msg.err)
			var pathErr *fs.PathError
			if errors.As(msg.err, &pathErr) {
				m.formErr = "Could not read " + pathErr.Path
			}
		}
		m.apply(m.ctrl.State())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case records.ExpandMsg:
		return m.openRegister(msg.Record)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if handled, next, cmd := m.handleKey(msg); handled {
			next.apply(next.ctrl.State())
			return next, cmd
		}
	}

	var cmd tea.Cmd
	if m.state == constants.StateToday {
		m.today, cmd = m.today.Update(msg)
	} else {
		m.pending, cmd = m.pending.Update(msg)
	}
	return m, cmd
}

func quiet(err error) bool {
	return retry.IsCancelled(err) || interactions.IsValidation(err) || errors.Is(err, interactions.ErrBusy)
}

func (m Model) handleKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	s := m.snapshot
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, m, tea.Quit
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		if m.state == constants.StatePending {
			m.state = constants.StateToday
		} else {
			m.state = constants.StatePending
		}
		return true, m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return true, m, nil
	case key.Matches(msg, m.keys.Refresh):
		return true, m, m.run(m.ctrl.LoadDynamic)
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissMessage()
		return true, m, nil
	case key.Matches(msg, m.keys.NextPage):
		m.turnPage(1)
		return true, m, nil
	case key.Matches(msg, m.keys.PrevPage):
		m.turnPage(-1)
		return true, m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return true, m, tea.Batch(m.search.Focus(), textinput.Blink)
	case key.Matches(msg, m.keys.Clear):
		m.search.SetValue("")
		m.ctrl.ClearFilters()
		return true, m, nil
	case key.Matches(msg, m.keys.Filter):
		m.filterForm = &FilterFormModel{
			Status:  s.Filters.Status,
			Trigger: s.Filters.Trigger,
			Channel: s.Filters.Channel,
		}
		return m.openForm(constants.StateFilters, NewFilterForm(m.filterForm, s.Dynamic.Statuses, s.Dynamic.Triggers, s.Static.Channels))
	case key.Matches(msg, m.keys.Seller):
		if s.Filters.Channel == "" {
			return true, m, nil
		}
		m.sellerForm = &SellerFormModel{Seller: s.Filters.Seller}
		return m.openForm(constants.StateSeller, NewSellerForm(m.sellerForm, s.Sellers))
	case key.Matches(msg, m.keys.Trigger):
		if len(s.Static.Partners) == 0 {
			return true, m, nil
		}
		m.triggerForm = &TriggerFormModel{PartnerID: s.Trigger.PartnerID, Description: s.Trigger.Description}
		return m.openForm(constants.StateTrigger, NewTriggerForm(m.triggerForm, s.Static.Partners))
	case key.Matches(msg, m.keys.Upload):
		m.uploadForm = &UploadFormModel{}
		return m.openForm(constants.StateUpload, NewUploadForm(m.uploadForm))
	}
	return false, m, nil
}

func (m *Model) turnPage(delta int) {
	if m.state == constants.StateToday {
		next := m.view.TodayPage + delta
		if next >= 1 && next <= m.view.TodayPages {
			m.ctrl.SetTodayPage(next)
		}
		return
	}
	next := m.view.PendingPage + delta
	if next >= 1 && next <= m.view.PendingPages {
		m.ctrl.SetPendingPage(next)
	}
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.ctrl.SetPartnerFilter(strings.TrimSpace(after))
		m.apply(m.ctrl.State())
	}
	return m, cmd
}

func (m Model) openForm(state constants.SessionState, form *huh.Form) (bool, Model, tea.Cmd) {
	m.previous = m.state
	m.state = state
	m.form = form
	m.formErr = ""
	return true, m, m.form.Init()
}

func (m Model) openRegister(rec models.Interaction) (tea.Model, tea.Cmd) {
	m.ctrl.Expand(rec.ID)
	editing := m.ctrl.State().Editing

	kind := editing.TypeFor(rec.ID)
	if kind == "" {
		kind = constants.InteractionWhatsApp
	}
	m.registerForm = &RegisterFormModel{
		Row:         rec.ID,
		Type:        kind,
		Opportunity: editing.Value != "",
		Value:       editing.Value,
		Note:        editing.Note,
	}
	_, next, cmd := m.openForm(constants.StateRegister, NewRegisterForm(m.registerForm, rec.PartnerName))
	next.apply(next.ctrl.State())
	return next, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Esc) {
		return m.closeForm(nil)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		next, submit := m.submitForm()
		return next, tea.Batch(cmd, submit)
	case huh.StateAborted:
		return m.closeForm(nil)
	}
	return m, cmd
}

// submitForm hands the completed form to the controller
func (m Model) submitForm() (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.StateRegister:
		fm := *m.registerForm
		m.ctrl.SetTypeDraft(fm.Row, fm.Type)
		if fm.Opportunity {
			m.ctrl.SetValueDraft(fm.Value)
			m.ctrl.SetNoteDraft(fm.Note)
		}
		cmd = m.run(func(ctx context.Context) error {
			return m.ctrl.RegisterInteraction(ctx, fm.Row, fm.Opportunity)
		})
	case constants.StateFilters:
		fm := *m.filterForm
		m.ctrl.SetStatusFilter(fm.Status)
		m.ctrl.SetTriggerFilter(fm.Trigger)
		if fm.Channel != m.snapshot.Filters.Channel {
			m.ctrl.SetChannelFilter(fm.Channel)
		}
	case constants.StateSeller:
		m.ctrl.SetSellerFilter(m.sellerForm.Seller)
	case constants.StateTrigger:
		m.ctrl.SetTriggerPartner(m.triggerForm.PartnerID)
		m.ctrl.SetTriggerDescription(m.triggerForm.Description)
		cmd = m.run(m.ctrl.CreateManualTrigger)
	case constants.StateUpload:
		path := config.ExpandPath(strings.TrimSpace(m.uploadForm.Path))
		cmd = m.run(func(ctx context.Context) error {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return m.ctrl.UploadTriggers(ctx, filepath.Base(path), content)
		})
	}
	next, closeCmd := m.closeForm(cmd)
	return next.(Model), closeCmd
}

func (m Model) closeForm(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.state == constants.StateRegister && cmd == nil {
		m.ctrl.Collapse()
	}
	m.state = m.previous
	m.form = nil
	m.registerForm = nil
	m.filterForm = nil
	m.sellerForm = nil
	m.triggerForm = nil
	m.uploadForm = nil
	m.apply(m.ctrl.State())
	return m, cmd
}
