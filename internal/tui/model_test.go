package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/tui/components/records"
)

// stubController records the calls the screen makes
type stubController struct {
	state    interactions.State
	calls    []string
	partners []string
	pages    []int
	today    []int
	expanded []int
}

func (s *stubController) State() interactions.State { return s.state }
func (s *stubController) LoadStatic(context.Context) error { return nil }
func (s *stubController) LoadDynamic(context.Context) error { s.calls = append(s.calls, "reload"); return nil }
func (s *stubController) SetPartnerFilter(v string) { s.partners = append(s.partners, v) }
func (s *stubController) SetStatusFilter(string) {}
func (s *stubController) SetTriggerFilter(string) {}
func (s *stubController) SetChannelFilter(string) {}
func (s *stubController) SetSellerFilter(string) {}
func (s *stubController) ClearFilters() { s.calls = append(s.calls, "clear") }
func (s *stubController) SetPendingPage(p int) { s.pages = append(s.pages, p) }
func (s *stubController) SetTodayPage(p int) { s.today = append(s.today, p) }
func (s *stubController) Expand(row int) { s.expanded = append(s.expanded, row) }
func (s *stubController) Collapse() { s.calls = append(s.calls, "collapse") }
func (s *stubController) SetTypeDraft(int, constants.InteractionType) {}
func (s *stubController) SetValueDraft(string) {}
func (s *stubController) SetNoteDraft(string) {}
func (s *stubController) SetTriggerPartner(string) {}
func (s *stubController) SetTriggerDescription(string) {}
func (s *stubController) DismissMessage() { s.calls = append(s.calls, "dismiss") }
func (s *stubController) RegisterInteraction(context.Context, int, bool) error {
	return nil
}
func (s *stubController) CreateManualTrigger(context.Context) error { return nil }
func (s *stubController) UploadTriggers(context.Context, string, []byte) error {
	return nil
}

func loadedState(version uint64) interactions.State {
	pending := make([]models.Interaction, 10)
	for i := range pending {
		pending[i] = models.Interaction{ID: i + 1, PartnerID: 10, PartnerName: "Acme Ltd", Status: "Pendente"}
	}
	return interactions.State{
		Version:     version,
		Initialized: true,
		Static: interactions.Static{
			Partners: []models.Partner{{ID: 10, Name: "Acme Ltd"}},
			Quota:    models.Quota{Current: 4, Target: 10},
		},
		Dynamic: interactions.Dynamic{
			Pending:      pending,
			PendingTotal: 25,
			Today:        []models.Interaction{{ID: 50, PartnerID: 10, PartnerName: "Acme Ltd"}},
		},
		Pages:   models.FirstPages(),
		Loading: interactions.Loading{},
	}
}

func newTestModel(t *testing.T) (Model, *stubController) {
	t.Helper()
	ctrl := &stubController{state: loadedState(1)}
	m := NewModel(context.Background(), ctrl, models.Profile{Username: "ana", Role: constants.RoleSeller})
	return m, ctrl
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestOlderSnapshotsAreIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	newer := loadedState(5)
	newer.Message = constants.MsgRefreshFailed
	m, _ = update(t, m, stateMsg(newer))
	assert.Equal(t, uint64(5), m.snapshot.Version)

	older := loadedState(3)
	m, _ = update(t, m, stateMsg(older))
	assert.Equal(t, uint64(5), m.snapshot.Version)
	assert.Equal(t, constants.MsgRefreshFailed, m.snapshot.Message)
}

func TestTabSwitchesLists(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, constants.StatePending, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, constants.StateToday, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, constants.StatePending, m.state)
}

func TestPaging(t *testing.T) {
	m, ctrl := newTestModel(t)

	m, _ = update(t, m, runeKey("l"))
	assert.Equal(t, []int{2}, ctrl.pages)

	// no page before the first
	m, _ = update(t, m, runeKey("h"))
	assert.Equal(t, []int{2}, ctrl.pages)

	// the today list has a single page
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	_, _ = update(t, m, runeKey("l"))
	assert.Empty(t, ctrl.today)
}

func TestPartnerSearchForwardsEveryKeystroke(t *testing.T) {
	m, ctrl := newTestModel(t)

	m, _ = update(t, m, runeKey("/"))
	require.True(t, m.searching)
	m, _ = update(t, m, runeKey("1"))
	m, _ = update(t, m, runeKey("0"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"1", "10"}, ctrl.partners)
	assert.False(t, m.searching)
}

func TestExpandOpensAndEscCollapses(t *testing.T) {
	m, ctrl := newTestModel(t)

	m, _ = update(t, m, records.ExpandMsg{Record: m.view.Pending[0]})
	assert.Equal(t, constants.StateRegister, m.state)
	assert.Equal(t, []int{1}, ctrl.expanded)
	require.NotNil(t, m.form)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StatePending, m.state)
	assert.Nil(t, m.form)
	assert.Contains(t, ctrl.calls, "collapse")
}

func TestRefreshRunsDynamicLoad(t *testing.T) {
	m, ctrl := newTestModel(t)

	_, cmd := update(t, m, runeKey("r"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, opDoneMsg{}, msg)
	assert.Equal(t, []string{"reload"}, ctrl.calls)
}

func TestViewShowsQuotaAndMessage(t *testing.T) {
	m, _ := newTestModel(t)
	s := loadedState(2)
	s.Message = constants.MsgInteractionFailed
	m, _ = update(t, m, stateMsg(s))

	out := m.View()
	assert.Contains(t, out, "daily goal 4/10")
	assert.Contains(t, out, constants.MsgInteractionFailed)
	assert.Contains(t, out, "Pending (25)")
	assert.Contains(t, out, "page 1 of 3")
}

func TestRelayCoalescesToLatest(t *testing.T) {
	r := newRelay()
	r.send(interactions.State{Version: 2})
	r.send(interactions.State{Version: 1})
	r.send(interactions.State{Version: 3})

	assert.Len(t, r.wake, 1)
	assert.Equal(t, uint64(3), r.latest.Version)
}

func TestRenderQuota(t *testing.T) {
	out := renderQuota(models.Quota{Current: 15, Target: 10}, 10)
	assert.Contains(t, out, "15/10")
	assert.Contains(t, out, "100%")
}
