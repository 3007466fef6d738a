package interactions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/clock"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// fakeBackend records every call. Hooks, when set, replace the canned
// responses.
type fakeBackend struct {
	mu sync.Mutex

	partners    []models.Partner
	partnersErr error
	quota       models.Quota
	page        models.PendingPage
	pendingErr  error
	today       []models.Interaction
	sellers     map[string][]models.Seller
	sellersErr  error
	registerErr error
	triggerErr  error
	upload      models.UploadResult
	uploadErr   error

	pendingHook  func(ctx context.Context, q api.PendingQuery) (models.PendingPage, error)
	sellersHook  func(ctx context.Context, channelID string)
	registerHook func(ctx context.Context) error

	pendingCalls  []api.PendingQuery
	todayCalls    int
	partnerCalls  int
	sellerCalls   []string
	registered    []models.InteractionRequest
	triggers      []models.TriggerRequest
	uploadedNames []string
}

func (f *fakeBackend) Pending(ctx context.Context, q api.PendingQuery) (models.PendingPage, error) {
	f.mu.Lock()
	f.pendingCalls = append(f.pendingCalls, q)
	hook, page, err := f.pendingHook, f.page, f.pendingErr
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, q)
	}
	return page, err
}

func (f *fakeBackend) Today(context.Context) ([]models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todayCalls++
	return f.today, nil
}

func (f *fakeBackend) Partners(context.Context) ([]models.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partnerCalls++
	return f.partners, f.partnersErr
}

func (f *fakeBackend) Quota(context.Context) (models.Quota, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quota, nil
}

func (f *fakeBackend) Sellers(ctx context.Context, channelID string) ([]models.Seller, error) {
	f.mu.Lock()
	f.sellerCalls = append(f.sellerCalls, channelID)
	hook := f.sellersHook
	f.mu.Unlock()
	if hook != nil {
		hook(ctx, channelID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sellers[channelID], f.sellersErr
}

func (f *fakeBackend) sellerRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sellerCalls...)
}

func (f *fakeBackend) RegisterInteraction(ctx context.Context, req models.InteractionRequest) error {
	f.mu.Lock()
	hook := f.registerHook
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, req)
	return nil
}

func (f *fakeBackend) CreateTrigger(_ context.Context, req models.TriggerRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.triggerErr != nil {
		return f.triggerErr
	}
	f.triggers = append(f.triggers, req)
	return nil
}

func (f *fakeBackend) UploadTriggers(_ context.Context, name string, _ []byte) (models.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return models.UploadResult{}, f.uploadErr
	}
	f.uploadedNames = append(f.uploadedNames, name)
	return f.upload, nil
}

func (f *fakeBackend) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pendingCalls)
}

func (f *fakeBackend) lastPending() api.PendingQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingCalls[len(f.pendingCalls)-1]
}

func (f *fakeBackend) setPendingHook(hook func(ctx context.Context, q api.PendingQuery) (models.PendingPage, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingHook = hook
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []models.Activity
}

func (j *memoryJournal) RecordActivity(a models.Activity) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, a)
	return nil
}

func (j *memoryJournal) all() []models.Activity {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.Activity(nil), j.entries...)
}

// recorder keeps every snapshot the controller emits
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) snapshots() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func row(id, partnerID int, name string) models.Interaction {
	return models.Interaction{ID: id, PartnerID: partnerID, PartnerName: name, Status: "Pendente"}
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		partners: []models.Partner{{ID: 10, Name: "Acme Ltd"}, {ID: 20, Name: "Other"}},
		quota:    models.Quota{Current: 3, Target: 10},
		page: models.PendingPage{
			Records:  []models.Interaction{row(1, 10, "Acme Ltd"), row(2, 10, "Acme Ltd"), row(3, 20, "Other")},
			Total:    3,
			Statuses: []string{"Pendente"},
			Triggers: []string{"Sem compra"},
		},
		today: []models.Interaction{row(4, 10, "Acme Ltd"), row(5, 20, "Other")},
		sellers: map[string][]models.Seller{
			"5": {{ID: 9, Name: "Maria"}},
			"7": {{ID: 11, Name: "Joao"}},
		},
	}
}

type harness struct {
	backend  *fakeBackend
	clock    *clock.FakeClock
	journal  *memoryJournal
	recorder *recorder
	ctrl     *Controller
}

func newHarness(t *testing.T, backend *fakeBackend, profile models.Profile) *harness {
	t.Helper()
	h := &harness{
		backend:  backend,
		clock:    clock.Fake(epoch),
		journal:  &memoryJournal{},
		recorder: &recorder{},
	}
	h.ctrl = New(backend, Options{
		Profile:  profile,
		Clock:    h.clock,
		Retry:    retry.Policy{MaxAttempts: 1},
		Debounce: constants.DefaultDebounce,
		Journal:  h.journal,
		OnChange: h.recorder.record,
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

// started returns a harness whose static and first dynamic load are done
func started(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	h := newHarness(t, backend, models.Profile{Username: "ana", Role: constants.RoleSeller})
	require.NoError(t, h.ctrl.LoadStatic(context.Background()))
	return h
}
