// Package interactions is the synchronization controller behind the
// interactions screen. It loads reference data once, keeps the pending
// and interacted-today lists in step with the filters and pages, and
// runs the mutations that feed back into them.
//
// All state lives behind one mutex and is replaced, never edited, so a
// State snapshot can be handed to any goroutine. Every network call runs
// under retry inside a cancellation cycle; a result whose cycle is no
// longer current is discarded before it reaches the state.
package interactions

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/cancel"
	"github.com/julianstephens/salesops/internal/clock"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/debounce"
	"github.com/julianstephens/salesops/internal/logger"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
)

var log = logger.Component("controller")

// Backend is the slice of the REST API the controller consumes
type Backend interface {
	Pending(ctx context.Context, q api.PendingQuery) (models.PendingPage, error)
	Today(ctx context.Context) ([]models.Interaction, error)
	Partners(ctx context.Context) ([]models.Partner, error)
	Quota(ctx context.Context) (models.Quota, error)
	Sellers(ctx context.Context, channelID string) ([]models.Seller, error)
	RegisterInteraction(ctx context.Context, req models.InteractionRequest) error
	CreateTrigger(ctx context.Context, req models.TriggerRequest) error
	UploadTriggers(ctx context.Context, name string, content []byte) (models.UploadResult, error)
}

// Journal records successful mutations locally
type Journal interface {
	RecordActivity(models.Activity) error
}

// Options configures a Controller. Zero values take defaults.
type Options struct {
	Profile  models.Profile
	Clock    clock.Clock
	Retry    retry.Policy
	Debounce time.Duration
	Journal  Journal
	// OnChange receives a snapshot after every state change. It may be
	// called from several goroutines; use State.Version to order them.
	OnChange func(State)
}

type Controller struct {
	backend Backend
	opts    Options
	policy  retry.Policy

	root     context.Context
	stopRoot context.CancelFunc

	static    *cancel.Coordinator
	dynamic   *cancel.Coordinator
	sellers   *cancel.Coordinator
	mutations map[constants.Concern]*cancel.Coordinator

	text *debounce.Value[models.TextFilters]

	wg     sync.WaitGroup
	mu     sync.Mutex
	state  State
	closed bool
}

func New(backend Backend, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = constants.DefaultDebounce
	}

	policy := opts.Retry
	if policy.Clock == nil {
		policy.Clock = opts.Clock
	}
	if policy.Retryable == nil {
		policy.Retryable = api.IsTransient
	}
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, delay time.Duration, err error) {
			log.Warn("request failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		}
	}

	root, stop := context.WithCancel(context.Background())
	c := &Controller{
		backend:  backend,
		opts:     opts,
		policy:   policy,
		root:     root,
		stopRoot: stop,
		static:   cancel.New(root),
		dynamic:  cancel.New(root),
		sellers:  cancel.New(root),
		mutations: map[constants.Concern]*cancel.Coordinator{
			constants.ConcernInteraction: cancel.New(root),
			constants.ConcernTrigger:     cancel.New(root),
			constants.ConcernUpload:      cancel.New(root),
		},
		state: State{
			Pages:   models.FirstPages(),
			Loading: Loading{},
			Editing: Editing{Types: map[int]constants.InteractionType{}},
		},
	}
	c.text = debounce.NewValue(opts.Clock, opts.Debounce, models.TextFilters{}, c.onTextSettled)
	return c
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// update applies fn under the lock, bumps the version and notifies
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	c.state.Version++
	snapshot := c.state
	c.mu.Unlock()
	c.emit(snapshot)
}

// commit bumps the version of a change made by the caller under the lock
// and returns the snapshot to emit once the lock is released
func (c *Controller) commit() State {
	c.state.Version++
	return c.state
}

func (c *Controller) emit(s State) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(s)
	}
}

func (c *Controller) setLoadingLocked(concern constants.Concern, on bool) {
	c.state.Loading = c.state.Loading.with(concern, on)
}

// DismissMessage clears the blocking message
func (c *Controller) DismissMessage() {
	c.update(func(s *State) { s.Message = "" })
}

// spawn runs fn on a tracked goroutine. After Close it does nothing.
func (c *Controller) spawn(fn func(ctx context.Context)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		fn(c.root)
	}()
}

func (c *Controller) reloadAsync() {
	c.spawn(func(ctx context.Context) {
		_ = c.LoadDynamic(ctx)
	})
}

// Wait blocks until every reload spawned so far has finished
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels all in-flight work, drops pending debounced filters and
// waits for spawned reloads to return. The controller is unusable after.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.text.Stop()
	c.static.Stop()
	c.dynamic.Stop()
	c.sellers.Stop()
	for _, m := range c.mutations {
		m.Stop()
	}
	c.stopRoot()
	c.wg.Wait()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
