package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/salesops/internal/interactions"
)

// relay forwards controller snapshots to the program. Snapshots are
// coalesced so a burst of changes costs one message, and the controller
// never blocks on the event loop.
type relay struct {
	mu     sync.Mutex
	latest interactions.State
	wake   chan struct{}
}

func newRelay() *relay {
	return &relay{wake: make(chan struct{}, 1)}
}

func (r *relay) send(s interactions.State) {
	r.mu.Lock()
	if s.Version >= r.latest.Version {
		r.latest = s
	}
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *relay) pump(ctx context.Context, p *tea.Program) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
			r.mu.Lock()
			s := r.latest
			r.mu.Unlock()
			p.Send(stateMsg(s))
		}
	}
}

// Run starts the interactive screen and blocks until the user quits.
// opts.OnChange is replaced.
func Run(ctx context.Context, backend interactions.Backend, opts interactions.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := newRelay()
	opts.OnChange = r.send
	ctrl := interactions.New(backend, opts)
	defer ctrl.Close()

	p := tea.NewProgram(NewModel(ctx, ctrl, opts.Profile), tea.WithAltScreen(), tea.WithContext(ctx))
	go r.pump(ctx, p)

	_, err := p.Run()
	return err
}
