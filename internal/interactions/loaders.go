package interactions

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/cancel"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
)

// LoadStatic fetches the partner roster and the daily quota once per
// controller, then runs the first dynamic load. Until it succeeds the
// dynamic loader stays inert.
func (c *Controller) LoadStatic(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Initialized {
		c.mu.Unlock()
		return nil
	}
	cycle := c.static.BeginWithin(ctx)
	c.setLoadingLocked(constants.ConcernStatic, true)
	c.setLoadingLocked(constants.ConcernQuota, true)
	c.unlockAndEmit()

	log.Debug("static load started", "cycle", cycle.Generation())

	var (
		partners []models.Partner
		quota    models.Quota
	)
	g, gctx := errgroup.WithContext(cycle.Context())
	g.Go(func() error {
		var err error
		partners, err = retry.Value(gctx, c.policy, c.backend.Partners)
		return err
	})
	g.Go(func() error {
		var err error
		quota, err = retry.Value(gctx, c.policy, c.backend.Quota)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	if !c.static.Current(cycle) {
		if !c.static.Latest(cycle) {
			c.mu.Unlock()
			log.Debug("static result discarded", "cycle", cycle.Generation())
			return ErrSuperseded
		}
		// stopped or abandoned by the caller: nothing replaces the flags
		c.setLoadingLocked(constants.ConcernStatic, false)
		c.setLoadingLocked(constants.ConcernQuota, false)
		c.unlockAndEmit()
		return cancelledErr(cycle.Context(), err)
	}
	c.setLoadingLocked(constants.ConcernStatic, false)
	c.setLoadingLocked(constants.ConcernQuota, false)

	if err != nil {
		if !retry.IsCancelled(err) {
			log.Error("static load failed", "error", err)
			c.state.Message = constants.MsgInitialLoadFailed
		}
		c.unlockAndEmit()
		return err
	}

	channels := []models.Channel(nil)
	if c.opts.Profile.Role.SeesAllChannels() {
		channels = c.opts.Profile.Channels
	}
	c.state.Static = Static{Partners: partners, Quota: quota, Channels: channels}
	c.state.Initialized = true
	if c.state.Message == constants.MsgInitialLoadFailed {
		c.state.Message = ""
	}
	c.unlockAndEmit()

	log.Info("static data loaded", "partners", len(partners), "quota", quota.Target)
	return c.LoadDynamic(ctx)
}

// LoadDynamic fetches the current pending page and the whole
// interacted-today list under one cycle and replaces the dynamic data.
// It does nothing before LoadStatic has succeeded. Starting a cycle
// cancels the previous one; a superseded result returns ErrSuperseded
// without touching the state.
func (c *Controller) LoadDynamic(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.state.Initialized {
		c.mu.Unlock()
		return nil
	}
	// the query snapshot and the cycle are taken together so a later
	// state change always gets a later cycle
	query := api.PendingQuery{
		Page:    c.state.Pages.Pending,
		Filters: c.state.Filters.WithText(c.text.Settled()),
	}
	cycle := c.dynamic.BeginWithin(ctx)
	c.setLoadingLocked(constants.ConcernDynamic, true)
	c.unlockAndEmit()

	log.Debug("dynamic load started", "cycle", cycle.Generation(), "page", query.Page)

	var (
		page  models.PendingPage
		today []models.Interaction
	)
	g, gctx := errgroup.WithContext(cycle.Context())
	g.Go(func() error {
		var err error
		page, err = retry.Value(gctx, c.policy, func(ctx context.Context) (models.PendingPage, error) {
			return c.backend.Pending(ctx, query)
		})
		return err
	})
	g.Go(func() error {
		var err error
		today, err = retry.Value(gctx, c.policy, c.backend.Today)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	if !c.dynamic.Current(cycle) {
		if !c.dynamic.Latest(cycle) {
			// the newer cycle owns the loading flag
			c.mu.Unlock()
			log.Debug("dynamic result discarded", "cycle", cycle.Generation())
			return ErrSuperseded
		}
		c.setLoadingLocked(constants.ConcernDynamic, false)
		c.unlockAndEmit()
		return cancelledErr(cycle.Context(), err)
	}
	c.setLoadingLocked(constants.ConcernDynamic, false)

	if err != nil {
		if !retry.IsCancelled(err) {
			log.Error("dynamic load failed", "error", err)
			c.state.Message = constants.MsgRefreshFailed
		}
		c.unlockAndEmit()
		return err
	}

	channels := c.opts.Profile.Channels
	c.state.Dynamic = Dynamic{
		Pending:      withChannelNames(page.Records, channels),
		PendingTotal: page.Total,
		Today:        withChannelNames(today, channels),
		Statuses:     page.Statuses,
		Triggers:     page.Triggers,
	}
	if c.state.Message == constants.MsgRefreshFailed {
		c.state.Message = ""
	}
	c.unlockAndEmit()
	return nil
}

// withChannelNames returns a copy of records with ChannelName resolved
// from the session's channel list
func withChannelNames(records []models.Interaction, channels []models.Channel) []models.Interaction {
	out := make([]models.Interaction, len(records))
	for i, rec := range records {
		if rec.ChannelID != 0 {
			if name, ok := models.ChannelName(channels, rec.ChannelID); ok {
				rec.ChannelName = name
			}
		}
		out[i] = rec
	}
	return out
}

// refreshSellers fetches the seller list for channel under cycle. The
// result is dropped once another channel change has begun a newer cycle
// or the channel is no longer selected. Failures are logged and leave
// the list empty.
func (c *Controller) refreshSellers(cycle *cancel.Cycle, channel string) {
	sellers, err := retry.Value(cycle.Context(), c.policy, func(ctx context.Context) ([]models.Seller, error) {
		return c.backend.Sellers(ctx, channel)
	})

	c.mu.Lock()
	if !c.sellers.Current(cycle) || c.state.Filters.Channel != channel {
		c.mu.Unlock()
		log.Debug("seller result discarded", "channel", channel, "cycle", cycle.Generation())
		return
	}
	if err != nil {
		if !retry.IsCancelled(err) {
			log.Warn("failed to load sellers", "channel", channel, "error", err)
		}
		c.state.Sellers = nil
	} else {
		c.state.Sellers = sellers
	}
	c.unlockAndEmit()
}

// unlockAndEmit commits a change made under the lock, releases the lock
// and notifies the listener
func (c *Controller) unlockAndEmit() {
	snapshot := c.commit()
	c.mu.Unlock()
	c.emit(snapshot)
}
