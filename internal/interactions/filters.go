package interactions

import (
	"context"

	"github.com/julianstephens/salesops/internal/models"
)

func (c *Controller) setText(fn func(t *models.TextFilters)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	text := c.state.Filters.Text()
	fn(&text)
	if text == c.state.Filters.Text() {
		c.mu.Unlock()
		return
	}
	c.state.Filters = c.state.Filters.WithText(text)
	// the today list is filtered locally, so its cursor resets at once
	c.state.Pages.Today = 1
	c.unlockAndEmit()

	c.text.Set(text)
}

// SetPartnerFilter changes the partner filter. The server sees it once
// the debounce window passes without another text filter change.
func (c *Controller) SetPartnerFilter(partnerID string) {
	c.setText(func(t *models.TextFilters) { t.Partner = partnerID })
}

// SetStatusFilter changes the status filter, debounced
func (c *Controller) SetStatusFilter(status string) {
	c.setText(func(t *models.TextFilters) { t.Status = status })
}

// SetTriggerFilter changes the trigger filter, debounced
func (c *Controller) SetTriggerFilter(trigger string) {
	c.setText(func(t *models.TextFilters) { t.Trigger = trigger })
}

// onTextSettled runs when the text filters have been quiet for the
// debounce window
func (c *Controller) onTextSettled(models.TextFilters) {
	c.update(func(s *State) { s.Pages.Pending = 1 })
	c.reloadAsync()
}

// SetChannelFilter changes the channel and clears the seller in the same
// update. The seller list is refreshed for the new channel on its own
// cycle and the dynamic data is reloaded.
func (c *Controller) SetChannelFilter(channelID string) {
	c.mu.Lock()
	if c.closed || channelID == c.state.Filters.Channel {
		c.mu.Unlock()
		return
	}
	c.state.Filters = c.state.Filters.WithChannel(channelID)
	c.state.Sellers = nil
	c.state.Pages.Pending = 1
	fetch := c.beginSellersLocked()
	c.unlockAndEmit()

	fetch()
	c.reloadAsync()
}

// SetSellerFilter changes the seller. Without a channel it is ignored.
func (c *Controller) SetSellerFilter(sellerID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	next := c.state.Filters.WithSeller(sellerID)
	if next == c.state.Filters {
		c.mu.Unlock()
		return
	}
	c.state.Filters = next
	c.state.Pages.Pending = 1
	c.unlockAndEmit()

	c.reloadAsync()
}

// beginSellersLocked starts the seller cycle for the channel now in the
// filters, cancelling the previous one, and returns the call that
// fetches it. Without a channel, or before the static load, the fetch
// does nothing. Must be called with the lock held.
func (c *Controller) beginSellersLocked() func() {
	cycle := c.sellers.Begin()
	channel := c.state.Filters.Channel
	if channel == "" || !c.state.Initialized {
		return func() {}
	}
	return func() {
		c.spawn(func(context.Context) {
			c.refreshSellers(cycle, channel)
		})
	}
}

// ApplyFilters replaces every filter at once, skipping the debounce
// window, and reloads once
func (c *Controller) ApplyFilters(f models.Filters) {
	next := models.Filters{}.WithChannel(f.Channel).WithSeller(f.Seller).WithText(f.Text())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	channelChanged := next.Channel != c.state.Filters.Channel
	c.state.Filters = next
	c.state.Pages = models.FirstPages()
	fetch := func() {}
	if channelChanged {
		c.state.Sellers = nil
		fetch = c.beginSellersLocked()
	}
	c.text.Reset(next.Text())
	c.unlockAndEmit()

	fetch()
	c.reloadAsync()
}

// ClearFilters drops every filter
func (c *Controller) ClearFilters() {
	c.ApplyFilters(models.Filters{})
}

// SetPendingPage moves the pending cursor and reloads. Pages below 1
// are treated as 1.
func (c *Controller) SetPendingPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	if c.closed || page == c.state.Pages.Pending {
		c.mu.Unlock()
		return
	}
	c.state.Pages.Pending = page
	c.unlockAndEmit()

	c.reloadAsync()
}

// SetTodayPage moves the today cursor. The today list is held in full,
// so no request is made.
func (c *Controller) SetTodayPage(page int) {
	if page < 1 {
		page = 1
	}
	c.update(func(s *State) { s.Pages.Today = page })
}
