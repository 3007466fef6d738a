package models

import "github.com/julianstephens/salesops/internal/constants"

// Filters holds the raw filter values as the user entered them. Every
// field is optional; the empty string means "no filter".
type Filters struct {
	Partner string
	Channel string
	Seller  string
	Status  string
	Trigger string
}

// TextFilters are the filters that are typed rather than picked, and so
// are debounced before they reach the server
type TextFilters struct {
	Partner string
	Status  string
	Trigger string
}

// Text returns the debounced subset of f
func (f Filters) Text() TextFilters {
	return TextFilters{Partner: f.Partner, Status: f.Status, Trigger: f.Trigger}
}

// WithText returns f with its text filters replaced
func (f Filters) WithText(t TextFilters) Filters {
	f.Partner = t.Partner
	f.Status = t.Status
	f.Trigger = t.Trigger
	return f
}

// WithChannel returns f with a new channel. The seller always belongs to
// the previous channel, so it is cleared in the same step.
func (f Filters) WithChannel(channel string) Filters {
	f.Channel = channel
	f.Seller = ""
	return f
}

// WithSeller returns f with a new seller. Sellers are only meaningful
// inside a channel, so without one the value is dropped.
func (f Filters) WithSeller(seller string) Filters {
	if f.Channel == "" {
		seller = ""
	}
	f.Seller = seller
	return f
}

// Pages holds the independent cursors of the two lists. Pages are
// 1-indexed.
type Pages struct {
	Pending int
	Today   int
}

// FirstPages returns both cursors on page 1
func FirstPages() Pages {
	return Pages{Pending: 1, Today: 1}
}

// PageCount returns ceil(total / PageSize)
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + constants.PageSize - 1) / constants.PageSize
}
