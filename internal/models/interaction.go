package models

import (
	"strconv"
	"time"

	"github.com/julianstephens/salesops/internal/constants"
)

// Interaction is one row of the pending or interacted-today lists. The
// server owns every field except ChannelName, which the client resolves
// from the session's channel list.
type Interaction struct {
	ID             int
	PartnerID      int
	PartnerName    string
	Unit           string
	Classification string
	Status         string

	Contacted    *bool
	Timestamp    *time.Time
	Type         constants.InteractionType
	ChannelID    int
	ChannelType  string
	ExtraTrigger string
	ChannelName  string
	Consultant   string
}

// MatchesPartner reports whether the record belongs to the partner with
// the given id. The comparison is exact, never a substring match.
func (i Interaction) MatchesPartner(partnerID string) bool {
	return partnerID == "" || strconv.Itoa(i.PartnerID) == partnerID
}

// HasTrigger reports whether the row carries an extra outreach trigger
func (i Interaction) HasTrigger() bool {
	return i.ExtraTrigger != ""
}

// PendingPage is one server page of pending interactions plus the label
// sets the server offers for filtering
type PendingPage struct {
	Records  []Interaction
	Total    int
	Statuses []string
	Triggers []string
}

// HistoryEntry is one past interaction with a partner
type HistoryEntry struct {
	Timestamp time.Time
	Type      constants.InteractionType
	Username  string
}
