package models

import (
	"time"

	"github.com/julianstephens/salesops/internal/constants"
)

// Profile is the signed-in user as returned by the login endpoint
type Profile struct {
	Username    string
	Email       string
	Role        constants.Role
	Channels    []Channel
	SellerID    string
	FirstAccess bool
	APIURL      string
	SignedInAt  time.Time
}

// Activity is one successful write recorded in the local journal
type Activity struct {
	ID        string
	Kind      string
	PartnerID int
	Summary   string
	CreatedAt time.Time
}
