package models

import "github.com/julianstephens/salesops/internal/constants"

// InteractionRequest records an interaction, optionally opening an
// opportunity. Value is nil when no opportunity is created so the field
// is left out of the request entirely.
type InteractionRequest struct {
	PartnerID   int
	Type        constants.InteractionType
	Opportunity bool
	Value       *float64
	Note        string
}

// TriggerRequest attaches a manual trigger to a partner
type TriggerRequest struct {
	PartnerID   int
	Description string
}

// UploadResult summarises a bulk trigger upload
type UploadResult struct {
	Message string
	Created int
	Updated int
	Errors  []string
}
