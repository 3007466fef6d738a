package constants

import (
	"time"
)

// SessionState represents the current state of the TUI application
type SessionState int

// Role is the access level the backend assigns to a user
type Role string

// InteractionType is the contact medium recorded for an interaction
type InteractionType string

// Concern names one independently tracked loading flag
type Concern string

const (
	AppName            = "salesops"
	DefaultKeyringUser = "access-token"
	RefreshKeyringUser = "refresh-token"
	StoreKeyringUser   = "store-dsn"
	DefaultConfigDir   = "~/.config/salesops"
	DefaultConfigFile  = "config.yaml"
	DefaultStoreFile   = "salesops.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DateTimeFormat is used when printing interaction timestamps
	DateTimeFormat = "02/01/2006 15:04"

	// PageSize is fixed by the backend for both interaction lists
	PageSize = 10

	// Sync defaults
	DefaultDebounce       = 500 * time.Millisecond
	DefaultMaxAttempts    = 3
	DefaultInitialDelay   = 1000 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimit      = 10.0
	DefaultBurst          = 5

	// Instance lock
	InstanceLockfileName = "salesops.lock"

	// Roles
	RoleSeller  Role = "VENDEDOR"
	RoleManager Role = "GESTOR"
	RoleAdmin   Role = "ADMIN"

	// Interaction types
	InteractionWhatsApp InteractionType = "whatsapp"
	InteractionEmail    InteractionType = "email"
	InteractionCall     InteractionType = "ligacao"
	InteractionVisit    InteractionType = "visita"

	// Loading concerns
	ConcernStatic      Concern = "static"
	ConcernDynamic     Concern = "dynamic"
	ConcernInteraction Concern = "interaction"
	ConcernTrigger     Concern = "trigger"
	ConcernUpload      Concern = "upload"
	ConcernQuota       Concern = "quota"

	// Activity kinds recorded in the local journal
	ActivityInteraction = "interaction"
	ActivityOpportunity = "opportunity"
	ActivityTrigger     = "trigger"
	ActivityUpload      = "upload"
)

// Session States
const (
	StatePending SessionState = iota
	StateToday
	StateFilters
	StateRegister
	StateSeller
	StateTrigger
	StateUpload
)

// InteractionTypes lists the selectable interaction types in display order
var InteractionTypes = []InteractionType{
	InteractionWhatsApp,
	InteractionEmail,
	InteractionCall,
	InteractionVisit,
}

// Label returns the human-facing name of an interaction type
func (t InteractionType) Label() string {
	switch t {
	case InteractionWhatsApp:
		return "WhatsApp"
	case InteractionEmail:
		return "E-mail"
	case InteractionCall:
		return "Ligação"
	case InteractionVisit:
		return "Visita Presencial"
	}
	return string(t)
}

// Valid reports whether t is one of the known interaction types
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SeesAllChannels reports whether the role may filter across sales channels
func (r Role) SeesAllChannels() bool {
	return r == RoleManager || r == RoleAdmin
}
