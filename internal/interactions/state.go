package interactions

import (
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
)

// Static is the reference data loaded once per session
type Static struct {
	Partners []models.Partner
	Quota    models.Quota
	// Channels is empty unless the role may filter across channels
	Channels []models.Channel
}

// Dynamic is the result of one successful fetch cycle
type Dynamic struct {
	Pending      []models.Interaction
	PendingTotal int
	Today        []models.Interaction
	Statuses     []string
	Triggers     []string
}

// Loading holds one flag per concern. A Loading value is never modified
// once published; setLoading replaces it.
type Loading map[constants.Concern]bool

// Any reports whether any concern is loading
func (l Loading) Any() bool {
	for _, v := range l {
		if v {
			return true
		}
	}
	return false
}

func (l Loading) with(concern constants.Concern, on bool) Loading {
	next := make(Loading, len(l)+1)
	for k, v := range l {
		next[k] = v
	}
	next[concern] = on
	return next
}

// Editing is the inline entry state of the pending table. At most one
// row is expanded; row ids are positive so zero means none.
type Editing struct {
	Expanded int
	// Types survives collapse so a row remembers its last chosen type
	Types map[int]constants.InteractionType
	Value string
	Note  string
	// draftRow is the row the Value and Note drafts were typed for
	draftRow int
}

// TypeFor returns the interaction type chosen for row
func (e Editing) TypeFor(row int) constants.InteractionType {
	return e.Types[row]
}

// TriggerForm is the manual trigger entry form
type TriggerForm struct {
	PartnerID   string
	Description string
}

// State is an immutable snapshot of the controller. Slices and maps it
// references are never modified after the snapshot is taken.
type State struct {
	// Version increases with every change so listeners can drop
	// snapshots that arrive out of order
	Version     uint64
	Initialized bool

	Static  Static
	Dynamic Dynamic
	Sellers []models.Seller

	// Filters holds the raw values; text filters reach the server only
	// after the debounce window
	Filters models.Filters
	Pages   models.Pages
	Loading Loading

	Editing Editing
	Trigger TriggerForm

	// Message is the blocking message of the last failure
	Message    string
	LastUpload *models.UploadResult
}
