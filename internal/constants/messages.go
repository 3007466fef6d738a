package constants

// User-facing messages surfaced by the interactions screen
const (
	MsgInitialLoadFailed  = "Could not connect to the server. Check your connection and try again."
	MsgRefreshFailed      = "Could not refresh interactions. Showing the last loaded data."
	MsgInteractionFailed  = "Could not register the interaction. Try again."
	MsgTriggerFailed      = "Could not create the trigger. Try again."
	MsgUploadFailed       = "Could not upload the trigger file. Try again."
	MsgMissingType        = "Select an interaction type before saving."
	MsgMissingPartner     = "Select a partner for the trigger."
	MsgMissingDescription = "Describe the trigger before saving."
	MsgMissingFile        = "Select a spreadsheet to upload."
	MsgInvalidValue       = "Opportunity value must be a number, e.g. 1.234,56."
	MsgUnknownRow         = "That interaction is no longer listed."
	MsgNotSignedIn        = "Not signed in. Run 'salesops login' first."
)
