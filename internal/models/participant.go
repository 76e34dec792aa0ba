package models

// Participant represents a person tracked by the ledger.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	// Assigned at creation and never changed.
	ID string `json:"id"`

	// Name is the display name. Never blank; may be renamed at any time.
	Name string `json:"name"`
}
