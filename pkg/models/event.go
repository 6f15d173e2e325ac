package models

// UpcomingEvent is a read-side projection of one anchor date on a contact:
// the next future occurrence of the date's month/day, never persisted.
type UpcomingEvent struct {
	Contact   *Contact `json:"contact"`
	EventType string   `json:"event_type"`
	// Label is the human-readable event name, e.g. "Birthday" or
	// "Maya's Birthday" for child birthdays.
	Label string `json:"label"`
	// EventDate is the next occurrence in YYYY-MM-DD form.
	EventDate string `json:"event_date"`
	// YearsSince is the number of years since the original date at the
	// next occurrence. Nil for birthdays (age is not exposed).
	YearsSince *int `json:"years_since,omitempty"`
}

// Event type identifiers for the 8 anchor-date fields.
const (
	EventTypeBirthday           = "birthday"
	EventTypeWeddingAnniversary = "wedding_anniversary"
	EventTypeHomePurchase       = "home_purchase_anniversary"
	EventTypeMoveIn             = "move_in_anniversary"
	EventTypeChildBirthday      = "child_birthday"
)
