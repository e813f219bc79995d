package models

// DefaultEventTitle is the sentinel title used when a token carries none.
const DefaultEventTitle = "untitled event"

// EventDescriptor is the transient (title, category, date) triple carried
// inside a check-in token. It is never persisted on its own; it is
// materialized into a CheckinRecord at check-in time.
type EventDescriptor struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
}
