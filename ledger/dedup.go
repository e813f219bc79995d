package ledger

import "github.com/ruei-yu/activity-checkin-points/models"

// Key is the composite identity of one check-in occurrence. The same
// person may earn points for the same category again on a different date
// or at a differently named event, but never twice for the same tuple.
type Key struct {
	Name     string
	Date     string
	Title    string
	Category string
}

// KeyOf derives the composite key of a record.
func KeyOf(r models.CheckinRecord) Key {
	return Key{
		Name:     r.ParticipantName,
		Date:     r.EventDate,
		Title:    r.EventTitle,
		Category: r.Category,
	}
}

// KeySet indexes the full history by composite key.
func KeySet(records []models.CheckinRecord) map[Key]struct{} {
	set := make(map[Key]struct{}, len(records))
	for _, r := range records {
		set[KeyOf(r)] = struct{}{}
	}
	return set
}

// IsDuplicate reports whether a record with candidate's composite key
// already exists anywhere in the ledger. The scan is full-history, not
// windowed.
func IsDuplicate(records []models.CheckinRecord, candidate models.CheckinRecord) bool {
	want := KeyOf(candidate)
	for _, r := range records {
		if KeyOf(r) == want {
			return true
		}
	}
	return false
}
