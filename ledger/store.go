package ledger

import "github.com/ruei-yu/activity-checkin-points/models"

// Store is an append-only, scan-able record store. Load returns every
// record in write order; Append durably persists the whole batch or none
// of it. Implementations must serialize concurrent Append calls.
type Store interface {
	Load() ([]models.CheckinRecord, error)
	Append(records ...models.CheckinRecord) error
}
