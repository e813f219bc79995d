package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/points"
	"github.com/ruei-yu/activity-checkin-points/utils"
)

var (
	// ErrUnknownCategory rejects a check-in whose category is absent from
	// the category table; nothing is written in that case.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNoNames rejects a submission with no usable name after
	// normalization.
	ErrNoNames = errors.New("no valid participant names")
)

// Ledger is the append-only check-in history behind a Store. It owns the
// duplicate guard's read-modify-write cycle: one mutex covers the load,
// the duplicate scan, and the batch append, so two simultaneous check-ins
// cannot both slip past the guard.
type Ledger struct {
	mu    sync.Mutex
	store Store
}

// New wraps a Store. The Ledger is passed by handle into every operation;
// there is no ambient global store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Load returns the full history in write order. Safe to call concurrently
// with an append; the reader sees either the pre- or post-append state.
func (l *Ledger) Load() ([]models.CheckinRecord, error) {
	return l.store.Load()
}

// BatchResult reports the per-name outcomes of one bulk check-in.
type BatchResult struct {
	BatchID    string   `json:"batch_id"`
	EventTitle string   `json:"event_title"`
	EventDate  string   `json:"event_date"`
	Category   string   `json:"category"`
	Points     int      `json:"points_per_checkin"`
	Accepted   []string `json:"accepted"`
	Duplicates []string `json:"duplicates"`
}

// RecordBatch runs one bulk check-in: normalize the raw names, validate
// the category, reject duplicates per name against the full history (and
// against earlier names in the same batch), snapshot the category's point
// value, and append the survivors in one atomic batch. Duplicates are
// per-name, non-fatal outcomes; an unknown category or an empty name list
// fails the whole attempt with nothing written.
func (l *Ledger) RecordBatch(catalog *points.Catalog, d models.EventDescriptor, rawNames, note string) (BatchResult, error) {
	names := utils.SplitNames(rawNames)
	if len(names) == 0 {
		return BatchResult{}, ErrNoNames
	}
	def, ok := catalog.Lookup(d.Category)
	if !ok {
		return BatchResult{}, fmt.Errorf("%w: %q", ErrUnknownCategory, d.Category)
	}
	if d.Title == "" {
		d.Title = models.DefaultEventTitle
	}
	if d.Date == "" {
		d.Date = time.Now().Format(models.DateLayout)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	history, err := l.store.Load()
	if err != nil {
		return BatchResult{}, err
	}
	seen := KeySet(history)

	now := time.Now().Truncate(time.Second)
	res := BatchResult{
		BatchID:    uuid.NewString(),
		EventTitle: d.Title,
		EventDate:  d.Date,
		Category:   d.Category,
		Points:     def.Points,
		Accepted:   []string{},
		Duplicates: []string{},
	}

	var batch []models.CheckinRecord
	for _, name := range names {
		key := Key{Name: name, Date: d.Date, Title: d.Title, Category: d.Category}
		if _, dup := seen[key]; dup {
			res.Duplicates = append(res.Duplicates, name)
			continue
		}
		seen[key] = struct{}{} // also rejects a repeat of the same name within this batch
		batch = append(batch, models.CheckinRecord{
			Timestamp:       now,
			ParticipantName: name,
			Category:        d.Category,
			PointsAwarded:   def.Points, // snapshot; never recomputed if the table changes later
			Note:            note,
			EventDate:       d.Date,
			EventTitle:      d.Title,
		})
		res.Accepted = append(res.Accepted, name)
	}

	if len(batch) > 0 {
		if err := l.store.Append(batch...); err != nil {
			return BatchResult{}, err
		}
	}
	return res, nil
}
