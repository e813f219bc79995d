package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/ruei-yu/activity-checkin-points/models"
)

// csvColumns is the canonical header. Column order in a persisted file is
// not significant; rows are read back by header name.
var csvColumns = []string{
	"timestamp",
	"participant_name",
	"category",
	"points_awarded",
	"note",
	"event_date",
	"event_title",
}

// CSVStore persists the ledger as a flat CSV file. Appends rewrite the
// whole table to a temp file and rename it into place, so a batch is
// either fully visible or not at all; the mutex serializes the
// read-modify-write cycle between concurrent appenders.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore opens (creating if needed) a CSV-backed store at path.
func NewCSVStore(path string) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	s := &CSVStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads every record in write order. Files written before newer
// columns existed load with those fields defaulted to empty, never as an
// error.
func (s *CSVStore) Load() ([]models.CheckinRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows from older schemas may be shorter
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := map[string]int{}
	for i, name := range rows[0] {
		idx[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]models.CheckinRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		ts, _ := time.ParseInLocation(models.TimestampLayout, field(row, "timestamp"), time.Local)
		pts, _ := strconv.Atoi(field(row, "points_awarded"))
		records = append(records, models.CheckinRecord{
			Timestamp:       ts,
			ParticipantName: field(row, "participant_name"),
			Category:        field(row, "category"),
			PointsAwarded:   pts,
			Note:            field(row, "note"),
			EventDate:       field(row, "event_date"),
			EventTitle:      field(row, "event_title"),
		})
	}
	return records, nil
}

// Append persists the batch atomically: either every record lands or the
// file is left untouched.
func (s *CSVStore) Append(records ...models.CheckinRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Load()
	if err != nil {
		return err
	}
	return s.writeAll(append(existing, records...))
}

// writeAll rewrites the whole table through a temp file in the same
// directory, then renames it over the live file.
func (s *CSVStore) writeAll(records []models.CheckinRecord) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".checkins-*.csv")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(csvColumns)
	for _, r := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			r.Timestamp.Format(models.TimestampLayout),
			r.ParticipantName,
			r.Category,
			strconv.Itoa(r.PointsAwarded),
			r.Note,
			r.EventDate,
			r.EventTitle,
		})
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", writeErr)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
