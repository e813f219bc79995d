package ledger

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruei-yu/activity-checkin-points/models"
	"github.com/ruei-yu/activity-checkin-points/points"
)

func testCatalog(t *testing.T) *points.Catalog {
	t.Helper()
	c, err := points.NewCatalog([]models.CategoryDef{
		{Name: "志工", Points: 1},
		{Name: "美食", Points: 1},
		{Name: "中華文化", Points: 2},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	store, err := NewCSVStore(filepath.Join(t.TempDir(), "checkins.csv"))
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	return New(store)
}

func TestRecordBatch(t *testing.T) {
	l := testLedger(t)
	d := models.EventDescriptor{Title: "迎新晚會", Category: "中華文化", Date: "2025-09-01"}

	res, err := l.RecordBatch(testCatalog(t), d, "Alice, Bob、Carol", "first batch")
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if res.BatchID == "" {
		t.Error("batch id missing")
	}
	if len(res.Accepted) != 3 || len(res.Duplicates) != 0 {
		t.Fatalf("accepted=%v duplicates=%v", res.Accepted, res.Duplicates)
	}
	if res.Points != 2 {
		t.Errorf("points per check-in = %d, want 2", res.Points)
	}

	records, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ledger has %d records, want 3", len(records))
	}
	r := records[0]
	if r.ParticipantName != "Alice" || r.Category != "中華文化" || r.PointsAwarded != 2 ||
		r.EventDate != "2025-09-01" || r.EventTitle != "迎新晚會" || r.Note != "first batch" {
		t.Errorf("record = %+v", r)
	}
	if r.Timestamp.IsZero() {
		t.Error("timestamp not assigned at append time")
	}
}

func TestRecordBatchIdempotent(t *testing.T) {
	l := testLedger(t)
	cat := testCatalog(t)
	d := models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-01"}

	if _, err := l.RecordBatch(cat, d, "Alice", ""); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	res, err := l.RecordBatch(cat, d, "Alice", "")
	if err != nil {
		t.Fatalf("second check-in: %v", err)
	}
	if len(res.Accepted) != 0 || len(res.Duplicates) != 1 || res.Duplicates[0] != "Alice" {
		t.Errorf("second submission: accepted=%v duplicates=%v", res.Accepted, res.Duplicates)
	}

	records, _ := l.Load()
	if len(records) != 1 {
		t.Errorf("ledger has %d records, want exactly 1", len(records))
	}
}

func TestRecordBatchPartialDuplicates(t *testing.T) {
	l := testLedger(t)
	cat := testCatalog(t)
	d := models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-01"}

	if _, err := l.RecordBatch(cat, d, "Dave, Eve", ""); err != nil {
		t.Fatalf("seed batch: %v", err)
	}

	// 5 names, 2 already credited: exactly 3 appended, 2 reported.
	res, err := l.RecordBatch(cat, d, "Alice, Bob, Dave, Carol, Eve", "")
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if len(res.Accepted) != 3 || len(res.Duplicates) != 2 {
		t.Errorf("accepted=%v duplicates=%v", res.Accepted, res.Duplicates)
	}

	records, _ := l.Load()
	if len(records) != 5 {
		t.Errorf("ledger has %d records, want 5", len(records))
	}
}

func TestRecordBatchIntraBatchDuplicate(t *testing.T) {
	l := testLedger(t)
	d := models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-01"}

	res, err := l.RecordBatch(testCatalog(t), d, "Alice, Bob, Alice", "")
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if len(res.Accepted) != 2 || len(res.Duplicates) != 1 {
		t.Errorf("accepted=%v duplicates=%v, want the repeated name rejected", res.Accepted, res.Duplicates)
	}
}

func TestRecordBatchUnknownCategory(t *testing.T) {
	l := testLedger(t)
	d := models.EventDescriptor{Title: "週會", Category: "骑马", Date: "2025-03-01"}

	_, err := l.RecordBatch(testCatalog(t), d, "Alice", "")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
	records, _ := l.Load()
	if len(records) != 0 {
		t.Errorf("unknown category must write nothing, ledger has %d records", len(records))
	}
}

func TestRecordBatchNoNames(t *testing.T) {
	l := testLedger(t)
	d := models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-01"}

	for _, raw := range []string{"", "   ", "（只有註記）"} {
		if _, err := l.RecordBatch(testCatalog(t), d, raw, ""); !errors.Is(err, ErrNoNames) {
			t.Errorf("raw %q: err = %v, want ErrNoNames", raw, err)
		}
	}
}

func TestRecordBatchDefaultsTitleAndDate(t *testing.T) {
	l := testLedger(t)
	res, err := l.RecordBatch(testCatalog(t), models.EventDescriptor{Category: "志工"}, "Alice", "")
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if res.EventTitle != models.DefaultEventTitle {
		t.Errorf("title = %q, want sentinel", res.EventTitle)
	}
	if res.EventDate != time.Now().Format(models.DateLayout) {
		t.Errorf("date = %q, want today", res.EventDate)
	}
}

func TestRecordBatchPointsSnapshot(t *testing.T) {
	l := testLedger(t)
	d := models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-01"}
	if _, err := l.RecordBatch(testCatalog(t), d, "Alice", ""); err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	// The category's value changes afterwards; the recorded snapshot stays.
	raised, err := points.NewCatalog([]models.CategoryDef{{Name: "志工", Points: 5}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	d2 := models.EventDescriptor{Title: "週會", Category: "志工", Date: "2025-03-02"}
	if _, err := l.RecordBatch(raised, d2, "Alice", ""); err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	records, _ := l.Load()
	if records[0].PointsAwarded != 1 || records[1].PointsAwarded != 5 {
		t.Errorf("points = %d, %d; want snapshot 1 then 5", records[0].PointsAwarded, records[1].PointsAwarded)
	}
}
