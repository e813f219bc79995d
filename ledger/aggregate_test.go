package ledger

import (
	"testing"
	"time"

	"github.com/ruei-yu/activity-checkin-points/models"
)

func rec(name, category string, pts int, ts time.Time, title string) models.CheckinRecord {
	return models.CheckinRecord{
		Timestamp:       ts,
		ParticipantName: name,
		Category:        category,
		PointsAwarded:   pts,
		EventDate:       ts.Format(models.DateLayout),
		EventTitle:      title,
	}
}

func TestTotals(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	records := []models.CheckinRecord{
		rec("A", "志工", 1, ts, "x"),
		rec("A", "美食", 1, ts, "x"),
		rec("B", "中華文化", 2, ts, "x"),
	}

	got := Totals(records)
	if len(got) != 2 {
		t.Fatalf("Totals returned %d rows, want 2", len(got))
	}
	// A and B tie at 2 points; ties order lexicographically by name.
	if got[0].Name != "A" || got[0].Total != 2 {
		t.Errorf("row 0 = %+v, want {A 2}", got[0])
	}
	if got[1].Name != "B" || got[1].Total != 2 {
		t.Errorf("row 1 = %+v, want {B 2}", got[1])
	}
}

func TestTotalsDescending(t *testing.T) {
	ts := time.Now()
	records := []models.CheckinRecord{
		rec("low", "志工", 1, ts, "x"),
		rec("high", "中華文化", 2, ts, "x"),
		rec("high", "中華文化", 2, ts.Add(time.Hour), "y"),
	}
	got := Totals(records)
	if got[0].Name != "high" || got[0].Total != 4 || got[1].Name != "low" || got[1].Total != 1 {
		t.Errorf("Totals = %+v, want high(4) then low(1)", got)
	}
}

func TestTotalsEmpty(t *testing.T) {
	if got := Totals(nil); len(got) != 0 {
		t.Errorf("Totals(nil) = %v, want empty", got)
	}
}

func TestFilterPredicates(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	records := []models.CheckinRecord{
		rec("Alice", "志工", 1, ts, "春季迎新晚會"),
		rec("Bob", "美食", 1, ts.Add(24*time.Hour), "美食社課"),
		rec("Alice", "中華文化", 2, ts.Add(72*time.Hour), "讀書會"),
	}

	if got := Apply(records, Filter{Participant: "Alice"}); len(got) != 2 {
		t.Errorf("participant filter: %d records, want 2", len(got))
	}
	if got := Apply(records, Filter{Category: "美食"}); len(got) != 1 || got[0].ParticipantName != "Bob" {
		t.Errorf("category filter: %+v", got)
	}
	if got := Apply(records, Filter{TitleContains: "迎新"}); len(got) != 1 {
		t.Errorf("title substring filter: %d records, want 1", len(got))
	}
	if got := Apply(records, Filter{EventDate: "2025-03-02"}); len(got) != 1 || got[0].ParticipantName != "Bob" {
		t.Errorf("event date filter: %+v", got)
	}
	// Filters compose with AND.
	if got := Apply(records, Filter{Participant: "Alice", Category: "志工"}); len(got) != 1 {
		t.Errorf("combined filter: %d records, want 1", len(got))
	}
	if got := Apply(records, Filter{}); len(got) != 3 {
		t.Errorf("empty filter: %d records, want all 3", len(got))
	}
}

func TestFilterDateRange(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 23, 59, 59, 0, time.Local)
	day2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local)
	day3 := time.Date(2025, 3, 3, 8, 0, 0, 0, time.Local)
	records := []models.CheckinRecord{
		rec("a", "志工", 1, day1, "x"),
		rec("b", "志工", 1, day2, "x"),
		rec("c", "志工", 1, day3, "x"),
	}

	from := time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local)
	if got := Apply(records, Filter{From: &from}); len(got) != 2 {
		t.Errorf("from filter: %d records, want 2 (start of day inclusive)", len(got))
	}

	// To is inclusive through the end of that day.
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local)
	got := Apply(records, Filter{To: &to})
	if len(got) != 2 {
		t.Fatalf("to filter: %d records, want 2", len(got))
	}
	if got[0].ParticipantName != "a" || got[1].ParticipantName != "b" {
		t.Errorf("to filter selected %+v", got)
	}

	if got := Apply(records, Filter{From: &from, To: &to}); len(got) != 1 || got[0].ParticipantName != "b" {
		t.Errorf("range filter: %+v, want only b", got)
	}
}

func TestSumPoints(t *testing.T) {
	ts := time.Now()
	records := []models.CheckinRecord{
		rec("a", "志工", 1, ts, "x"),
		rec("a", "中華文化", 2, ts, "x"),
	}
	if got := SumPoints(records); got != 3 {
		t.Errorf("SumPoints = %d, want 3", got)
	}
	if got := SumPoints(nil); got != 0 {
		t.Errorf("SumPoints(nil) = %d, want 0", got)
	}
}
