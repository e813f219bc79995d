package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/ruei-yu/activity-checkin-points/models"
)

// ParticipantTotal is one leaderboard row.
type ParticipantTotal struct {
	Name  string `json:"participant_name"`
	Total int    `json:"total_points"`
}

// Totals sums points per participant and sorts descending by total.
// Equal totals order lexicographically by name so the leaderboard is
// deterministic.
func Totals(records []models.CheckinRecord) []ParticipantTotal {
	sums := map[string]int{}
	for _, r := range records {
		sums[r.ParticipantName] += r.PointsAwarded
	}
	out := make([]ParticipantTotal, 0, len(sums))
	for name, total := range sums {
		out = append(out, ParticipantTotal{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Filter selects records. Zero-valued predicates are skipped; set
// predicates combine with logical AND. From/To bound the record timestamp
// at day granularity: From's midnight is inclusive, To is inclusive
// through the end of that day.
type Filter struct {
	Participant   string
	Category      string
	TitleContains string
	EventDate     string
	From          *time.Time
	To            *time.Time
}

// Match reports whether one record passes every set predicate.
func (f Filter) Match(r models.CheckinRecord) bool {
	if f.Participant != "" && r.ParticipantName != f.Participant {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.TitleContains != "" && !strings.Contains(r.EventTitle, f.TitleContains) {
		return false
	}
	if f.EventDate != "" && r.EventDate != f.EventDate {
		return false
	}
	if f.From != nil && r.Timestamp.Before(startOfDay(*f.From)) {
		return false
	}
	if f.To != nil && !r.Timestamp.Before(startOfDay(*f.To).Add(24*time.Hour)) {
		return false
	}
	return true
}

// Apply returns the records passing the filter, preserving input order.
func Apply(records []models.CheckinRecord, f Filter) []models.CheckinRecord {
	out := make([]models.CheckinRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SumPoints totals points over an already-filtered slice.
func SumPoints(records []models.CheckinRecord) int {
	total := 0
	for _, r := range records {
		total += r.PointsAwarded
	}
	return total
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
