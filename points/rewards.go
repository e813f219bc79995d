package points

import (
	"fmt"
	"sort"

	"github.com/ruei-yu/activity-checkin-points/models"
)

// ValidateRewards checks the parsed reward table: thresholds must be unique
// and strictly positive.
func ValidateRewards(rules []models.RewardRule) error {
	seen := make(map[int]bool, len(rules))
	for _, r := range rules {
		if r.Threshold <= 0 {
			return fmt.Errorf("reward %q: threshold must be positive, got %d", r.Reward, r.Threshold)
		}
		if seen[r.Threshold] {
			return fmt.Errorf("duplicate reward threshold %d", r.Threshold)
		}
		seen[r.Threshold] = true
	}
	return nil
}

// Unlocked returns every rule whose threshold is already met by total,
// ascending by threshold. Pure; safe for any total >= 0 and any rule set.
func Unlocked(total int, rules []models.RewardRule) []models.RewardRule {
	got := make([]models.RewardRule, 0, len(rules))
	for _, r := range sortedByThreshold(rules) {
		if total >= r.Threshold {
			got = append(got, r)
		}
	}
	return got
}

// NextUnmet returns how many points are missing until the next reward and
// the rule itself. ok is false when every threshold is already met (or the
// rule set is empty), the terminal "max reached" state.
func NextUnmet(total int, rules []models.RewardRule) (gap int, rule models.RewardRule, ok bool) {
	for _, r := range sortedByThreshold(rules) {
		if total < r.Threshold {
			return r.Threshold - total, r, true
		}
	}
	return 0, models.RewardRule{}, false
}

func sortedByThreshold(rules []models.RewardRule) []models.RewardRule {
	out := make([]models.RewardRule, len(rules))
	copy(out, rules)
	sort.Slice(out, func(i, j int) bool { return out[i].Threshold < out[j].Threshold })
	return out
}
