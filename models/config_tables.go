package models

// CategoryDef maps an activity category to the points one check-in earns.
// Tips is descriptive text shown on the check-in page, not load-bearing.
type CategoryDef struct {
	Name   string `json:"category"`
	Points int    `json:"points"`
	Tips   string `json:"tips"`
}

// RewardRule unlocks a reward once a participant's total reaches Threshold.
type RewardRule struct {
	Threshold int    `json:"threshold"`
	Reward    string `json:"reward"`
}
