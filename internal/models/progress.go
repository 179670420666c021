package models

import "time"

// StreakRecord is the persisted daily engagement state
type StreakRecord struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *time.Time
}

// ProgressSnapshot is a read-only view of the learner's progress
type ProgressSnapshot struct {
	Unlocked         []string   `json:"unlocked"`
	Cursor           string     `json:"cursor"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
}
