package models

import "time"

// GroupStat is one user's aggregated tipping record within one group.
type GroupStat struct {
	Total    int `json:"total"`
	Correct  int `json:"correct"`
	Tendency int `json:"tendency"`
	Wrong    int `json:"wrong"`
}

// UserFailure records one user the recompute job could not process.
type UserFailure struct {
	UserID int    `json:"user_id"`
	Reason string `json:"reason"`
}

// RecomputeReport summarizes one full recompute run. It is returned to the
// caller instead of being scattered over log lines so operational tooling can
// act on it.
type RecomputeReport struct {
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []UserFailure `json:"failures,omitempty"`
	Duration  time.Duration `json:"duration"`
}
