package models

import (
	"time"

	"github.com/lennartwolf/tippliga/scoring"
)

// Tip is one user's predicted scoreline for one match within one group. A
// user holds at most one tip per (match, group) pair, enforced by a unique
// constraint.
type Tip struct {
	ID        int `json:"id"`
	UserID    int `json:"user_id"`
	GroupID   int `json:"group_id"`
	MatchID   int `json:"match_id"`
	HomeGoals int `json:"home_goals"`
	AwayGoals int `json:"away_goals"`
	// Outcome is always derived from the predicted scoreline on write; the
	// two never diverge.
	Outcome   scoring.Outcome `json:"outcome"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Predicted returns the tip's scoreline in scoring terms.
func (t *Tip) Predicted() scoring.Scoreline {
	return scoring.Scoreline{Home: t.HomeGoals, Away: t.AwayGoals}
}
