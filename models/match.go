package models

import "time"

type Match struct {
	ID        int       `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals *int      `json:"home_goals,omitempty"`
	AwayGoals *int      `json:"away_goals,omitempty"`
	Kickoff   time.Time `json:"kickoff"`
	// Started is set once the fixture has kicked off; from then on tips are
	// locked and the match becomes eligible for scoring.
	Started bool `json:"started"`
	// IsDummy marks placeholder fixtures (byes, test entries) that are
	// excluded from every count.
	IsDummy bool `json:"is_dummy"`
}

// Scoreable reports whether tips on this match may be scored: the fixture has
// started, is not a placeholder, and carries a full result.
func (m *Match) Scoreable() bool {
	return m.Started && !m.IsDummy && m.HomeGoals != nil && m.AwayGoals != nil
}
