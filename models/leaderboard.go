package models

// LeaderboardEntry is one row of a group's ranked standings.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	UserID    int     `json:"user_id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Points    int     `json:"points"`
	Correct   int     `json:"correct"`
	Tendency  int     `json:"tendency"`
	Wrong     int     `json:"wrong"`
}
