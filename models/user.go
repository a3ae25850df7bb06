package models

import "time"

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Group memberships in join order, loaded from group_members.
	Groups []int `json:"groups,omitempty"`

	// Aggregates owned exclusively by the recompute job. GroupStats is keyed
	// by group ID, so a stat can never drift out of step with the membership
	// it belongs to.
	GroupStats  map[int]GroupStat `json:"group_stats,omitempty"`
	TotalPoints int               `json:"total_points"`
	MaxPoints   int               `json:"max_points"`
}

// StatsInGroup returns the user's aggregated stats for one group. A user
// without a computed entry for the group (joined after the last recompute,
// or never recomputed at all) gets the zero record.
func (u *User) StatsInGroup(groupID int) GroupStat {
	if u.GroupStats == nil {
		return GroupStat{}
	}
	return u.GroupStats[groupID]
}
