package models

import "time"

type Group struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsPublic  bool      `json:"is_public"`
	FounderID int       `json:"founder_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated by the service layer when requested, not stored on the row.
	MemberCount int `json:"member_count,omitempty"`
}
