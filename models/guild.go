package models

import "time"

// Guild privacy settings.
const (
	GuildPrivacyPublic         = "public"
	GuildPrivacyPasswordLocked = "password_locked"
)

// PlayerGuild is a player-created guild, distinct from a Discord server.
// Members always contains the owner and never contains duplicates.
type PlayerGuild struct {
	OwnerID     int64     `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	ImageURL    string    `json:"image_url"`
	Privacy     string    `json:"privacy"`
	Password    string    `json:"password,omitempty"`
	Members     []int64   `json:"members"`
	MemberCap   *int      `json:"member_cap"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasMember reports whether userID is in the members list.
func (g *PlayerGuild) HasMember(userID int64) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the member cap is set and reached.
func (g *PlayerGuild) IsFull() bool {
	return g.MemberCap != nil && len(g.Members) >= *g.MemberCap
}

// Clone returns a deep copy so callers can read guild data without
// holding the manager lock.
func (g *PlayerGuild) Clone() *PlayerGuild {
	out := *g
	out.Members = append([]int64(nil), g.Members...)
	if g.MemberCap != nil {
		cap := *g.MemberCap
		out.MemberCap = &cap
	}
	return &out
}
