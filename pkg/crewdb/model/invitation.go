package model

import "time"

// Invitation is a single-use admission token for a team. Only the
// digest of the raw token is stored; the raw token exists once, in the
// issuer's return value. An invitation with a nil ExpiresAt never
// expires. UsedAt is set exactly once, on redemption.
type Invitation struct {
	ID          int        `json:"id"`
	UUID        string     `json:"uuid"`
	TeamID      int        `json:"team_id"`
	TokenDigest string     `json:"-" gorm:"uniqueIndex"`
	Role        Role       `json:"role"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedByID int        `json:"created_by_id"`
	UsedByID    *int       `json:"used_by_id,omitempty"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	Team        *Team      `json:"team,omitempty" gorm:"foreignKey:TeamID;references:ID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsUsed indicates whether the invitation has already been redeemed.
func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}

// IsExpired determines whether the invitation's expiry has passed. An
// invitation without an expiry never expires.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// IsPending returns true if the invitation can still be redeemed.
func (i *Invitation) IsPending(now time.Time) bool {
	return !i.IsUsed() && !i.IsExpired(now)
}
