package model

import "time"

// Membership links a user to a team with a role. A user holds at most
// one membership per team, enforced by the unique index on
// (user_id, team_id).
type Membership struct {
	ID        int    `json:"id"`
	UUID      string `json:"uuid"`
	UserID    int    `json:"user_id" gorm:"uniqueIndex:idx_memberships_user_team"`
	TeamID    int    `json:"team_id" gorm:"uniqueIndex:idx_memberships_user_team"`
	Role      Role   `json:"role"`
	User      *User  `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Team      *Team  `json:"team,omitempty" gorm:"foreignKey:TeamID;references:ID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
