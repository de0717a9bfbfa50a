package model

import (
	"time"

	"gorm.io/gorm"
)

// Team is a tenant. A destroyed team is soft deleted; its slug stays on
// the row so a later team is free to take it, and a restore can bring
// the row back.
type Team struct {
	ID        int            `json:"id"`
	UUID      string         `json:"uuid"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
