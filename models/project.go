package models

import (
	"time"
)

// Project is the downstream entity a closed-won lead converts into.
type Project struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	ProjectID    string    `gorm:"not null;uniqueIndex" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	ContactEmail string    `gorm:"not null" json:"contact_email"`
	Description  string    `json:"description"`
	Source       string    `json:"source"` // e.g. "lead"
	LeadID       string    `gorm:"index" json:"lead_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
