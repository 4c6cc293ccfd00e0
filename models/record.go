package models

import (
	"time"
)

// StoreRecord is the persistence row backing the real-time store. Payload is
// the raw JSON document for one record of an entity collection; keeping it
// loosely typed is what lets older leads live next to newer ones without a
// schema migration.
type StoreRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Entity    string    `gorm:"not null;index:idx_entity_record,unique,priority:1" json:"entity"`
	RecordID  string    `gorm:"not null;index:idx_entity_record,unique,priority:2" json:"record_id"`
	Payload   string    `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
