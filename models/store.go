package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the aggregate root: a name, an optional address reference and
// a set of shared opening-hours intervals.
type Store struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	AddressID    *uuid.UUID     `gorm:"type:uuid;index" json:"-"`
	Address      *Address       `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE" json:"address"`
	OpeningHours []OpeningHours `gorm:"many2many:store_opening_hours" json:"opening_hours"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
