package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidInterval is returned when an opening-hours interval does not
// satisfy from_hour < to_hour.
var ErrInvalidInterval = errors.New("from_hour must be less than to_hour")

// ErrInvalidWeekday is returned when a weekday falls outside 1 (Monday)
// through 7 (Sunday).
var ErrInvalidWeekday = errors.New("weekday must be between 1 and 7")

// OpeningHours is one weekly opening interval. A row is fully identified
// by its (weekday, from_hour, to_hour) triple and is shared across stores
// through the store_opening_hours join table; writes go through
// get-or-create resolution so repeated triples converge to one row.
// Hours are stored as normalized "HH:MM:SS" strings, which compare
// correctly as text.
type OpeningHours struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Weekday   int       `gorm:"not null;uniqueIndex:idx_opening_hours_interval" json:"weekday"` // 1=Monday, 7=Sunday
	FromHour  string    `gorm:"not null;uniqueIndex:idx_opening_hours_interval" json:"from_hour"`
	ToHour    string    `gorm:"not null;uniqueIndex:idx_opening_hours_interval" json:"to_hour"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *OpeningHours) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Validate checks the interval invariants. Hours must already be
// normalized to "HH:MM:SS".
func (o *OpeningHours) Validate() error {
	if o.Weekday < 1 || o.Weekday > 7 {
		return ErrInvalidWeekday
	}
	if o.FromHour >= o.ToHour {
		return ErrInvalidInterval
	}
	return nil
}
