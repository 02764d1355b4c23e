package model

import (
	"time"

	"gorm.io/datatypes"
)

// SavedSession is the suspended-attempt snapshot, one row per user.
// State is the full serialized attempt (questions, presentation
// mappings, selections, position, countdown); restoring it byte-exact
// is what keeps in-flight answers valid across a resume.
type SavedSession struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex"`
	State     datatypes.JSON `json:"state" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
