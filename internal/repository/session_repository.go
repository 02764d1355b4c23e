package repository

import (
	"errors"

	"github.com/vuminh/examplatform/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository is the save/load/clear contract for suspended
// attempts. One snapshot per user; Save upserts, Load returns
// (nil, nil) when there is nothing saved.
type SessionRepository interface {
	Save(session *model.SavedSession) error
	Load(userID uint) (*model.SavedSession, error)
	Clear(userID uint) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Save(session *model.SavedSession) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(session).Error
}

func (r *sessionRepository) Load(userID uint) (*model.SavedSession, error) {
	var session model.SavedSession
	err := r.db.Where("user_id = ?", userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Clear(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.SavedSession{}).Error
}
