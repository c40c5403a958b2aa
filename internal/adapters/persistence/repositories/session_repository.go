package repositories

import (
	"context"
	"time"

	"riskdesk/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new client session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Get gets a client session by its hashed id
func (r *sessionRepository) Get(ctx context.Context, id string) (*models.ClientSession, error) {
	var session models.ClientSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List gets every persisted client session
func (r *sessionRepository) List(ctx context.Context) ([]*models.ClientSession, error) {
	var sessions []*models.ClientSession
	if err := r.db.WithContext(ctx).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Upsert replaces all fields of a client session in one statement
func (r *sessionRepository) Upsert(ctx context.Context, session *models.ClientSession) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "role", "username", "expires_at", "updated_at"}),
		}).
		Create(session).Error
}

// Delete removes a client session; deleting a missing session is not an error
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ClientSession{}).Error
}

// DeleteExpired removes sessions whose upstream token expired (cleanup job)
// and returns their ids
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ClientSession{}).
			Where("expires_at IS NOT NULL AND expires_at <= ?", now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.ClientSession{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
