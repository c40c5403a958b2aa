package repositories

import (
	"context"
	"time"

	"riskdesk/internal/adapters/persistence/models"
)

// SessionRepository defines client session repository interface
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.ClientSession, error)
	List(ctx context.Context) ([]*models.ClientSession, error)
	Upsert(ctx context.Context, session *models.ClientSession) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}
