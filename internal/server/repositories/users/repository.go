package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userName string, at time.Time) error
	List(ctx context.Context) ([]models.UserSummary, error)
}
