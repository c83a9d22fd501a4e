package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetDetail(ctx context.Context, id int64) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64, at time.Time) (*models.ReadReceipt, error)
	ListFrom(ctx context.Context, userName string) ([]models.MailboxMessage, error)
	ListTo(ctx context.Context, userName string) ([]models.MailboxMessage, error)
}
