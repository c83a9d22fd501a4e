package client

import (
	"context"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, userName, password string) error
	Logout()
	LoggedIn() bool

	Users(ctx context.Context) ([]models.UserSummary, error)
	User(ctx context.Context, userName string) (*models.UserProfile, error)
	Inbox(ctx context.Context, userName string) ([]models.MailboxMessage, error)
	Outbox(ctx context.Context, userName string) ([]models.MailboxMessage, error)

	Send(ctx context.Context, toUserName, body string) (*models.Message, error)
	Message(ctx context.Context, id int64) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error)
}
