package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
)

// MessageService is the message ledger. Messages are append-only; the only
// mutation is marking one read.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "messages"),
		now:         time.Now,
	}
}

// Create stores a message with sent_at set to now and read_at unset. The
// recipient must exist. Usernames are trimmed, the body is kept as sent.
func (s *MessageService) Create(ctx context.Context, req *models.NewMessage) (*models.Message, error) {
	in := *req
	in.FromUserName = strings.TrimSpace(in.FromUserName)
	in.ToUserName = strings.TrimSpace(in.ToUserName)

	// the body is stored verbatim but must not be blank
	check := in
	check.Body = strings.TrimSpace(in.Body)
	if err := validateStruct(&check); err != nil {
		return nil, err
	}

	msg := &models.Message{
		FromUserName: in.FromUserName,
		ToUserName:   in.ToUserName,
		Body:         in.Body,
		SentAt:       s.now(),
	}

	var created *models.Message
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).GetUserByLogin(ctx, msg.ToUserName); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: recipient '%s'", common.ErrorNotFound, msg.ToUserName)
			}
			return fmt.Errorf("error looking up recipient: %w", err)
		}

		m, err := s.repomanager.Messages(tx).Create(ctx, msg)
		if err != nil {
			return fmt.Errorf("error creating message: %w", err)
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "message sent", "id", created.ID, "from", created.FromUserName, "to", created.ToUserName)
	return created, nil
}

// Get returns the message with both parties expanded.
func (s *MessageService) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	msg, err := s.repomanager.Messages(s.db).GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: message %d", common.ErrorNotFound, id)
		}
		return nil, fmt.Errorf("error getting message: %w", err)
	}
	return msg, nil
}

// MarkRead sets read_at to now. Repeated calls overwrite the timestamp.
func (s *MessageService) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	receipt, err := s.repomanager.Messages(s.db).MarkRead(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: message %d", common.ErrorNotFound, id)
		}
		return nil, fmt.Errorf("error marking message read: %w", err)
	}
	return receipt, nil
}
