// Package messages provides the PostgreSQL-backed message repository.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// PostgresRepository stores messages over dbx.DBTX (either *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts msg and fills in its id. A sender or recipient that does not
// exist trips the foreign key and yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (from_username, to_username, body, sent_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query, msg.FromUserName, msg.ToUserName, msg.Body, msg.SentAt).Scan(&msg.ID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: unknown sender or recipient", common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

// GetDetail returns the message with both parties expanded.
func (r *PostgresRepository) GetDetail(ctx context.Context, id int64) (*models.MessageDetail, error) {
	query := `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       f.username, f.first_name, f.last_name, f.phone,
		       t.username, t.first_name, t.last_name, t.phone
		FROM messages AS m
		JOIN users AS f ON m.from_username = f.username
		JOIN users AS t ON m.to_username = t.username
		WHERE m.id = $1
	`

	d := &models.MessageDetail{}
	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Body, &d.SentAt, &readAt,
		&d.FromUser.UserName, &d.FromUser.FirstName, &d.FromUser.LastName, &d.FromUser.Phone,
		&d.ToUser.UserName, &d.ToUser.FirstName, &d.ToUser.LastName, &d.ToUser.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	d.ReadAt = dbx.TimePtr(readAt)

	return d, nil
}

// MarkRead sets read_at. Calling it again overwrites the timestamp.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64, at time.Time) (*models.ReadReceipt, error) {
	query := `
		UPDATE messages SET read_at = $2
		WHERE id = $1
		RETURNING id, read_at
	`

	receipt := &models.ReadReceipt{}
	if err := r.db.QueryRowContext(ctx, query, id, at).Scan(&receipt.ID, &receipt.ReadAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return receipt, nil
}

// ListFrom returns messages sent by userName with the recipient expanded,
// oldest first.
func (r *PostgresRepository) ListFrom(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	query := `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.to_username = u.username
		WHERE m.from_username = $1
		ORDER BY m.sent_at, m.id
	`
	return r.list(ctx, query, userName, func(m *models.MailboxMessage, u *models.UserSummary) { m.ToUser = u })
}

// ListTo returns messages received by userName with the sender expanded,
// oldest first.
func (r *PostgresRepository) ListTo(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	query := `
		SELECT m.id, m.body, m.sent_at, m.read_at,
		       u.username, u.first_name, u.last_name, u.phone
		FROM messages AS m
		JOIN users AS u ON m.from_username = u.username
		WHERE m.to_username = $1
		ORDER BY m.sent_at, m.id
	`
	return r.list(ctx, query, userName, func(m *models.MailboxMessage, u *models.UserSummary) { m.FromUser = u })
}

func (r *PostgresRepository) list(ctx context.Context, query, userName string,
	attach func(*models.MailboxMessage, *models.UserSummary)) ([]models.MailboxMessage, error) {

	rows, err := r.db.QueryContext(ctx, query, userName)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.MailboxMessage, 0)
	for rows.Next() {
		var (
			m      models.MailboxMessage
			u      models.UserSummary
			readAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.Body, &m.SentAt, &readAt,
			&u.UserName, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.ReadAt = dbx.TimePtr(readAt)
		attach(&m, &u)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
