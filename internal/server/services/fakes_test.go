package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/dbx"
	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/messages"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:        "k",
		BcryptWorkFactor: bcrypt.MinCost,
	}
}

func newUserService(db *sql.DB, rm *fakeManager) *UserService {
	s := NewUserService(db, rm, testConfig(), logging.Nop{})
	s.now = func() time.Time { return fixedNow }
	return s
}

func newMessageService(db *sql.DB, rm *fakeManager) *MessageService {
	s := NewMessageService(db, rm, logging.Nop{})
	s.now = func() time.Time { return fixedNow }
	return s
}

// --- fake users repo (in memory) ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]models.User

	createErr error
	getErr    error
	updateErr error
	listErr   error

	getCalls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.users[u.UserName] = *u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, userName string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[userName]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLoginAt = at
	f.users[userName] = u
	return nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.UserSummary, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, models.UserSummary{UserName: u.UserName, FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	return out, nil
}

// --- fake messages repo ---

type fakeMessagesRepo struct {
	created   []models.Message
	createErr error

	detail    *models.MessageDetail
	detailErr error

	markErr error
	markAt  time.Time
	markID  int64

	list    []models.MailboxMessage
	listErr error
	listFor string
}

func (f *fakeMessagesRepo) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	m.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *m)
	return m, nil
}

func (f *fakeMessagesRepo) GetDetail(ctx context.Context, id int64) (*models.MessageDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeMessagesRepo) MarkRead(ctx context.Context, id int64, at time.Time) (*models.ReadReceipt, error) {
	if f.markErr != nil {
		return nil, f.markErr
	}
	f.markID, f.markAt = id, at
	return &models.ReadReceipt{ID: id, ReadAt: at}, nil
}

func (f *fakeMessagesRepo) ListFrom(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	f.listFor = "from:" + userName
	return f.list, f.listErr
}

func (f *fakeMessagesRepo) ListTo(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	f.listFor = "to:" + userName
	return f.list, f.listErr
}

// --- fake repository manager ---

type fakeManager struct {
	users    *fakeUsersRepo
	messages *fakeMessagesRepo

	usersBoundTo    []dbx.DBTX
	messagesBoundTo []dbx.DBTX
}

func newFakeManager() *fakeManager {
	return &fakeManager{users: newFakeUsersRepo(), messages: &fakeMessagesRepo{}}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeManager) Users(db dbx.DBTX) users.Repository {
	m.usersBoundTo = append(m.usersBoundTo, db)
	return m.users
}

func (m *fakeManager) Messages(db dbx.DBTX) messages.Repository {
	m.messagesBoundTo = append(m.messagesBoundTo, db)
	return m.messages
}
