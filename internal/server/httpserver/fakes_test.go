package httpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

const testSecret = "test-secret"

// store is a tiny in-memory backend shared by the fake services.
type store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	password map[string]string
	messages []*models.Message
	clock    time.Time

	failWith error
}

func newStore() *store {
	return &store{
		users:    map[string]*models.User{},
		password: map[string]string{},
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) summary(name string) models.UserSummary {
	u := s.users[name]
	return models.UserSummary{UserName: u.UserName, FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone}
}

type fakeUsers struct{ st *store }

func (f fakeUsers) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.failWith != nil {
		return nil, f.st.failWith
	}
	name := strings.TrimSpace(req.UserName)
	if name == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrorValidation)
	}
	if _, ok := f.st.users[name]; ok {
		return nil, fmt.Errorf("%w: username '%s'", common.ErrorAlreadyExists, name)
	}
	now := f.st.tick()
	u := &models.User{UserName: name, FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone, JoinAt: now, LastLoginAt: now}
	f.st.users[name] = u
	f.st.password[name] = req.Password
	return u.Profile(), nil
}

func (f fakeUsers) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	f.st.mu.Lock()
	name := strings.TrimSpace(req.UserName)
	pw, ok := f.st.password[name]
	f.st.mu.Unlock()
	if !ok || pw != req.Password {
		return "", common.ErrorInvalidCredentials
	}
	return f.IssueToken(name)
}

func (f fakeUsers) IssueToken(userName string) (string, error) {
	return auth.GenerateToken(userName, []byte(testSecret), 0)
}

func (f fakeUsers) All(ctx context.Context) ([]models.UserSummary, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.failWith != nil {
		return nil, f.st.failWith
	}
	out := []models.UserSummary{}
	for name := range f.st.users {
		out = append(out, f.st.summary(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserName < out[j].UserName })
	return out, nil
}

func (f fakeUsers) Get(ctx context.Context, userName string) (*models.UserProfile, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	u, ok := f.st.users[userName]
	if !ok {
		return nil, fmt.Errorf("%w: username '%s'", common.ErrorNotFound, userName)
	}
	return u.Profile(), nil
}

func (f fakeUsers) MessagesFrom(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	return f.mailbox(userName, true)
}

func (f fakeUsers) MessagesTo(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	return f.mailbox(userName, false)
}

func (f fakeUsers) mailbox(userName string, sent bool) ([]models.MailboxMessage, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var out []models.MailboxMessage
	for _, m := range f.st.messages {
		row := models.MailboxMessage{ID: m.ID, Body: m.Body, SentAt: m.SentAt, ReadAt: m.ReadAt}
		switch {
		case sent && m.FromUserName == userName:
			to := f.st.summary(m.ToUserName)
			row.ToUser = &to
		case !sent && m.ToUserName == userName:
			from := f.st.summary(m.FromUserName)
			row.FromUser = &from
		default:
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeMessages struct{ st *store }

func (f fakeMessages) Create(ctx context.Context, req *models.NewMessage) (*models.Message, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if strings.TrimSpace(req.ToUserName) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrorValidation)
	}
	if _, ok := f.st.users[req.ToUserName]; !ok {
		return nil, fmt.Errorf("%w: recipient '%s'", common.ErrorNotFound, req.ToUserName)
	}
	m := &models.Message{
		ID:           int64(len(f.st.messages) + 1),
		FromUserName: req.FromUserName,
		ToUserName:   req.ToUserName,
		Body:         req.Body,
		SentAt:       f.st.tick(),
	}
	f.st.messages = append(f.st.messages, m)
	cp := *m
	return &cp, nil
}

func (f fakeMessages) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if id < 1 || int(id) > len(f.st.messages) {
		return nil, fmt.Errorf("%w: message %d", common.ErrorNotFound, id)
	}
	m := f.st.messages[id-1]
	return &models.MessageDetail{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		ReadAt:   m.ReadAt,
		FromUser: f.st.summary(m.FromUserName),
		ToUser:   f.st.summary(m.ToUserName),
	}, nil
}

func (f fakeMessages) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if id < 1 || int(id) > len(f.st.messages) {
		return nil, fmt.Errorf("%w: message %d", common.ErrorNotFound, id)
	}
	at := f.st.tick()
	f.st.messages[id-1].ReadAt = &at
	return &models.ReadReceipt{ID: id, ReadAt: at}, nil
}
