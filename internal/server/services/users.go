package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/config"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/dmitrijs2005/messagely/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once and compared against when the user does not
// exist, so unknown usernames and wrong passwords take the same time.
const dummyPassword = "messagely-dummy-password"

// UserService is the user directory:
//   - Register / Login: create users and issue tokens
//   - Authenticate: anti-enumeration credential check
//   - All / Get: public profiles
//   - MessagesFrom / MessagesTo: a user's outbox and inbox
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	hasher                *auth.PasswordHasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	logger                logging.Logger
	now                   func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		hasher:                auth.NewPasswordHasher(cfg.BcryptWorkFactor),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		logger:                logger.With("module", "users"),
		now:                   time.Now,
	}
}

// Register validates and stores a new user. Both timestamps are set to the
// creation time. A taken username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error) {
	in := *req
	in.UserName = strings.TrimSpace(in.UserName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)

	// the password is hashed as given but must not be blank
	check := in
	check.Password = strings.TrimSpace(in.Password)
	if err := validateStruct(&check); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", common.ErrorValidation)
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now()
	user := &models.User{
		UserName:     in.UserName,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		JoinAt:       now,
		LastLoginAt:  now,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "username", u.UserName)
	return u.Profile(), nil
}

// Authenticate reports whether password matches the stored hash for
// userName. It never fails: storage errors are logged and count as a
// mismatch.
func (s *UserService) Authenticate(ctx context.Context, userName, password string) bool {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return false
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "user lookup failed", "username", userName, "error", err)
		}
		s.hasher.Verify(password, s.getDummyHash())
		return false
	}

	return s.hasher.Verify(password, user.PasswordHash)
}

// UpdateLoginTimestamp sets last_login_at to now.
func (s *UserService) UpdateLoginTimestamp(ctx context.Context, userName string) error {
	userName = strings.TrimSpace(userName)
	if err := s.repomanager.Users(s.db).UpdateLastLogin(ctx, userName, s.now()); err != nil {
		return fmt.Errorf("error updating login timestamp: %w", err)
	}
	return nil
}

// Login authenticates the user, records the login and returns a token.
// Bad credentials yield common.ErrorInvalidCredentials without saying which
// part was wrong.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	userName := strings.TrimSpace(req.UserName)

	if !s.Authenticate(ctx, userName, req.Password) {
		return "", common.ErrorInvalidCredentials
	}

	if err := s.UpdateLoginTimestamp(ctx, userName); err != nil {
		return "", err
	}

	return s.IssueToken(userName)
}

// IssueToken signs a bearer token for userName.
func (s *UserService) IssueToken(userName string) (string, error) {
	token, err := auth.GenerateToken(userName, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// All lists every user ordered by username.
func (s *UserService) All(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Get returns the public profile of userName.
func (s *UserService) Get(ctx context.Context, userName string) (*models.UserProfile, error) {
	userName, err := requireUserName(userName)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: username '%s'", common.ErrorNotFound, userName)
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return user.Profile(), nil
}

// MessagesFrom returns messages sent by userName, oldest first.
func (s *UserService) MessagesFrom(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	userName, err := requireUserName(userName)
	if err != nil {
		return nil, err
	}

	msgs, err := s.repomanager.Messages(s.db).ListFrom(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("error listing sent messages: %w", err)
	}
	return msgs, nil
}

// MessagesTo returns messages received by userName, oldest first.
func (s *UserService) MessagesTo(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	userName, err := requireUserName(userName)
	if err != nil {
		return nil, err
	}

	msgs, err := s.repomanager.Messages(s.db).ListTo(ctx, userName)
	if err != nil {
		return nil, fmt.Errorf("error listing received messages: %w", err)
	}
	return msgs, nil
}

// --- helpers below ---

func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error(context.Background(), "dummy hash failed", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func requireUserName(userName string) (string, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return "", fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	return userName, nil
}
