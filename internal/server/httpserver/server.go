// Package httpserver exposes the user directory and the message ledger as
// an HTTP JSON API on a chi router.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

// UserService is the part of the user directory the API needs.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	IssueToken(userName string) (string, error)
	All(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, userName string) (*models.UserProfile, error)
	MessagesFrom(ctx context.Context, userName string) ([]models.MailboxMessage, error)
	MessagesTo(ctx context.Context, userName string) ([]models.MailboxMessage, error)
}

// MessageService is the part of the message ledger the API needs.
type MessageService interface {
	Create(ctx context.Context, req *models.NewMessage) (*models.Message, error)
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error)
}

type HTTPServer struct {
	address   string
	users     UserService
	messages  MessageService
	logger    logging.Logger
	metrics   *Metrics
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ms MessageService, m *Metrics, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		messages:  ms,
		metrics:   m,
		jwtSecret: []byte(secretKey),
	}
}

// Routes builds the router. Exposed for tests.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(s.metrics.Instrument)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/ping", s.ping)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/register", s.register)
	})
	r.Post("/login", s.login)
	r.Post("/register", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.loggedIn)

		r.Get("/users", s.listUsers)
		r.Get("/users/{username}", s.getUser)
		r.With(s.correctUser).Get("/users/{username}/to", s.messagesTo)
		r.With(s.correctUser).Get("/users/{username}/from", s.messagesFrom)

		r.Post("/messages", s.createMessage)
		r.With(s.messageParty).Get("/messages/{id}", s.getMessage)
		r.With(s.messageRecipient).Post("/messages/{id}/read", s.markRead)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
