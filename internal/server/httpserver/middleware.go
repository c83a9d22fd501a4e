package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/auth"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ctxKey string

const (
	userNameKey  ctxKey = "username"
	requestIDKey ctxKey = "request_id"
	messageKey   ctxKey = "message"
)

func userNameFrom(ctx context.Context) string {
	v, _ := ctx.Value(userNameKey).(string)
	return v
}

func requestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func messageFrom(ctx context.Context) *models.MessageDetail {
	v, _ := ctx.Value(messageKey).(*models.MessageDetail)
	return v
}

// requestID reuses an incoming X-Request-ID or assigns a new one, and echoes
// it on the response.
func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", requestIDFrom(r.Context()),
		)
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get(common.AuthorizationHeaderName))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// loggedIn requires a valid bearer token and stores its username in the
// request context.
func (s *HTTPServer) loggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userName, err := auth.GetUserNameFromToken(token, s.jwtSecret)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userNameKey, userName)))
	})
}

// correctUser requires the caller to be the {username} in the path.
func (s *HTTPServer) correctUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.CorrectUser(userNameFrom(r.Context()), chi.URLParam(r, "username")); err != nil {
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// messageParty loads {id} and requires the caller to be its sender or
// recipient.
func (s *HTTPServer) messageParty(next http.Handler) http.Handler {
	return s.messageGuard(auth.MessageParty, next)
}

// messageRecipient loads {id} and requires the caller to be its recipient.
func (s *HTTPServer) messageRecipient(next http.Handler) http.Handler {
	return s.messageGuard(auth.MessageRecipient, next)
}

func (s *HTTPServer) messageGuard(allow func(string, *models.MessageDetail) error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			s.writeError(w, r, http.StatusBadRequest, "invalid message id")
			return
		}

		msg, err := s.messages.Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		if err := allow(userNameFrom(r.Context()), msg); err != nil {
			s.fail(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), messageKey, msg)))
	})
}
