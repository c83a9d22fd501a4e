package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", common.ErrorValidation, err)
	}
	return nil
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "OK"})
}

// login: {username, password} => {token}
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), &req)
	if err != nil {
		s.metrics.Login(false)
		s.fail(w, r, err)
		return
	}
	s.metrics.Login(true)

	s.writeJSON(w, r, http.StatusOK, tokenResponse{Token: token})
}

// register: {username, password, first_name, last_name, phone} => {token}.
// The new user is logged in straight away.
func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.Registered()

	token, err := s.users.IssueToken(user.UserName)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.All(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"users": users})
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"user": user})
}

func (s *HTTPServer) messagesTo(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.users.MessagesTo(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeMailbox(w, r, msgs)
}

func (s *HTTPServer) messagesFrom(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.users.MessagesFrom(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeMailbox(w, r, msgs)
}

func (s *HTTPServer) writeMailbox(w http.ResponseWriter, r *http.Request, msgs []models.MailboxMessage) {
	if msgs == nil {
		msgs = []models.MailboxMessage{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"messages": msgs})
}

// createMessage: {to_username, body} => {message}. The sender is the caller.
func (s *HTTPServer) createMessage(w http.ResponseWriter, r *http.Request) {
	var req models.NewMessage
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.FromUserName = userNameFrom(r.Context())

	msg, err := s.messages.Create(r.Context(), &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.MessageSent()

	s.writeJSON(w, r, http.StatusOK, map[string]any{"message": msg})
}

// getMessage writes the message loaded by the messageParty guard.
func (s *HTTPServer) getMessage(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{"message": messageFrom(r.Context())})
}

func (s *HTTPServer) markRead(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.messages.MarkRead(r.Context(), messageFrom(r.Context()).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.MessageRead()

	s.writeJSON(w, r, http.StatusOK, map[string]any{"message": receipt})
}
