package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) LoggedIn() bool { return c.getToken() != "" }

func (c *HTTPClient) Logout() { c.setToken("") }

// do sends in as JSON (when non-nil) and decodes a 2xx body into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, authenticated bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.getToken()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var e struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error.Message != "" {
		msg = e.Error.Message
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/ping", false, nil, &out); err != nil {
		return err
	}
	if out.Status != "OK" {
		return fmt.Errorf("%w: unexpected status %q", ErrUnavailable, out.Status)
	}
	return nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates the account and keeps the returned token.
func (c *HTTPClient) Register(ctx context.Context, in *models.RegisterRequest) error {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", false, in, &out); err != nil {
		return err
	}
	c.setToken(out.Token)
	return nil
}

// Login authenticates and keeps the returned token.
func (c *HTTPClient) Login(ctx context.Context, userName, password string) error {
	var out tokenResponse
	in := &models.LoginRequest{UserName: userName, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, in, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return errors.New("empty token in response")
	}
	c.setToken(out.Token)
	return nil
}

func (c *HTTPClient) Users(ctx context.Context) ([]models.UserSummary, error) {
	var out struct {
		Users []models.UserSummary `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", true, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *HTTPClient) User(ctx context.Context, userName string) (*models.UserProfile, error) {
	var out struct {
		User *models.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userName), true, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Inbox(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	return c.mailbox(ctx, userName, "to")
}

func (c *HTTPClient) Outbox(ctx context.Context, userName string) ([]models.MailboxMessage, error) {
	return c.mailbox(ctx, userName, "from")
}

func (c *HTTPClient) mailbox(ctx context.Context, userName, box string) ([]models.MailboxMessage, error) {
	var out struct {
		Messages []models.MailboxMessage `json:"messages"`
	}
	path := "/users/" + url.PathEscape(userName) + "/" + box
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HTTPClient) Send(ctx context.Context, toUserName, body string) (*models.Message, error) {
	in := &models.NewMessage{ToUserName: toUserName, Body: body}
	var out struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", true, in, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

func (c *HTTPClient) Message(ctx context.Context, id int64) (*models.MessageDetail, error) {
	var out struct {
		Message *models.MessageDetail `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", id), true, nil, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

func (c *HTTPClient) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	var out struct {
		Message *models.ReadReceipt `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%d/read", id), true, nil, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}
