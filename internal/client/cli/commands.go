package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for the account fields and creates the account. The new
// user is logged in on success.
func (a *App) Register(ctx context.Context) error {
	req := &models.RegisterRequest{}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter user name", &req.UserName},
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter phone", &req.Phone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	req.Password = password

	if err := a.api.Register(ctx, req); err != nil {
		return err
	}

	a.setUserName(req.UserName)
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, userName, password); err != nil {
		return err
	}

	a.setUserName(userName)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the token. Tokens are stateless, so nothing is sent to
// the server.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.setUserName("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.api.Users(ctx)
	if err != nil {
		return err
	}
	printUsers(a.out, users)
	return nil
}

func (a *App) User(ctx context.Context, userName string) error {
	u, err := a.api.User(ctx, userName)
	if err != nil {
		return err
	}
	printProfile(a.out, u)
	return nil
}

// Send prompts for the recipient (unless given) and a multi-line body.
func (a *App) Send(ctx context.Context, toUserName string) error {
	if toUserName == "" {
		v, err := getSimpleText(a.reader, "Enter recipient", a.out)
		if err != nil {
			return err
		}
		toUserName = v
	}

	body, err := getMultiline(a.reader, "Enter message", a.out)
	if err != nil {
		return err
	}

	m, err := a.api.Send(ctx, toUserName, body)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Message %d sent to %s\n", m.ID, m.ToUserName)
	return nil
}

func (a *App) Inbox(ctx context.Context) error {
	msgs, err := a.api.Inbox(ctx, a.currentUser())
	if err != nil {
		return err
	}
	printMailbox(a.out, msgs, true)
	return nil
}

func (a *App) Outbox(ctx context.Context) error {
	msgs, err := a.api.Outbox(ctx, a.currentUser())
	if err != nil {
		return err
	}
	printMailbox(a.out, msgs, false)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	m, err := a.api.Message(ctx, n)
	if err != nil {
		return err
	}
	printMessage(a.out, m)
	return nil
}

// Read marks a received message read.
func (a *App) Read(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	r, err := a.api.MarkRead(ctx, n)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Message %d marked read at %s\n", r.ID, formatTime(r.ReadAt))
	return nil
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid message id %q", s)
	}
	return n, nil
}
