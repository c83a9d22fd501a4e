package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/messagely/internal/client/client"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context) error
	User(ctx context.Context, userName string) error
	Send(ctx context.Context, toUserName string) error
	Inbox(ctx context.Context) error
	Outbox(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Read(ctx context.Context, id string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: users, user <name>, send [to], inbox, outbox, show <id>, read <id>, logout, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Errors returned by commands are printed and the loop
// carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "messagely %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
			continue

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)

		case "logout", "users", "user", "send", "inbox", "outbox", "show", "read":
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please log in first")
				continue
			}
			cmdErr = dispatchLoggedIn(ctx, a, cmd, arg, w)

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", describe(cmdErr))
		}
	}
}

func dispatchLoggedIn(ctx context.Context, a execIface, cmd, arg string, w io.Writer) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "users":
		return a.Users(ctx)
	case "user":
		if arg == "" {
			fmt.Fprintln(w, "Usage: user <name>")
			return nil
		}
		return a.User(ctx, arg)
	case "send":
		return a.Send(ctx, arg)
	case "inbox":
		return a.Inbox(ctx)
	case "outbox":
		return a.Outbox(ctx)
	case "show":
		if arg == "" {
			fmt.Fprintln(w, "Usage: show <id>")
			return nil
		}
		return a.Show(ctx, arg)
	case "read":
		if arg == "" {
			fmt.Fprintln(w, "Usage: read <id>")
			return nil
		}
		return a.Read(ctx, arg)
	}
	return nil
}

// describe turns client errors into short user-facing text.
func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		return err.Error()
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
