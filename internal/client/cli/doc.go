// Package cli provides the interactive Messagely command-line client.
//
// It wires configuration, the HTTP API client and a read-eval-print loop.
// A background watcher pings the server and shows whether it is reachable
// in the prompt.
//
// Commands:
//   - register / login / logout
//   - users, user <name>
//   - send, inbox, outbox
//   - show <id>, read <id>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
