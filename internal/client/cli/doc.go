// Package cli provides the interactive Postboard command-line client.
//
// It wires configuration, the local session database, the API client, and an
// interactive REPL. On startup the persisted session is restored and proven
// against the server before the first prompt, so the user lands either signed
// in or cleanly signed out.
//
// Key features:
//   - Register / Login / Logout
//   - List posts and publish new ones
//   - Show and update the current account
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
