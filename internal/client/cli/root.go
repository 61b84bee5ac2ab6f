package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mzunohkaru/postboard/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Post(ctx context.Context) error
	Account(ctx context.Context) error
}

func (a *App) getStatus() string {
	if user := a.session.User(); user != nil {
		return fmt.Sprintf("(%s)", user.Username)
	}
	return ""
}

// Root restores the session, proves it against the server, and runs the
// interactive loop until the user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to Postboard CLI (type 'help' for commands)")

	a.authService.InitAuth(ctx)
	if user := a.session.User(); user != nil {
		printlnFn("Signed in as", user.Username)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// runREPL starts a simple read-eval-print loop for the Postboard CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          authenticate
//	  - list           list posts
//	  - exit | quit    leave the program
//
//	Logged in, additionally:
//	  - post           publish a new post
//	  - whoami         show the current account
//	  - account        update username or email
//	  - logout         log out
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pb %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, post, whoami, account, logout, exit")
			} else {
				printlnFn("Available commands: register, login, (l)ist, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "post":
			err = a.Post(ctx)

		case "account":
			err = a.Account(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				printlnFn("Session expired, please login")
			} else {
				printlnFn("Error:", err.Error())
			}
		}
	}
}
