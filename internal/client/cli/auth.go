package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mzunohkaru/postboard/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates an account.
// On success the user is signed in immediately. The password byte slice is
// wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	printlnFn("Welcome,", user.Username+"!")
	return nil
}

// Login prompts for a username or email plus password and authenticates.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, login, password)
	if err != nil {
		return err
	}

	printlnFn("Signed in as", user.Username)
	return nil
}

// Logout clears the local session and revokes the refresh cookie.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

// WhoAmI prints the cached account details.
func (a *App) WhoAmI(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		printlnFn("Not signed in")
		return nil
	}
	printlnFn(fmt.Sprintf("#%d %s <%s>", user.ID, user.Username, user.Email))
	return nil
}

// Account prompts for a new username and email and updates the current
// account. Empty input keeps the current value.
func (a *App) Account(ctx context.Context) error {
	current := a.session.User()
	if current == nil {
		printlnFn("Not signed in")
		return nil
	}

	username, err := getSimpleText(a.reader, fmt.Sprintf("Enter new username [%s]", current.Username), os.Stdout)
	if err != nil {
		return err
	}
	if username == "" {
		username = current.Username
	}

	email, err := getSimpleText(a.reader, fmt.Sprintf("Enter new email [%s]", current.Email), os.Stdout)
	if err != nil {
		return err
	}
	if email == "" {
		email = current.Email
	}

	user, err := a.authService.UpdateAccount(ctx, username, email)
	if err != nil {
		return err
	}

	printlnFn("Account updated:", user.Username, "<"+user.Email+">")
	return nil
}
