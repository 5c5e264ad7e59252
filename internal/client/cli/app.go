package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dcastellanos/userboard/internal/client/api"
	"github.com/dcastellanos/userboard/internal/client/session"
)

// apiClient is the server surface the app depends on; tests provide a stub.
type apiClient interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	ListUsers(ctx context.Context, token string) ([]api.Account, error)
	UpdateUser(ctx context.Context, token string, id int64, username, email string) error
	DeleteUser(ctx context.Context, token string, id int64) error
}

// App drives the two client states: unauthenticated (register/login) and
// authenticated (list/edit/delete/logout). Any 401/403 from the server
// drops the session and returns the app to the unauthenticated state.
type App struct {
	api     apiClient
	store   session.Store
	session session.Session
	in      *bufio.Reader
	out     io.Writer
	pwInput func(prompt string, w io.Writer) (string, error)
}

func NewApp(client apiClient, store session.Store, in io.Reader, out io.Writer) *App {
	return &App{
		api:     client,
		store:   store,
		in:      bufio.NewReader(in),
		out:     out,
		pwInput: promptPassword,
	}
}

// LoadSession restores a previously saved session, if any.
func (a *App) LoadSession() {
	s, ok, err := a.store.Load()
	if err != nil {
		fmt.Fprintf(a.out, "warning: could not load saved session: %v\n", err)
		return
	}
	if ok {
		a.session = s
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.session.Username
	}
	return "not logged in"
}

func (a *App) Register(ctx context.Context) error {
	username, err := promptText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := promptText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.pwInput("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, username, email, password); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can now login.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := promptText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.pwInput("Password", a.out)
	if err != nil {
		return err
	}

	result, err := a.api.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login failed: %v\n", err)
		return err
	}

	a.session = session.Session{
		Token:    result.Token,
		UserID:   result.User.ID,
		Username: result.User.Username,
		Email:    result.User.Email,
	}
	if err := a.store.Save(a.session); err != nil {
		fmt.Fprintf(a.out, "warning: could not save session: %v\n", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Username)
	return nil
}

func (a *App) List(ctx context.Context) error {
	accounts, err := a.api.ListUsers(ctx, a.session.Token)
	if err != nil {
		return a.reportError(err)
	}

	fmt.Fprintf(a.out, "%-6s %-24s %-32s %s\n", "ID", "USERNAME", "EMAIL", "CREATED")
	for _, acc := range accounts {
		fmt.Fprintf(a.out, "%-6d %-24s %-32s %s\n",
			acc.ID, acc.Username, acc.Email, acc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Edit is a transient sub-state of the dashboard: prompts are prefilled with
// the current values, and cancelling makes no network call.
func (a *App) Edit(ctx context.Context) error {
	target, ok, err := a.pickUser(ctx)
	if err != nil || !ok {
		return err
	}

	username, err := promptDefault(a.in, "Username", target.Username, a.out)
	if err != nil {
		return err
	}
	email, err := promptDefault(a.in, "Email", target.Email, a.out)
	if err != nil {
		return err
	}

	confirm, err := promptText(a.in, "Save changes? (y/n)", a.out)
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.api.UpdateUser(ctx, a.session.Token, target.ID, username, email); err != nil {
		return a.reportError(err)
	}
	fmt.Fprintln(a.out, "User updated.")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	target, ok, err := a.pickUser(ctx)
	if err != nil || !ok {
		return err
	}

	if err := a.api.DeleteUser(ctx, a.session.Token, target.ID); err != nil {
		return a.reportError(err)
	}
	fmt.Fprintln(a.out, "User deleted.")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	fmt.Fprintf(a.out, "Logged in as %s <%s> (id %d)\n",
		a.session.Username, a.session.Email, a.session.UserID)
	return nil
}

func (a *App) Logout(_ context.Context) error {
	a.session = session.Session{}
	if err := a.store.Clear(); err != nil {
		fmt.Fprintf(a.out, "warning: could not clear session: %v\n", err)
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) pickUser(ctx context.Context) (api.Account, bool, error) {
	accounts, err := a.api.ListUsers(ctx, a.session.Token)
	if err != nil {
		return api.Account{}, false, a.reportError(err)
	}

	raw, err := promptText(a.in, "User id", a.out)
	if err != nil {
		return api.Account{}, false, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Not a valid id.")
		return api.Account{}, false, nil
	}

	for _, acc := range accounts {
		if acc.ID == id {
			return acc, true, nil
		}
	}
	fmt.Fprintln(a.out, "No such user.")
	return api.Account{}, false, nil
}

// reportError prints the failure; an authorization failure additionally
// invalidates the session, pushing the app back to the login state.
func (a *App) reportError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.session = session.Session{}
		if clearErr := a.store.Clear(); clearErr != nil {
			fmt.Fprintf(a.out, "warning: could not clear session: %v\n", clearErr)
		}
		fmt.Fprintln(a.out, "Session expired. Please login again.")
		return err
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
	return err
}
