package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dcastellanos/userboard/internal/client/api"
	"github.com/dcastellanos/userboard/internal/client/session"
)

type stubAPI struct {
	registerFunc func(ctx context.Context, username, email, password string) error
	loginFunc    func(ctx context.Context, email, password string) (api.LoginResult, error)
	listFunc     func(ctx context.Context, token string) ([]api.Account, error)
	updateFunc   func(ctx context.Context, token string, id int64, username, email string) error
	deleteFunc   func(ctx context.Context, token string, id int64) error
}

func (s *stubAPI) Register(ctx context.Context, username, email, password string) error {
	if s.registerFunc != nil {
		return s.registerFunc(ctx, username, email, password)
	}
	return nil
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (api.LoginResult, error) {
	if s.loginFunc != nil {
		return s.loginFunc(ctx, email, password)
	}
	return api.LoginResult{}, nil
}

func (s *stubAPI) ListUsers(ctx context.Context, token string) ([]api.Account, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, token)
	}
	return nil, nil
}

func (s *stubAPI) UpdateUser(ctx context.Context, token string, id int64, username, email string) error {
	if s.updateFunc != nil {
		return s.updateFunc(ctx, token, id, username, email)
	}
	return nil
}

func (s *stubAPI) DeleteUser(ctx context.Context, token string, id int64) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, token, id)
	}
	return nil
}

type memStore struct {
	saved   session.Session
	hasData bool
}

func (m *memStore) Load() (session.Session, bool, error) {
	return m.saved, m.hasData, nil
}

func (m *memStore) Save(s session.Session) error {
	m.saved = s
	m.hasData = true
	return nil
}

func (m *memStore) Clear() error {
	m.saved = session.Session{}
	m.hasData = false
	return nil
}

// setupApp wires the app with scripted stdin lines and a fixed password.
func setupApp(t *testing.T, stub *stubAPI, store *memStore, input string) (*App, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	app := NewApp(stub, store, strings.NewReader(input), out)
	app.pwInput = func(_ string, _ io.Writer) (string, error) {
		return "secret1", nil
	}
	return app, out
}

func loggedIn(app *App) {
	app.session = session.Session{Token: "tok", UserID: 1, Username: "alice", Email: "a@x.com"}
}

func TestRegister_SendsPromptedValues(t *testing.T) {
	stub := &stubAPI{}
	var gotUsername, gotEmail, gotPassword string
	stub.registerFunc = func(_ context.Context, username, email, password string) error {
		gotUsername, gotEmail, gotPassword = username, email, password
		return nil
	}
	app, out := setupApp(t, stub, &memStore{}, "alice\na@x.com\n")

	if err := app.Register(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotUsername != "alice" || gotEmail != "a@x.com" || gotPassword != "secret1" {
		t.Errorf("unexpected register args: %s %s %s", gotUsername, gotEmail, gotPassword)
	}
	if !strings.Contains(out.String(), "You can now login") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestLogin_SavesSession(t *testing.T) {
	stub := &stubAPI{
		loginFunc: func(_ context.Context, email, password string) (api.LoginResult, error) {
			result := api.LoginResult{Token: "tok-123"}
			result.User.ID = 7
			result.User.Username = "alice"
			result.User.Email = email
			return result, nil
		},
	}
	store := &memStore{}
	app, out := setupApp(t, stub, store, "a@x.com\n")

	if err := app.Login(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !app.isLoggedIn() {
		t.Error("expected app to be logged in")
	}
	if store.saved.Token != "tok-123" || store.saved.Username != "alice" {
		t.Errorf("session not persisted: %+v", store.saved)
	}
	if !strings.Contains(out.String(), "Logged in as alice") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestLogin_Failure_StaysLoggedOut(t *testing.T) {
	stub := &stubAPI{
		loginFunc: func(_ context.Context, _, _ string) (api.LoginResult, error) {
			return api.LoginResult{}, api.ErrInvalidCredentials
		},
	}
	store := &memStore{}
	app, out := setupApp(t, stub, store, "a@x.com\n")

	if err := app.Login(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if app.isLoggedIn() {
		t.Error("expected app to remain logged out")
	}
	if store.hasData {
		t.Error("expected no session to be persisted")
	}
	if !strings.Contains(out.String(), "Login failed") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestList_PrintsAccounts(t *testing.T) {
	created := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	stub := &stubAPI{
		listFunc: func(_ context.Context, token string) ([]api.Account, error) {
			if token != "tok" {
				t.Errorf("expected bearer token to be passed, got %q", token)
			}
			return []api.Account{
				{ID: 1, Username: "alice", Email: "a@x.com", CreatedAt: created},
			}, nil
		},
	}
	app, out := setupApp(t, stub, &memStore{}, "")
	loggedIn(app)

	if err := app.List(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "alice") || !strings.Contains(out.String(), "a@x.com") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestList_Unauthorized_ClearsSession(t *testing.T) {
	stub := &stubAPI{
		listFunc: func(_ context.Context, _ string) ([]api.Account, error) {
			return nil, api.ErrUnauthorized
		},
	}
	store := &memStore{saved: session.Session{Token: "tok"}, hasData: true}
	app, out := setupApp(t, stub, store, "")
	loggedIn(app)

	if err := app.List(context.Background()); !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if app.isLoggedIn() {
		t.Error("expected session to be dropped")
	}
	if store.hasData {
		t.Error("expected persisted session to be cleared")
	}
	if !strings.Contains(out.String(), "Session expired") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestEdit_UpdatesUser(t *testing.T) {
	stub := &stubAPI{
		listFunc: func(_ context.Context, _ string) ([]api.Account, error) {
			return []api.Account{{ID: 2, Username: "bob", Email: "b@x.com"}}, nil
		},
	}
	var gotID int64
	var gotUsername, gotEmail string
	stub.updateFunc = func(_ context.Context, _ string, id int64, username, email string) error {
		gotID, gotUsername, gotEmail = id, username, email
		return nil
	}
	// id, new username, keep email (empty input = default), confirm.
	app, out := setupApp(t, stub, &memStore{}, "2\nbobby\n\ny\n")
	loggedIn(app)

	if err := app.Edit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotID != 2 || gotUsername != "bobby" || gotEmail != "b@x.com" {
		t.Errorf("unexpected update args: id=%d username=%s email=%s", gotID, gotUsername, gotEmail)
	}
	if !strings.Contains(out.String(), "User updated") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestEdit_Cancelled_NoNetworkCall(t *testing.T) {
	stub := &stubAPI{
		listFunc: func(_ context.Context, _ string) ([]api.Account, error) {
			return []api.Account{{ID: 2, Username: "bob", Email: "b@x.com"}}, nil
		},
	}
	called := false
	stub.updateFunc = func(_ context.Context, _ string, _ int64, _, _ string) error {
		called = true
		return nil
	}
	app, out := setupApp(t, stub, &memStore{}, "2\nbobby\n\nn\n")
	loggedIn(app)

	if err := app.Edit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if called {
		t.Error("expected no update call after cancel")
	}
	if !strings.Contains(out.String(), "Cancelled") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestEdit_UnknownID(t *testing.T) {
	stub := &stubAPI{
		listFunc: func(_ context.Context, _ string) ([]api.Account, error) {
			return []api.Account{{ID: 2, Username: "bob", Email: "b@x.com"}}, nil
		},
	}
	app, out := setupApp(t, stub, &memStore{}, "99\n")
	loggedIn(app)

	if err := app.Edit(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "No such user") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestDelete_RemovesUser(t *testing.T) {
	stub := &stubAPI{
		listFunc: func(_ context.Context, _ string) ([]api.Account, error) {
			return []api.Account{{ID: 3, Username: "carol", Email: "c@x.com"}}, nil
		},
	}
	var gotID int64
	stub.deleteFunc = func(_ context.Context, _ string, id int64) error {
		gotID = id
		return nil
	}
	app, out := setupApp(t, stub, &memStore{}, "3\n")
	loggedIn(app)

	if err := app.Delete(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotID != 3 {
		t.Errorf("expected delete of id 3, got %d", gotID)
	}
	if !strings.Contains(out.String(), "User deleted") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	store := &memStore{saved: session.Session{Token: "tok"}, hasData: true}
	app, out := setupApp(t, &stubAPI{}, store, "")
	loggedIn(app)

	if err := app.Logout(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if app.isLoggedIn() {
		t.Error("expected app to be logged out")
	}
	if store.hasData {
		t.Error("expected persisted session to be cleared")
	}
	if !strings.Contains(out.String(), "Logged out") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestLoadSession_RestoresSavedSession(t *testing.T) {
	store := &memStore{
		saved:   session.Session{Token: "tok", UserID: 7, Username: "alice", Email: "a@x.com"},
		hasData: true,
	}
	app, _ := setupApp(t, &stubAPI{}, store, "")

	app.LoadSession()

	if !app.isLoggedIn() {
		t.Error("expected restored session to log the app in")
	}
	if app.session.Username != "alice" {
		t.Errorf("unexpected session: %+v", app.session)
	}
}
