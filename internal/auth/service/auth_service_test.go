package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcastellanos/userboard/internal/auth/token"
	"github.com/dcastellanos/userboard/internal/common/clock"
	commonerrors "github.com/dcastellanos/userboard/internal/common/errors"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/user/domain"
	userrepo "github.com/dcastellanos/userboard/internal/user/repository"
)

const testSecret = "test-secret-key-must-be-at-least-32-bytes-long"

func setupAuthService(t *testing.T) (*AuthService, *mockRepository, *mockHasher, *clock.MockClock) {
	t.Helper()

	repo := &mockRepository{}
	hasher := &mockHasher{}
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := token.NewIssuer(testSecret, time.Hour, clk)
	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	return NewAuthService(repo, hasher, issuer, log), repo, hasher, clk
}

func TestRegister_Success_StoresHashNotPlaintext(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	var storedHash string
	repo.createFunc = func(_ context.Context, username, email, passwordHash string) (domain.ID, error) {
		storedHash = passwordHash
		return 1, nil
	}

	err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if storedHash == "" {
		t.Fatal("expected a stored password hash")
	}
	if storedHash == "secret1" {
		t.Error("plaintext password was stored")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	testCases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@x.com", Password: "secret1"}},
		{"missing email", RegisterInput{Username: "alice", Password: "secret1"}},
		{"missing password", RegisterInput{Username: "alice", Email: "a@x.com"}},
		{"all empty", RegisterInput{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, commonerrors.ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "not-an-address",
		Password: "secret1",
	})

	if !errors.Is(err, commonerrors.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestRegister_Duplicate_Conflict(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.createFunc = func(_ context.Context, _, _, _ string) (domain.ID, error) {
		return 0, userrepo.ErrDuplicateUser
	}

	err := svc.Register(context.Background(), RegisterInput{
		Username: "bob",
		Email:    "a@x.com",
		Password: "secret2",
	})

	if !errors.Is(err, commonerrors.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	de, ok := commonerrors.AsDomainError(err)
	if !ok {
		t.Fatal("expected a domain error")
	}
	if de.HTTPStatus() != 409 {
		t.Errorf("expected status 409, got %d", de.HTTPStatus())
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.createFunc = func(_ context.Context, _, _, _ string) (domain.ID, error) {
		return 0, errors.New("connection reset")
	}

	err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret1",
	})

	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Errorf("expected ErrDatabaseError, got %v", err)
	}
}

func TestLogin_Success_ReturnsTokenAndAccount(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.findByEmailFunc = func(_ context.Context, email string) (domain.User, error) {
		return domain.User{
			ID:           7,
			Username:     "alice",
			Email:        email,
			PasswordHash: "hashed:secret1",
			CreatedAt:    created,
		}, nil
	}

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "a@x.com",
		Password: "secret1",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.ID != 7 || result.User.Username != "alice" || result.User.Email != "a@x.com" {
		t.Errorf("unexpected account: %+v", result.User)
	}
}

func TestLogin_UnknownEmailAndWrongPassword_SameOutcome(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(_ context.Context, email string) (domain.User, error) {
		if email == "a@x.com" {
			return domain.User{
				ID:           1,
				Username:     "alice",
				Email:        email,
				PasswordHash: "hashed:secret1",
			}, nil
		}
		return domain.User{}, userrepo.ErrUserNotFound
	}

	_, errUnknown := svc.Login(context.Background(), LoginInput{Email: "nobody@x.com", Password: "secret1"})
	_, errWrongPw := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "wrong"})

	if !errors.Is(errUnknown, commonerrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, commonerrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Error("failure causes must be indistinguishable to the caller")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com"})
	if !errors.Is(err, commonerrors.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{Password: "secret1"})
	if !errors.Is(err, commonerrors.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, repo, _, _ := setupAuthService(t)

	repo.findByEmailFunc = func(_ context.Context, _ string) (domain.User, error) {
		return domain.User{}, errors.New("connection reset")
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "secret1"})
	if !errors.Is(err, commonerrors.ErrDatabaseError) {
		t.Errorf("expected ErrDatabaseError, got %v", err)
	}
}
