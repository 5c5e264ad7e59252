package service

import (
	"context"
	"errors"

	"github.com/dcastellanos/userboard/internal/user/domain"
)

type mockRepository struct {
	createFunc      func(ctx context.Context, username, email, passwordHash string) (domain.ID, error)
	findByEmailFunc func(ctx context.Context, email string) (domain.User, error)
	listFunc        func(ctx context.Context) ([]domain.Account, error)
	updateFunc      func(ctx context.Context, id domain.ID, username, email string) error
	deleteFunc      func(ctx context.Context, id domain.ID) error
}

func (m *mockRepository) Create(ctx context.Context, username, email, passwordHash string) (domain.ID, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, username, email, passwordHash)
	}
	return 1, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, errors.New("not configured")
}

func (m *mockRepository) List(ctx context.Context) ([]domain.Account, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockRepository) Update(ctx context.Context, id domain.ID, username, email string) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, username, email)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("mismatch")
}
