package service

import (
	"context"

	"student_portal/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User, groups []string) error {
	args := m.Called(ctx, user, groups)
	return args.Error(0)
}

func (m *mockUserRepo) userResult(args mock.Arguments) (*model.User, error) {
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return m.userResult(m.Called(ctx, phone))
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) GroupNames(ctx context.Context, userID int) ([]string, error) {
	args := m.Called(ctx, userID)
	groups, _ := args.Get(0).([]string)
	return groups, args.Error(1)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Save(ctx context.Context, token *model.PasswordResetToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenRepo) Find(ctx context.Context, key string) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, key)
	if t := args.Get(0); t != nil {
		return t.(*model.PasswordResetToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenRepo) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
