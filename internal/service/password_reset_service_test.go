package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"student_portal/internal/model"
	"student_portal/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPasswordResetService_RequestReset_CallsHooks(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())
	ctx := context.Background()

	user := &model.User{ID: 5, Email: "a@x.com", IsActive: true}
	users.On("FindByEmail", ctx, "a@x.com").Return(user, nil)
	tokens.On("Save", ctx, mock.AnythingOfType("*model.PasswordResetToken")).Return(nil)

	var got *model.PasswordResetToken
	svc.RegisterHook(ResetTokenHookFunc(func(_ context.Context, u *model.User, token *model.PasswordResetToken) error {
		assert.Equal(t, user, u)
		got = token
		return nil
	}))

	require.NoError(t, svc.RequestReset(ctx, "a@x.com"))
	require.NotNil(t, got)
	assert.Len(t, got.Key, 32)
	assert.Equal(t, 5, got.UserID)
	tokens.AssertExpectations(t)
}

func TestPasswordResetService_RequestReset_HookErrorPropagates(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())
	ctx := context.Background()

	users.On("FindByEmail", ctx, "a@x.com").Return(&model.User{ID: 5, IsActive: true}, nil)
	tokens.On("Save", ctx, mock.Anything).Return(nil)

	sendErr := errors.New("smtp down")
	svc.RegisterHook(ResetTokenHookFunc(func(context.Context, *model.User, *model.PasswordResetToken) error {
		return sendErr
	}))

	assert.ErrorIs(t, svc.RequestReset(ctx, "a@x.com"), sendErr)
}

func TestPasswordResetService_RequestReset_UnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())

	users.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, nil)

	err := svc.RequestReset(context.Background(), "nobody@x.com")

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "email")
	tokens.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPasswordResetService_ConfirmReset(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())
	ctx := context.Background()

	tokens.On("Find", ctx, "key1").Return(&model.PasswordResetToken{Key: "key1", UserID: 5}, nil)
	tokens.On("Delete", ctx, "key1").Return(true, nil)

	var newHash string
	users.On("UpdatePassword", ctx, 5, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		newHash = args.String(2)
	}).Return(nil)

	require.NoError(t, svc.ConfirmReset(ctx, "key1", "brandnew1"))
	assert.True(t, utils.CheckPasswordHash("brandnew1", newHash))
	tokens.AssertExpectations(t)
}

func TestPasswordResetService_ConfirmReset_Rejections(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())
	ctx := context.Background()

	tokens.On("Find", ctx, "gone").Return(nil, nil)
	tokens.On("Find", ctx, "key1").Return(&model.PasswordResetToken{Key: "key1", UserID: 5}, nil)

	assert.ErrorIs(t, svc.ConfirmReset(ctx, "gone", "brandnew1"), ErrResetTokenNotFound)

	rejected := []struct {
		password string
		msg      string
	}{
		{"short", MsgPasswordTooShort},
		{"пароль1", MsgPasswordTooShort},
		{strings.Repeat("a", 80), MsgPasswordTooLong},
	}
	for _, tc := range rejected {
		var vErr *ValidationError
		require.True(t, errors.As(svc.ConfirmReset(ctx, "key1", tc.password), &vErr), tc.password)
		assert.Equal(t, tc.msg, vErr.Fields["password"])
	}

	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPasswordResetService_ConfirmReset_TokenAlreadyClaimed(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())
	ctx := context.Background()

	tokens.On("Find", ctx, "key1").Return(&model.PasswordResetToken{Key: "key1", UserID: 5}, nil)
	tokens.On("Delete", ctx, "key1").Return(false, nil)

	assert.ErrorIs(t, svc.ConfirmReset(ctx, "key1", "brandnew1"), ErrResetTokenNotFound)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestPasswordResetService_ConfirmReset_ClaimsBeforeUpdate(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	svc := NewPasswordResetService(users, tokens, zap.NewNop())
	ctx := context.Background()

	var order []string
	tokens.On("Find", ctx, "key1").Return(&model.PasswordResetToken{Key: "key1", UserID: 5}, nil)
	tokens.On("Delete", ctx, "key1").Run(func(mock.Arguments) { order = append(order, "claim") }).Return(true, nil)
	users.On("UpdatePassword", ctx, 5, mock.Anything).Run(func(mock.Arguments) { order = append(order, "update") }).Return(nil)

	require.NoError(t, svc.ConfirmReset(ctx, "key1", "brandnew1"))
	assert.Equal(t, []string{"claim", "update"}, order)
}
