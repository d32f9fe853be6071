package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"student_portal/internal/model"
	"student_portal/internal/repository"
	"student_portal/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgUnknownEmail = "We couldn't find an account associated with that email. Please try a different e-mail address."

// ResetTokenHook is called synchronously after a reset token is stored.
// An error aborts the reset request.
type ResetTokenHook interface {
	OnResetTokenCreated(ctx context.Context, user *model.User, token *model.PasswordResetToken) error
}

// ResetTokenHookFunc adapts a function to ResetTokenHook
type ResetTokenHookFunc func(ctx context.Context, user *model.User, token *model.PasswordResetToken) error

func (f ResetTokenHookFunc) OnResetTokenCreated(ctx context.Context, user *model.User, token *model.PasswordResetToken) error {
	return f(ctx, user, token)
}

// PasswordResetService issues and redeems password reset tokens
type PasswordResetService interface {
	RegisterHook(hook ResetTokenHook)
	RequestReset(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, key string) (*model.PasswordResetToken, error)
	ConfirmReset(ctx context.Context, key, password string) error
}

type passwordResetService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.ResetTokenRepository
	hooks     []ResetTokenHook
	log       *zap.Logger
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(userRepo repository.UserRepository, tokenRepo repository.ResetTokenRepository, log *zap.Logger) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		log:       log.Named("password_reset"),
	}
}

// RegisterHook is not safe for use once the server is serving requests
func (s *passwordResetService) RegisterHook(hook ResetTokenHook) {
	s.hooks = append(s.hooks, hook)
}

func newResetKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !user.IsActive {
		return NewValidationError("email", msgUnknownEmail)
	}

	token := &model.PasswordResetToken{
		Key:       newResetKey(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return err
	}
	s.log.Info("password reset token created", zap.Int("user_id", user.ID))

	for _, hook := range s.hooks {
		if err := hook.OnResetTokenCreated(ctx, user, token); err != nil {
			return fmt.Errorf("reset token hook failed: %w", err)
		}
	}
	return nil
}

func (s *passwordResetService) ValidateToken(ctx context.Context, key string) (*model.PasswordResetToken, error) {
	token, err := s.tokenRepo.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrResetTokenNotFound
	}
	return token, nil
}

// ConfirmReset sets a new password and consumes the token. The token is
// claimed before the password is written so it can only be redeemed once.
func (s *passwordResetService) ConfirmReset(ctx context.Context, key, password string) error {
	token, err := s.ValidateToken(ctx, key)
	if err != nil {
		return err
	}
	if msg := passwordLengthProblem(password); msg != "" {
		return NewValidationError("password", msg)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	claimed, err := s.tokenRepo.Delete(ctx, key)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrResetTokenNotFound
	}

	if err := s.userRepo.UpdatePassword(ctx, token.UserID, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenNotFound
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	s.log.Info("password reset completed", zap.Int("user_id", token.UserID))
	return nil
}
