package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"student_portal/internal/model"

	"github.com/go-redis/redis/v8"
)

const resetTokenPrefix = "password_reset:"

// ResetTokenRepository stores password reset tokens until they expire or are used
type ResetTokenRepository interface {
	Save(ctx context.Context, token *model.PasswordResetToken) error
	Find(ctx context.Context, key string) (*model.PasswordResetToken, error)
	// Delete reports whether this call removed the key
	Delete(ctx context.Context, key string) (bool, error)
}

type resetTokenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResetTokenRepository creates a Redis backed ResetTokenRepository
func NewResetTokenRepository(client *redis.Client, ttl time.Duration) ResetTokenRepository {
	return &resetTokenRepository{client: client, ttl: ttl}
}

func (r *resetTokenRepository) Save(ctx context.Context, token *model.PasswordResetToken) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode reset token: %w", err)
	}
	if err := r.client.Set(ctx, resetTokenPrefix+token.Key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// Find returns nil, nil when the key is unknown or expired
func (r *resetTokenRepository) Find(ctx context.Context, key string) (*model.PasswordResetToken, error) {
	payload, err := r.client.Get(ctx, resetTokenPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load reset token: %w", err)
	}

	token := &model.PasswordResetToken{}
	if err := json.Unmarshal(payload, token); err != nil {
		return nil, fmt.Errorf("failed to decode reset token: %w", err)
	}
	return token, nil
}

func (r *resetTokenRepository) Delete(ctx context.Context, key string) (bool, error) {
	removed, err := r.client.Del(ctx, resetTokenPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete reset token: %w", err)
	}
	return removed == 1, nil
}
