package model

import "time"

// PasswordResetToken binds an opaque key to the user who requested a reset
type PasswordResetToken struct {
	Key       string    `json:"key"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}
