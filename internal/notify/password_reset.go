package notify

import (
	"context"
	"fmt"

	"student_portal/internal/model"
)

const resetSubject = "Parolingizni tiklash uchun tasdiqlash kodingiz"

// PasswordResetNotifier emails the reset code to the owner of a new reset token
type PasswordResetNotifier struct {
	mailer Mailer
	from   string
}

func NewPasswordResetNotifier(mailer Mailer, from string) *PasswordResetNotifier {
	return &PasswordResetNotifier{mailer: mailer, from: from}
}

// ResetMessage composes the reset email for key addressed to to
func ResetMessage(from, to, key string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: resetSubject,
		Text:    fmt.Sprintf("Sizning tasdiqlash kodingiz:%s.Kodni hech kimga bermang", key),
		HTML:    fmt.Sprintf("Sizning tasdiqlash kodingiz:<strong style='color:blue;'>%s</strong>.<hr>Kodni hech kimga bermang", key),
	}
}

// OnResetTokenCreated sends the reset email. Delivery errors are returned
// unchanged to the issuer.
func (n *PasswordResetNotifier) OnResetTokenCreated(_ context.Context, user *model.User, token *model.PasswordResetToken) error {
	return n.mailer.Send(ResetMessage(n.from, user.Email, token.Key))
}
