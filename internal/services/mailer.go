package services

import "github.com/rs/zerolog/log"

// Mailer dispatches outbound mail. Delivery is fire-and-forget; callers do
// not wait on or observe the result.
type Mailer interface {
	SendPasswordReset(email, token string)
}

// LogMailer writes the mail to the log instead of delivering it. Used in
// development and tests.
type LogMailer struct{}

// SendPasswordReset logs the reset token instead of sending it.
func (LogMailer) SendPasswordReset(email, token string) {
	log.Info().Str("email", email).Str("token", token).Msg("password reset requested")
}
