// Package mailer delivers password-reset tokens through an HTTP mail
// gateway. The service never puts credentials in logs; the gateway is
// responsible for composing and sending the actual email.
package mailer

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Mailer posts reset tokens to a configured webhook.
type Mailer struct {
	client     *resty.Client
	webhookURL string
	log        *zap.Logger
}

// New creates a Mailer posting to webhookURL. Returns nil when webhookURL is
// empty, which disables delivery.
func New(webhookURL string, timeout time.Duration, log *zap.Logger) *Mailer {
	if webhookURL == "" {
		return nil
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Mailer{client: client, webhookURL: webhookURL, log: log}
}

type resetMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendPasswordReset posts the reset token to the mail gateway.
func (m *Mailer) SendPasswordReset(email, token string) error {
	msg := resetMessage{
		To:      email,
		Subject: "Password reset request",
		Body:    fmt.Sprintf("Your password reset token is %s. It expires in one hour.", token),
	}

	resp, err := m.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(m.webhookURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mail gateway returned status %d", resp.StatusCode())
	}

	m.log.Info("Password reset mail dispatched", zap.String("to", email))
	return nil
}
