// Package mail provides the Mailgun-backed implementation of the Mailer service.
package mail

import (
	"context"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
	hermes "github.com/matcornic/hermes/v2"

	"insightlens/config"
	"insightlens/internal/domain/service"
	"insightlens/internal/errors"
)

// mailgunMailer delivers transactional mail through Mailgun, with bodies
// generated by Hermes. Outside production the mail is not sent; the link is
// logged at debug level so local flows stay testable.
type mailgunMailer struct {
	client      mailgun.Mailgun
	sender      string
	production  bool
	serviceName string
	logger      *slog.Logger
}

// NewMailgunMailer is the constructor for mailgunMailer.
func NewMailgunMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	if cfg.Mail == nil {
		return nil, errors.New("mail configuration must be provided")
	}

	return &mailgunMailer{
		client:      mailgun.NewMailgun(cfg.Mail.Domain, cfg.Mail.APIKey),
		sender:      cfg.Mail.Sender,
		production:  cfg.Env.Env == "production",
		serviceName: cfg.Env.ServiceName,
		logger:      logger,
	}, nil
}

// SendPasswordResetMail delivers a password reset link to the given address.
func (m *mailgunMailer) SendPasswordResetMail(ctx context.Context, email, name, resetLink string) error {
	if !m.production {
		m.logger.Debug("Skipping reset mail outside production",
			slog.String("email", email))

		return nil
	}

	body, err := m.buildResetBody(name, resetLink)
	if err != nil {
		return errors.Wrap(err, "failed to build reset mail body")
	}

	message := mailgun.NewMessage(m.sender, "Reset your password", "", email)
	message.SetHTML(body)

	if _, _, err := m.client.Send(ctx, message); err != nil {
		return errors.Wrap(err, "failed to send reset mail")
	}

	m.logger.Info("Reset mail sent", slog.String("email", email))

	return nil
}

func (m *mailgunMailer) buildResetBody(name, resetLink string) (string, error) {
	generator := hermes.Hermes{
		Product: hermes.Product{
			Name: m.serviceName,
		},
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"You have received this email because a password reset request for your account was received.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password. The link is valid for one hour and can be used once.",
					Button: hermes.Button{
						Text: "Reset your password",
						Link: resetLink,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
		},
	}

	body, err := generator.GenerateHTML(mailBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate HTML body")
	}

	return body, nil
}
