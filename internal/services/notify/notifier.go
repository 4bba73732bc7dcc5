// Package notify delivers meeting notification emails over SMTP. Delivery
// is strictly best effort: a scheduled meeting is never unwound because an
// email could not be sent.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
)

const (
	// DefaultSMTPPort is the default submission port (STARTTLS).
	DefaultSMTPPort = 587
	// sendTimeout bounds one full SMTP session.
	sendTimeout = 20 * time.Second
	// bodyTimeLayout is the start-time format shown in the email body.
	bodyTimeLayout = "2006-01-02 15:04"
)

// Config carries the SMTP settings. Host or From left empty disables
// sending entirely.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// Mailer sends meeting notification emails.
type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

// NewMailer creates a mailer. From falls back to Username when unset,
// matching the common single-account SMTP setup.
func NewMailer(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = DefaultSMTPPort
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

// Send delivers one notification email per recipient over a single SMTP
// session. Errors are returned for logging but carry no scheduling
// consequence.
func (m *Mailer) Send(ctx context.Context, n models.MeetingNotification) error {
	if !m.Enabled() {
		return nil
	}
	if len(n.Recipients) == 0 {
		return nil
	}

	subject := "Meeting Scheduled: " + n.Topic
	body := buildBody(n)

	messages := make([]*mail.Msg, 0, len(n.Recipients))
	for _, recipient := range n.Recipients {
		msg := mail.NewMsg()
		if err := msg.From(m.cfg.From); err != nil {
			return fmt.Errorf("invalid sender address: %w", err)
		}
		if err := msg.To(recipient); err != nil {
			m.logger.Warn("skipping_invalid_recipient",
				zap.String("recipient", recipient),
				zap.Error(err),
			)
			continue
		}
		msg.Subject(subject)
		msg.SetBodyString(mail.TypeTextPlain, body)
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return nil
	}

	client, err := m.newClient()
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := client.DialAndSendWithContext(sendCtx, messages...); err != nil {
		return fmt.Errorf("failed to send notification emails: %w", err)
	}
	return nil
}

func (m *Mailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(sendTimeout),
	}
	if m.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

func buildBody(n models.MeetingNotification) string {
	meetLink := n.MeetLink
	if meetLink == "" {
		meetLink = "Not available"
	}
	return fmt.Sprintf(
		"A meeting has been scheduled.\n\nTopic: %s\nStart: %s\nDuration: %d minutes\nMeet link: %s\n",
		n.Topic,
		n.StartTime.Format(bodyTimeLayout),
		n.DurationMinutes,
		meetLink,
	)
}
