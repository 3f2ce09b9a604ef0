package mail

import (
	"context"
	"fmt"
	"strings"

	"family-planner/internal/domain/notification"
	"family-planner/pkg/logger"
	"gopkg.in/gomail.v2"
)

const (
	TransportLog  = "log"
	TransportSMTP = "smtp"
)

// LogTransport writes messages to the log instead of delivering them.
type LogTransport struct {
	log logger.Logger
}

func NewLogTransport(log logger.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(ctx context.Context, msg notification.Message) error {
	t.log.Info("mail.log: invite email", "to", msg.To, "subject", msg.Subject, "text", msg.Text)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("mail from address is required")
	}
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.dialer.DialAndSend(newMessage(t.from, msg))
}

func newMessage(from string, msg notification.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	return m
}

// New picks the transport named by kind.
func New(kind string, cfg SMTPConfig, log logger.Logger) (notification.Transport, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", TransportLog:
		return NewLogTransport(log), nil
	case TransportSMTP:
		return NewSMTPTransport(cfg)
	default:
		return nil, fmt.Errorf("unknown mail transport %q", kind)
	}
}
