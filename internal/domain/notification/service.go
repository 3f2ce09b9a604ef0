package notification

import (
	"context"
	"strings"
	"time"

	"family-planner/internal/domain/apperr"
	"family-planner/pkg/logger"
	"github.com/badoux/checkmail"
	"github.com/pkg/errors"
)

// Result.Error values.
const (
	MsgMissingData  = "Missing required email data"
	MsgInvalidEmail = "Invalid email address"
	MsgSendFailed   = "Failed to send email"
)

type Config struct {
	Retries   int
	RetryBase time.Duration
}

type Service struct {
	transport Transport
	cfg       Config
	log       logger.Logger
}

func NewService(transport Transport, cfg Config, log logger.Logger) *Service {
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = apperr.DefaultRetryBase
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{transport: transport, cfg: cfg, log: log}
}

// SendInviteEmail never returns an error: failures are logged and reported in the Result.
func (s *Service) SendInviteEmail(ctx context.Context, data InviteEmail) Result {
	data.To = strings.TrimSpace(data.To)
	if data.To == "" || strings.TrimSpace(data.FamilyName) == "" || strings.TrimSpace(data.JoinLink) == "" {
		return Result{Error: MsgMissingData}
	}
	if err := checkmail.ValidateFormat(data.To); err != nil {
		return Result{Error: MsgInvalidEmail}
	}

	msg, err := BuildInviteEmail(data)
	if err != nil {
		s.log.InternalError("notification.invite: render failed", err, "to", data.To)
		return Result{Error: MsgSendFailed}
	}

	err = apperr.RetryWithBackoff(ctx, s.cfg.Retries, s.cfg.RetryBase, func(ctx context.Context) error {
		return s.transport.Send(ctx, msg)
	})
	if err != nil {
		s.log.InternalError("notification.invite: send failed", errors.Wrap(err, "send invite email"), "to", data.To)
		return Result{Error: MsgSendFailed}
	}

	s.log.Info("notification.invite: sent", "to", data.To, "family", data.FamilyName)
	return Result{Success: true}
}
