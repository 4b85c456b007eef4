package notify

import (
	"context"

	"task-service/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// LogMailer only logs; it is the default when no gateway is configured
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg models.MailMessage) error {
	logger.Info("Account email (log provider)",
		zap.String("kind", msg.Kind),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
