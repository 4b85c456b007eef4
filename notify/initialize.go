package notify

import (
	"task-service/config"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeMailer picks the mailer for MAIL_PROVIDER; config validation has
// already rejected unknown providers.
func InitializeMailer(cfg *config.Config) Mailer {
	switch cfg.Mail.Provider {
	case config.MailProviderSMTP:
		logger.Info("Mail provider: smtp", zap.String("host", cfg.Mail.SMTPHost), zap.Int("port", cfg.Mail.SMTPPort))
		return NewSMTPMailer(cfg.Mail)
	case config.MailProviderKafka:
		logger.Info("Mail provider: kafka", zap.String("broker", cfg.Kafka.Broker), zap.String("topic", cfg.Kafka.Topic))
		return NewKafkaMailer(cfg.Kafka)
	default:
		logger.Info("Mail provider: log")
		return LogMailer{}
	}
}
