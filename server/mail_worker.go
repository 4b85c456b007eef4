package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"task-service/config"
	"task-service/notify"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// StartMailWorker consumes the mail topic and delivers through SMTP until
// SIGINT or SIGTERM. It is the other half of MAIL_PROVIDER=kafka.
func StartMailWorker(cfg *config.Config) {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	if cfg.Kafka.Broker == "" || cfg.Mail.SMTPHost == "" {
		logger.Error("Mail worker needs KAFKA_BROKER and SMTP_HOST")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Mail worker started",
		zap.String("broker", cfg.Kafka.Broker),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID))

	worker := notify.NewWorker(cfg.Kafka, notify.NewSMTPMailer(cfg.Mail))
	if err := worker.Run(ctx); err != nil {
		logger.Error("Mail worker stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Mail worker stopped")
}
