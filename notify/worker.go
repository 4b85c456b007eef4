package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"task-service/config"
	"task-service/models"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Worker consumes the mail topic and delivers each message through a Mailer
type Worker struct {
	reader messageReader
	mailer Mailer
	// backoff after a read error so a dead broker does not spin the loop
	backoff time.Duration
}

func NewWorker(cfg config.KafkaConfig, mailer Mailer) *Worker {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.Username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Broker},
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &Worker{reader: reader, mailer: mailer, backoff: time.Second}
}

// Run reads until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	defer w.reader.Close()

	for {
		msg, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Mail worker read error", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(w.backoff):
			}
			continue
		}

		if err := w.HandleMessage(ctx, msg.Value); err != nil {
			logger.Error("Mail worker handler error", zap.Error(err), zap.Int64("offset", msg.Offset))
		}
	}
}

// HandleMessage decodes one queued message and sends it
func (w *Worker) HandleMessage(ctx context.Context, value []byte) error {
	var msg models.MailMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return fmt.Errorf("decode mail message: %w", err)
	}
	if msg.To == "" {
		return errors.New("mail message has no recipient")
	}
	return w.mailer.Send(ctx, msg)
}
