package notify

import (
	"context"
	"sync"
	"time"

	"task-service/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Dispatcher hands messages to a Mailer on background goroutines.
// Delivery errors are logged and dropped.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(mailer Mailer, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{mailer: mailer, timeout: timeout}
}

// Welcome queues the registration email
func (d *Dispatcher) Welcome(email, name string) {
	d.Dispatch(WelcomeMessage(email, name))
}

// Goodbye queues the account deletion email
func (d *Dispatcher) Goodbye(email, name string) {
	d.Dispatch(GoodbyeMessage(email, name))
}

// Dispatch returns immediately; the send runs detached from any request context
func (d *Dispatcher) Dispatch(msg models.MailMessage) {
	if d == nil || d.mailer == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Mailer panicked", zap.Any("panic", r), zap.String("kind", msg.Kind))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.mailer.Send(ctx, msg); err != nil {
			logger.Error("Failed to send account email",
				zap.Error(err), zap.String("kind", msg.Kind), zap.String("to", msg.To))
			return
		}
		logger.Debug("Account email sent", zap.String("kind", msg.Kind), zap.String("to", msg.To))
	}()
}

// Wait blocks until in-flight sends finish; used on shutdown
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
