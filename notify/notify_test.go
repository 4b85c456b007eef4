package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"task-service/config"
	"task-service/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu      sync.Mutex
	sent    []models.MailMessage
	err     error
	release chan struct{}
}

func (m *recordingMailer) Send(ctx context.Context, msg models.MailMessage) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) messages() []models.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.MailMessage(nil), m.sent...)
}

type panickyMailer struct{}

func (panickyMailer) Send(ctx context.Context, msg models.MailMessage) error { panic("boom") }

func TestMessages(t *testing.T) {
	w := WelcomeMessage("mike@example.com", "Mike")
	assert.Equal(t, KindWelcome, w.Kind)
	assert.Equal(t, "mike@example.com", w.To)
	assert.Equal(t, "Thanks for joining in!", w.Subject)
	assert.Contains(t, w.Text, "Welcome to the app, Mike.")

	g := GoodbyeMessage("mike@example.com", "Mike")
	assert.Equal(t, KindGoodbye, g.Kind)
	assert.Equal(t, "Sorry to see you go!", g.Subject)
	assert.Contains(t, g.Text, "Goodbye, Mike.")
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	mailer := &recordingMailer{release: make(chan struct{})}
	d := NewDispatcher(mailer, time.Second)

	done := make(chan struct{})
	go func() {
		d.Welcome("mike@example.com", "Mike")
		d.Goodbye("jess@example.com", "Jess")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on a slow mailer")
	}

	close(mailer.release)
	d.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 2)
	kinds := []string{sent[0].Kind, sent[1].Kind}
	assert.ElementsMatch(t, []string{KindWelcome, KindGoodbye}, kinds)
}

func TestDispatcher_SwallowsFailures(t *testing.T) {
	failing := &recordingMailer{err: errors.New("gateway down")}
	d := NewDispatcher(failing, 0)
	d.Welcome("mike@example.com", "Mike")
	d.Wait()
	assert.Len(t, failing.messages(), 1)

	p := NewDispatcher(panickyMailer{}, time.Second)
	assert.NotPanics(t, func() {
		p.Goodbye("mike@example.com", "Mike")
		p.Wait()
	})
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Welcome("mike@example.com", "Mike")
		d.Wait()
	})
	assert.NotPanics(t, func() {
		NewDispatcher(nil, time.Second).Welcome("a@b.c", "A")
	})
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), WelcomeMessage("a@b.c", "A")))
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaMailer_Send(t *testing.T) {
	w := &fakeWriter{}
	m := &KafkaMailer{writer: w}

	require.NoError(t, m.Send(context.Background(), WelcomeMessage("mike@example.com", "Mike")))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("mike@example.com"), w.msgs[0].Key)

	var got models.MailMessage
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, WelcomeMessage("mike@example.com", "Mike"), got)

	w.err = errors.New("broker down")
	assert.Error(t, m.Send(context.Background(), GoodbyeMessage("mike@example.com", "Mike")))
	assert.NoError(t, m.Close())
}

func TestNewKafkaMailer(t *testing.T) {
	m := NewKafkaMailer(config.KafkaConfig{Broker: "localhost:9092", Topic: "account-mail", Username: "u", Password: "p"})
	kw, ok := m.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "account-mail", kw.Topic)
}

func TestSMTPMailer_BuildMessage(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{From: "no-reply@example.com", FromName: "Task Service", SMTPHost: "smtp.example.com"})

	raw := string(m.buildMessage(WelcomeMessage("mike@example.com", "Mike")))
	assert.True(t, strings.HasPrefix(raw, "From: Task Service <no-reply@example.com>\r\n"))
	assert.Contains(t, raw, "To: mike@example.com\r\n")
	assert.Contains(t, raw, "Subject: Thanks for joining in!\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nWelcome to the app, Mike. Let me know how you get along with the app."))
}

func TestSMTPMailer_DialFailure(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1, From: "a@b.c"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, m.Send(ctx, WelcomeMessage("mike@example.com", "Mike")))
}
