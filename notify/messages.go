// Package notify sends account emails (welcome, goodbye) without ever holding
// up the request that triggered them.
package notify

import (
	"context"
	"fmt"

	"task-service/models"
)

const (
	KindWelcome = "welcome"
	KindGoodbye = "goodbye"
)

// Mailer delivers a single message
type Mailer interface {
	Send(ctx context.Context, msg models.MailMessage) error
}

func WelcomeMessage(email, name string) models.MailMessage {
	return models.MailMessage{
		Kind:    KindWelcome,
		To:      email,
		Name:    name,
		Subject: "Thanks for joining in!",
		Text:    fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name),
	}
}

func GoodbyeMessage(email, name string) models.MailMessage {
	return models.MailMessage{
		Kind:    KindGoodbye,
		To:      email,
		Name:    name,
		Subject: "Sorry to see you go!",
		Text:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name),
	}
}
