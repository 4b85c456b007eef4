package models

// MailMessage is a single outbound account email
// It is also the JSON payload published to the mail queue
type MailMessage struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
