package email

import "context"

// Message is one outgoing HTML email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// TemplateData is passed to the mail templates.
type TemplateData struct {
	Name      string
	ActionURL string
	AppName   string
}
