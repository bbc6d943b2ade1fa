package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"inkwell_backend/internal/models"
)

// Mailer turns a token into a link email for its purpose.
type Mailer struct {
	sender      Sender
	templates   *TemplateManager
	frontendURL string
	appName     string
}

func NewMailer(sender Sender, frontendURL, appName string) *Mailer {
	if appName == "" {
		appName = "Inkwell"
	}
	return &Mailer{
		sender:      sender,
		templates:   NewTemplateManager(),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		appName:     appName,
	}
}

type purposeMail struct {
	template string
	subject  string
	path     string
}

var purposeMails = map[models.TokenPurpose]purposeMail{
	models.PurposeActivation:    {TemplateActivation, "Activate your account", "/activate"},
	models.PurposePasswordReset: {TemplatePasswordReset, "Reset your password", "/reset-password"},
	models.PurposeDeletion:      {TemplateDeletion, "Confirm account deletion", "/delete-account"},
}

// Link builds the frontend URL that carries token.
func (m *Mailer) Link(purpose models.TokenPurpose, token string) string {
	pm := purposeMails[purpose]
	return m.frontendURL + pm.path + "?token=" + url.QueryEscape(token)
}

// SendToken mails the link for token to user.
func (m *Mailer) SendToken(ctx context.Context, purpose models.TokenPurpose, user *models.User, token string) error {
	pm, ok := purposeMails[purpose]
	if !ok {
		return fmt.Errorf("no mail for token purpose %q", purpose)
	}

	body, err := m.templates.Render(pm.template, TemplateData{
		Name:      user.DisplayName(),
		ActionURL: m.Link(purpose, token),
		AppName:   m.appName,
	})
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, &Message{
		To:       user.Email,
		Subject:  pm.subject,
		HTMLBody: body,
	})
}
