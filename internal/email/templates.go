package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateActivation    = "activation"
	TemplatePasswordReset = "password_reset"
	TemplateDeletion      = "account_deletion"
)

// TemplateManager renders mail bodies. html/template escapes every value.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager returns a manager preloaded with the built-in templates.
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		// built-in templates are constants; a parse failure is a programming error
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate registers or replaces a template.
func (tm *TemplateManager) AddTemplate(name, templateStr string) error {
	tpl, err := template.New(name).Parse(layoutStart + templateStr + layoutEnd)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

const layoutStart = `<!DOCTYPE html>
<html><body style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
<h2>{{.AppName}}</h2>
`

const layoutEnd = `
<p style="color: #888; font-size: 12px;">If you did not request this, you can ignore this email. The link expires in 24 hours.</p>
</body></html>`

var builtinTemplates = map[string]string{
	TemplateActivation: `<p>Hi {{.Name}},</p>
<p>Thanks for signing up. Confirm your email address to activate your account:</p>
<p><a href="{{.ActionURL}}">Activate account</a></p>`,

	TemplatePasswordReset: `<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. Choose a new one here:</p>
<p><a href="{{.ActionURL}}">Reset password</a></p>`,

	TemplateDeletion: `<p>Hi {{.Name}},</p>
<p>We received a request to delete your account. This removes your posts, comments and followers permanently.</p>
<p><a href="{{.ActionURL}}">Delete my account</a></p>`,
}
