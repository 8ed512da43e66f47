package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Renderer renderiza un template de email por ruta relativa a la raíz de templates.
type Renderer interface {
	RenderRelative(ctx context.Context, rel string, data any) (string, error)
}

// Mailer arma el mensaje a partir de un template y lo entrega con Sender.
type Mailer struct {
	renderer Renderer
	sender   Sender
}

// NewMailer crea un Mailer.
func NewMailer(r Renderer, s Sender) *Mailer {
	return &Mailer{renderer: r, sender: s}
}

// Send renderiza tpl (ruta relativa, p.ej. "account/welcome.html") y, si existe,
// su variante de texto ("account/welcome.txt"), y envía el resultado.
func (m *Mailer) Send(ctx context.Context, to, subject, tpl string, data any) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("email: recipient is required")
	}
	html, err := m.renderer.RenderRelative(ctx, tpl, data)
	if err != nil {
		return fmt.Errorf("email: render %s: %w", tpl, err)
	}

	var text string
	if alt := textVariant(tpl); alt != "" {
		// la variante de texto es opcional
		if t, err := m.renderer.RenderRelative(ctx, alt, data); err == nil {
			text = t
		}
	}

	return m.sender.Send(ctx, Message{To: to, Subject: subject, HTMLBody: html, TextBody: text})
}

func textVariant(tpl string) string {
	if base, ok := strings.CutSuffix(tpl, ".html"); ok {
		return base + ".txt"
	}
	return ""
}
