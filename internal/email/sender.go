// Package email envía emails renderizados desde templates de email.
package email

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/hellocms/internal/observability/logger"
)

// Message es un email listo para enviar.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender entrega mensajes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender envía por SMTP con go-mail.
type SMTPSender struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
}

// NewSMTPSender crea un sender con STARTTLS negociado.
func NewSMTPSender(host string, port int, from, user, pass string) *SMTPSender {
	return &SMTPSender{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: "starttls",
	}
}

// buildMessage arma el MIME; con ambos cuerpos usa multipart/alternative (txt + html).
func buildMessage(from string, msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.TextBody != "" {
		m.SetBody("text/plain", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		if msg.TextBody == "" {
			m.SetBody("text/html", msg.HTMLBody)
		} else {
			m.AddAlternative("text/html", msg.HTMLBody)
		}
	}
	return m
}

func (s *SMTPSender) dialer() *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // sólo dev
	}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify}
		d.StartTLSPolicy = mail.NoStartTLS
	}
	return d
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.From(ctx).With(logger.Component("smtp"), logger.Any("to", msg.To))
	log.Debug("smtp send", logger.Any("host", s.Host), logger.Any("tls_mode", s.TLSMode))

	if err := s.dialer().DialAndSend(buildMessage(s.From, msg)); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Info("smtp send ok")
	return nil
}
