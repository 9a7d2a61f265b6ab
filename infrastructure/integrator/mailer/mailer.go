package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	mail "github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/config"
)

// Mailer envia os emails transacionais da autenticação
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type smtpMailer struct {
	cfg    config.Mail
	dialer dialer
}

var verificationTemplate = template.Must(template.New("verification").Parse(`
<p>Hello {{.Name}},</p>
<p>Your verification code is <strong>{{.Code}}</strong>.</p>
<p>If you did not create an account, ignore this email.</p>
`))

// New retorna um mailer SMTP. Sem SMTP_HOST configurado o código só é registrado no log.
func New(cfg config.Mail) Mailer {
	if cfg.Host == "" || cfg.From == "" {
		logrus.Warn("SMTP não configurado, códigos de verificação serão apenas registrados no log")
		return &logMailer{}
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}

	return &smtpMailer{cfg: cfg, dialer: d}
}

func (m *smtpMailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	var body bytes.Buffer
	if err := verificationTemplate.Execute(&body, map[string]string{"Name": name, "Code": code}); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your email")
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("erro ao enviar email de verificação: %w", err)
	}

	logrus.WithField("to", to).Info("Email de verificação enviado")
	return nil
}

type logMailer struct{}

func (l *logMailer) SendVerificationCode(ctx context.Context, to, name, code string) error {
	logrus.WithFields(logrus.Fields{
		"to":   to,
		"code": code,
	}).Info("Código de verificação gerado (SMTP desabilitado)")
	return nil
}
