// Package mail envío de correos transaccionales (códigos OTP).
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// SMTPMailer envía por SMTP con gomail.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	log    *logger.Logger
}

// NewSMTPMailer configura el dialer según SMTP_ENCRYPTION (ssl, tls o none).
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, fmt.Errorf("smtp: host, puerto y remitente son obligatorios")
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}
	return &SMTPMailer{cfg: cfg, dialer: d, log: log}, nil
}

// SendOTP arma y envía el correo del código. Respeta la cancelación del contexto.
func (m *SMTPMailer) SendOTP(ctx context.Context, to, purpose, code string, ttlMinutes int) error {
	subject, text := otpContent(purpose, code, ttlMinutes)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.SenderName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp: envío cancelado: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
	}
	m.log.Info().Str("to", to).Str("purpose", purpose).Msg("correo OTP enviado")
	return nil
}

// LogMailer reemplazo cuando no hay SMTP configurado: solo deja constancia en el log.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendOTP(_ context.Context, to, purpose, _ string, _ int) error {
	m.log.Info().Str("to", to).Str("purpose", purpose).Msg("SMTP no configurado, correo omitido")
	return nil
}

func otpContent(purpose, code string, ttlMinutes int) (subject, body string) {
	switch purpose {
	case entity.OTPPurposeResetPassword:
		subject = "Reset your password"
		body = fmt.Sprintf("Your password reset code is %s.\nIt expires in %d minutes. If you did not request it, ignore this email.", code, ttlMinutes)
	default:
		subject = "Verify your account"
		body = fmt.Sprintf("Your verification code is %s.\nIt expires in %d minutes.", code, ttlMinutes)
	}
	return subject, body
}
