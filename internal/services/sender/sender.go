// Package services содержит воркер отправки писем: коды подтверждения почты,
// чеки об оплате и напоминания об истечении сертификатов.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eduline/course-platform/internal/lib/format"
	"github.com/eduline/course-platform/internal/lib/sl"
	smtplib "github.com/eduline/course-platform/internal/lib/smtp"
	"github.com/eduline/course-platform/internal/models"
)

// Transport устанавливает SMTP-соединение для отправки письма.
type Transport interface {
	Connect() (smtplib.Client, error)
	// Sender — envelope-адрес для MAIL FROM, From — заголовок письма.
	Sender() string
	From() string
}

type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendVerificationEmail отправляет код подтверждения почты.
func (s *SenderService) SendVerificationEmail(body []byte) error {
	var message models.VerificationEmail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Confirm your email address"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour verification code is %s.\n\nThe code expires in 24 hours.",
		message.Username, message.Code)

	return s.sendEmail(to, subject, bodyText)
}

// SendPaymentReceipt отправляет чек об успешной оплате.
func (s *SenderService) SendPaymentReceipt(body []byte) error {
	var message models.PaymentReceipt
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Your payment receipt"
	bodyText := fmt.Sprintf("Hello, %s!\n\nWe received your payment of %s for %s.\n\nThank you for studying with us.",
		message.Username, format.CurrencyCents(message.AmountCents), message.ProductTitle)

	return s.sendEmail(to, subject, bodyText)
}

// SendCertificateReminder отправляет напоминание об истечении сертификата.
func (s *SenderService) SendCertificateReminder(body []byte) error {
	var message models.CertificateReminder
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := "Your certificate is about to expire"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour certificate for %s (code %s) expires on %s.\n\nRenew it before the expiry date to keep it valid.",
		message.Username, message.ExamTitle, message.Code, format.Date(message.ExpiresAt))

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.Sender()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.Sender(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
