package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/smtp"

	"storefront-backend/internal/domain"
)

// OrderNotification is the operator-facing summary of a
// pay-on-delivery order. For that path this email is the only record
// of the order: there is no durable row, no retry, and no queue.
type OrderNotification struct {
	Customer   domain.PersonalDeliveryInfo
	Items      []domain.CartItem
	TotalCents int64
	Currency   string
}

// Mailer dispatches a single HTML message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint.
type SMTPMailer struct {
	host string
	port string
	from string
}

func NewSMTPMailer(host, port, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, nil, m.from, []string{to}, []byte(msg))
}

// Service formats and dispatches order notifications to a single fixed
// operator address.
type Service struct {
	mailer Mailer
	to     string
	logger *log.Logger
}

func NewService(mailer Mailer, to string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{mailer: mailer, to: to, logger: logger}
}

// SendOrderNotification dispatches the summary email. The send call's
// own result is the only confirmation; callers on the checkout path
// swallow failures.
func (s *Service) SendOrderNotification(_ context.Context, n OrderNotification) error {
	subject := fmt.Sprintf("New pay-on-delivery order from %s", n.Customer.FullName)
	body := buildOrderNotificationBody(n)
	if err := s.mailer.Send(s.to, subject, body); err != nil {
		s.logger.Printf("notify: send to=%s error=%v", s.to, err)
		return err
	}
	s.logger.Printf("notify: sent order notification to=%s total=%s", s.to, FormatAmount(n.TotalCents, n.Currency))
	return nil
}
