// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/shop-backend/internal/config"
	"github.com/javajoker/shop-backend/internal/models"
)

// Mailer delivers a rendered HTML email.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type NotificationService struct {
	config    *config.Config
	mailer    Mailer
	templates map[string]*template.Template
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	var mailer Mailer
	if cfg.Email.SMTPHost == "" {
		mailer = &logMailer{}
	} else {
		mailer = &smtpMailer{cfg: cfg.Email}
	}
	return NewNotificationServiceWithMailer(cfg, mailer)
}

func NewNotificationServiceWithMailer(cfg *config.Config, mailer Mailer) *NotificationService {
	s := &NotificationService{
		config:    cfg,
		mailer:    mailer,
		templates: make(map[string]*template.Template),
	}
	for name, tpl := range emailTemplates {
		s.templates[name] = template.Must(template.New(name).Parse(tpl.Body))
	}
	return s
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	data := map[string]interface{}{
		"Name":     displayName(user),
		"ShopURL":  s.config.Frontend.BaseURL,
		"ShopName": s.config.Email.FromName,
	}
	return s.send(user.Email, "welcome", data)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	data := map[string]interface{}{
		"Name":      displayName(user),
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}
	return s.send(user.Email, "password_reset", data)
}

// Order notifications
func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	data := map[string]interface{}{
		"Name":        order.ShippingName,
		"OrderNumber": order.OrderNumber,
		"Items":       order.Items,
		"Subtotal":    order.Subtotal.StringFixed(2),
		"Shipping":    order.Shipping.StringFixed(2),
		"Total":       order.Total.StringFixed(2),
		"OrderURL":    fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.OrderNumber),
	}
	return s.send(order.ShippingEmail, "order_confirmation", data)
}

func (s *NotificationService) SendOrderStatusUpdate(order *models.Order, previous models.OrderStatus) error {
	data := map[string]interface{}{
		"Name":        order.ShippingName,
		"OrderNumber": order.OrderNumber,
		"OldStatus":   previous,
		"NewStatus":   order.Status,
		"OrderURL":    fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.OrderNumber),
	}
	return s.send(order.ShippingEmail, "order_status", data)
}

// Helper methods
func (s *NotificationService) send(to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template %q", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := emailTemplates[templateName].Subject
	if number, ok := data["OrderNumber"].(string); ok {
		subject = subject + " - " + number
	}

	return s.mailer.Send(to, subject, buf.String())
}

func displayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Email
}

type smtpMailer struct {
	cfg config.EmailConfig
}

func (m *smtpMailer) Send(to, subject, body string) error {
	// Setup authentication
	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.FromName, m.cfg.FromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	return smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg)
}

// logMailer is used when SMTP is not configured.
type logMailer struct{}

func (m *logMailer) Send(to, subject, _ string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email not sent, SMTP is not configured")
	return nil
}

// RecordingMailer keeps sent messages in memory.
type RecordingMailer struct {
	mu       sync.Mutex
	Messages []SentEmail
}

type SentEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *RecordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *RecordingMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.Messages))
	copy(out, m.Messages)
	return out
}

var emailTemplates = map[string]EmailTemplate{
	"welcome": {
		Subject: "Welcome",
		Body: `<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Name}}!</h2>
	<p>Thank you for creating an account with {{.ShopName}}.</p>
	<a href="{{.ShopURL}}">Start shopping</a>
</body>
</html>`,
	},
	"password_reset": {
		Subject: "Password Reset Request",
		Body: `<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>We received a request to reset your password. The link below expires in {{.ExpiresIn}}.</p>
	<a href="{{.ResetURL}}">Reset password</a>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
	},
	"order_confirmation": {
		Subject: "Order Confirmation",
		Body: `<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.Name}}!</h2>
	<p>Order number: <strong>{{.OrderNumber}}</strong></p>
	<table>
	{{range .Items}}<tr><td>{{if .Product}}{{.Product.Name}}{{else}}Product #{{.ProductID}}{{end}}</td><td>x{{.Quantity}}</td><td>{{.Price.StringFixed 2}}</td></tr>
	{{end}}</table>
	<p>Subtotal: {{.Subtotal}}<br>Shipping: {{.Shipping}}<br><strong>Total: {{.Total}}</strong></p>
	<a href="{{.OrderURL}}">View your order</a>
</body>
</html>`,
	},
	"order_status": {
		Subject: "Order Status Update",
		Body: `<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>Your order {{.OrderNumber}} is now <strong>{{.NewStatus}}</strong> (was {{.OldStatus}}).</p>
	<a href="{{.OrderURL}}">View your order</a>
</body>
</html>`,
	},
}
