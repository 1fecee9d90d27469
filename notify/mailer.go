package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/palrajin0126/ecom/config"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host       string
	port       string
	username   string
	password   string
	adminEmail string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUser,
		password:   cfg.SMTPPass,
		adminEmail: cfg.AdminEmail,
	}
}

// SendOrderConfirmation mails the order summary to the customer, with the
// admin address in copy.
func (m *Mailer) SendOrderConfirmation(ev OrderConfirmation) error {
	if ev.Email == "" {
		return fmt.Errorf("recipient email is not defined")
	}
	subject := fmt.Sprintf("Order Confirmation - #%s", ev.OrderNumber)
	body := BuildOrderConfirmationBody(ev)

	recipients := []string{ev.Email}
	cc := ""
	if m.adminEmail != "" {
		recipients = append(recipients, m.adminEmail)
		cc = "Cc: " + m.adminEmail + "\r\n"
	}
	return m.send(ev.Email, cc, subject, body, recipients)
}

// SendContactMessage forwards a contact-form submission to the admin.
func (m *Mailer) SendContactMessage(name, email, phone, topic, message string) error {
	if m.adminEmail == "" {
		return fmt.Errorf("admin email is not configured")
	}
	subject := fmt.Sprintf("New Contact Request from %s", name)
	body := BuildContactBody(name, email, phone, topic, message)
	return m.send(m.adminEmail, "", subject, body, []string{m.adminEmail})
}

func (m *Mailer) send(to, cc, subject, body string, recipients []string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\n%sSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.username, to, cc, subject, body)

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" && m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(addr, auth, m.username, recipients, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// BuildOrderConfirmationBody renders the HTML order summary.
func BuildOrderConfirmationBody(ev OrderConfirmation) string {
	var itemsHTML strings.Builder
	for _, item := range ev.Items {
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">&#8377;%.2f</td>
			</tr>`,
			item.ProductName, item.Quantity, item.Price*float64(item.Quantity),
		))
	}

	return fmt.Sprintf(`<h1>Hi %s,</h1>
<p>Your order has been successfully placed!</p>
<h2>Order Summary:</h2>
<p>Order Number: %s</p>
<table style="width: 100%%; border-collapse: collapse;">
	<tr>
		<th style="padding: 8px; text-align: left;">Product</th>
		<th style="padding: 8px;">Qty</th>
		<th style="padding: 8px; text-align: right;">Amount</th>
	</tr>
	%s
</table>
<h3>Total: &#8377;%.2f</h3>
<p>Thank you for shopping with us!</p>`,
		ev.CustomerName, ev.OrderNumber, itemsHTML.String(), ev.Total)
}

// BuildContactBody renders the contact-form forward.
func BuildContactBody(name, email, phone, topic, message string) string {
	return fmt.Sprintf(`<h1>New Contact Request</h1>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Query Type:</strong> %s</p>
<p><strong>Message:</strong> %s</p>`,
		name, email, phone, topic, message)
}
