// Package mailer sends the site's transactional email: contact confirmations,
// admin reply notifications and payment receipts.
package mailer

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/smtp"
	"text/template"
)

// ContactInfo describes a contact-form submission for the confirmation mail.
type ContactInfo struct {
	Name     string
	Email    string
	Message  string
	Country  string
	ClientIP string
	Existing bool // repeat submission from a known contact
}

// PaymentDetails describes a completed payment for the receipt mail.
type PaymentDetails struct {
	TransactionID string
	Amount        float64
	Currency      string
	Date          string
	Description   string
	Status        string
}

// Mailer is the notification contract consumed by the services. Every method
// either completes (the relay accepted the message) or returns a transport
// error; callers treat failures as non-fatal to the database write.
type Mailer interface {
	// SendContactConfirmation mails the submitter and sends the admin a copy.
	SendContactConfirmation(info ContactInfo) error
	// SendReplyToContact mails the contact the original message and the reply.
	SendReplyToContact(name, email, original, reply string) error
	// SendPaymentConfirmation mails the payer a receipt.
	SendPaymentConfirmation(name, email string, details PaymentDetails) error
}

// Config holds the SMTP relay settings.
type Config struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	AdminEmail string
}

// SMTPMailer sends mail through a plain-auth SMTP relay. With no Host
// configured the messages are logged instead of sent, so development setups
// work without a relay.
type SMTPMailer struct {
	cfg Config
}

// New creates an SMTPMailer with the given configuration.
func New(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

var _ Mailer = (*SMTPMailer)(nil)

var contactConfirmationTmpl = template.Must(template.New("contact_confirmation").Parse(
	`Hola {{.Name}},

Hemos recibido tu mensaje con el siguiente contenido:
"{{.Message}}"

Nos pondremos en contacto contigo lo antes posible.

Gracias,
Equipo de Ciclexpress
`))

var contactAdminNoticeTmpl = template.Must(template.New("contact_admin_notice").Parse(
	`Nuevo mensaje de contacto:

Nombre: {{.Name}}
Email: {{.Email}}
Mensaje: {{.Message}}
País: {{.Country}}
IP: {{.ClientIP}}
Estado: {{if .Existing}}Contacto existente, nuevo mensaje{{else}}Nuevo contacto y mensaje{{end}}
`))

var replyTmpl = template.Must(template.New("reply").Parse(
	`Hola {{.Name}},

Hemos recibido tu mensaje:
"{{.Original}}"

Nuestra respuesta es la siguiente:
"{{.Reply}}"

Esperamos haber resuelto tu consulta. Si tienes más preguntas, no dudes en contactarnos.

Saludos,
Equipo de Ciclexpress
`))

var paymentTmpl = template.Must(template.New("payment").Parse(
	`Hola {{.Name}},

Gracias por tu pago. Hemos recibido la siguiente transacción:

ID de Transacción: {{.Details.TransactionID}}
Monto: {{printf "%.2f" .Details.Amount}} {{.Details.Currency}}
Fecha: {{.Details.Date}}
Descripción: {{.Details.Description}}
Estado: {{.Details.Status}}

Tu pago ha sido procesado exitosamente.

Saludos,
Equipo de Ciclexpress
`))

// SendContactConfirmation mails the submitter, then the admin address. The
// admin copy failing does not undo the submitter confirmation; the first
// error encountered is returned.
func (m *SMTPMailer) SendContactConfirmation(info ContactInfo) error {
	subject := "Gracias por tu mensaje - Ciclexpress"
	if info.Existing {
		subject = "Tu mensaje ha sido recibido - Ciclexpress"
	}
	body, err := render(contactConfirmationTmpl, info)
	if err != nil {
		return err
	}
	if err := m.send(info.Email, subject, body); err != nil {
		return err
	}

	if m.cfg.AdminEmail == "" {
		return nil
	}
	notice, err := render(contactAdminNoticeTmpl, info)
	if err != nil {
		return err
	}
	return m.send(m.cfg.AdminEmail,
		fmt.Sprintf("[Ciclexpress] Nuevo mensaje de contacto de %s", info.Name), notice)
}

// SendReplyToContact mails the contact the original message and the admin's reply.
func (m *SMTPMailer) SendReplyToContact(name, email, original, reply string) error {
	body, err := render(replyTmpl, struct {
		Name, Original, Reply string
	}{name, original, reply})
	if err != nil {
		return err
	}
	return m.send(email, "Respuesta a tu consulta de Ciclexpress", body)
}

// SendPaymentConfirmation mails the payer a receipt for the recorded transaction.
func (m *SMTPMailer) SendPaymentConfirmation(name, email string, details PaymentDetails) error {
	body, err := render(paymentTmpl, struct {
		Name    string
		Details PaymentDetails
	}{name, details})
	if err != nil {
		return err
	}
	return m.send(email, "Confirmación de Pago - Ciclexpress", body)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.cfg.Host == "" {
		slog.Info("smtp not configured, logging mail instead",
			"to", to, "subject", subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n%s",
		m.cfg.From, to, subject, body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
