// Package notify sends workflow emails: submission receipts to the
// requester and status-change notices. When SMTP is not configured the
// mailer degrades to a no-op so the service runs unchanged in development.
package notify

import (
	"fmt"
	"io"

	"github.com/go-gomail/gomail"
	"go.uber.org/zap"

	"github.com/camara-itapoa/diaria-engine/diaria"
	"github.com/camara-itapoa/diaria-engine/logging"
	"github.com/camara-itapoa/diaria-engine/workflow"
)

// Mailer sends process notifications over SMTP.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	enabled  bool
}

// Config for the mailer. An empty Host or From disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// New builds a Mailer. Disabled mailers accept every call and do nothing.
func New(cfg Config) *Mailer {
	enabled := cfg.Host != "" && cfg.From != ""
	if !enabled {
		logging.Info("SMTP not configured, email notifications disabled")
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
		enabled:  enabled,
	}
}

// Enabled reports whether emails will actually be sent.
func (m *Mailer) Enabled() bool { return m.enabled }

// SendSubmissionReceipt mails the requester their protocol confirmation,
// with the request summary PDF attached when provided.
func (m *Mailer) SendSubmissionReceipt(p *workflow.Process, pdf []byte) error {
	subject := fmt.Sprintf("Solicitação de diárias protocolada - Processo nº %d", p.ID)
	body := fmt.Sprintf(
		"Sua solicitação de diárias para %s foi protocolada sob o processo nº %d.<br>"+
			"Saída: %s - Retorno: %s<br>"+
			"Valor total a empenhar: %s<br>",
		p.Destination, p.ID,
		diaria.FormatDate(p.Departure), diaria.FormatDate(p.Return),
		diaria.FormatCurrency(p.TotalToCommit))

	return m.send(p.RequesterEmail, subject, body, p.ID, pdf)
}

// SendStatusChange mails the requester when their process moves.
func (m *Mailer) SendStatusChange(p *workflow.Process, entry workflow.HistoryEntry) error {
	subject := fmt.Sprintf("Processo nº %d: %s", p.ID, entry.To.Label())
	body := fmt.Sprintf(
		"O processo nº %d mudou de situação:<br>%s &rarr; %s<br>",
		p.ID, entry.From.Label(), entry.To.Label())
	if entry.Note != "" {
		body += fmt.Sprintf("Anotação: %s<br>", entry.Note)
	}

	return m.send(p.RequesterEmail, subject, body, p.ID, nil)
}

func (m *Mailer) send(to, subject, body string, processID int64, pdf []byte) error {
	if !m.enabled {
		return nil
	}
	if to == "" {
		logging.Warn("process has no requester email, skipping notification",
			zap.Int64("processo", processID))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	if len(pdf) > 0 {
		name := fmt.Sprintf("processo-%d.pdf", processID)
		msg.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}))
	}

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
