package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/MirosMazurenko/Banking-solution/internal/config"
	"github.com/MirosMazurenko/Banking-solution/internal/service"
)

// Sender handles sending operational alerts via SMTP
type Sender struct {
	cfg *config.Config
	log *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, log *logrus.Logger) *Sender {
	return &Sender{
		cfg: cfg,
		log: log,
	}
}

// SendAuditAlert reports accounts whose balance no longer matches the
// signed sum of their transaction history.
func (s *Sender) SendAuditAlert(discrepancies []service.Discrepancy) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	e.Subject = fmt.Sprintf("Balance audit: %d account(s) with drift", len(discrepancies))

	var body strings.Builder
	fmt.Fprintf(&body, "Balance audit at %s found discrepancies:\n\n", time.Now().Format("2006-01-02 15:04:05"))
	for _, d := range discrepancies {
		fmt.Fprintf(&body,
			"Account %d: stored balance %s, transaction history total %s, drift %s\n",
			d.AccountID, d.Balance.StringFixed(2), d.HistoryTotal.StringFixed(2), d.Drift.StringFixed(2),
		)
	}
	body.WriteString("\nInvestigate before the drift compounds.\n")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.log.Errorf("Failed to send audit alert to %s: %v", s.cfg.AlertEmail, err)
		return fmt.Errorf("failed to send audit alert: %w", err)
	}

	s.log.Infof("Audit alert sent to %s", s.cfg.AlertEmail)
	return nil
}
