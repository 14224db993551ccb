package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dan9191/clt-simulator/internal/config"
	"github.com/Dan9191/clt-simulator/internal/export"
	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
	now    func() time.Time
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	s.send = s.smtpSend
	return s
}

// SendBatchReport mails the full export of a finished batch
func (s *Sender) SendBatchReport(batchID string, sims []*models.Simulation) error {
	e, err := s.buildBatchReport(batchID, sims)
	if err != nil {
		return err
	}

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send batch report %s to %s: %v", batchID, s.cfg.ReportEmailTo, err)
		return fmt.Errorf("failed to send batch report: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.ReportEmailTo, e.Subject)
	return nil
}

func (s *Sender) buildBatchReport(batchID string, sims []*models.Simulation) (*email.Email, error) {
	now := s.now()

	var eligible, failed int
	for _, sim := range sims {
		switch {
		case sim.Eligible == "Sim":
			eligible++
		case sim.Status == "Erro":
			failed++
		}
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.ReportEmailTo}
	e.Subject = fmt.Sprintf("Simulação CLT concluída - %s", now.Format("02/01/2006 15:04"))

	body := "Olá,\n\n"
	body += fmt.Sprintf(
		"O lote %s foi processado.\n"+
			"CPFs processados: %d\n"+
			"Elegíveis: %d\n"+
			"Sem dados: %d\n",
		batchID, len(sims), eligible, failed,
	)
	body += "\nA planilha completa segue em anexo.\n\nRobô Maffezzolli"
	e.Text = []byte(body)

	var buf bytes.Buffer
	if err := export.WriteSheetCSV(&buf, sims); err != nil {
		return nil, fmt.Errorf("failed to build report attachment: %w", err)
	}
	if _, err := e.Attach(&buf, export.SheetFileName(now, "csv"), "text/csv; charset=utf-8"); err != nil {
		return nil, fmt.Errorf("failed to attach report: %w", err)
	}
	return e, nil
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}
