package email

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/clt-simulator/internal/config"
	"github.com/Dan9191/clt-simulator/internal/models"
)

func newTestSender(send func(*email.Email) error) *Sender {
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewSender(&config.Config{
		SenderEmail:   "robo@example.com",
		ReportEmailTo: "ops@example.com",
	}, log)
	s.send = send
	s.now = func() time.Time { return time.Date(2026, 10, 16, 9, 5, 0, 0, time.UTC) }
	return s
}

func TestSendBatchReport(t *testing.T) {
	sims := []*models.Simulation{
		{CPF: "12345678901", Status: "Sucesso", Eligible: "Sim"},
		{CPF: "00000000001", Status: "Erro", Eligible: "N/A"},
		{CPF: "00000000002", Status: "Sucesso", Eligible: "Nao"},
	}

	t.Run("builds message with attachment", func(t *testing.T) {
		var sent *email.Email
		s := newTestSender(func(e *email.Email) error {
			sent = e
			return nil
		})

		require.NoError(t, s.SendBatchReport("batch-1", sims))
		require.NotNil(t, sent)

		assert.Equal(t, "robo@example.com", sent.From)
		assert.Equal(t, []string{"ops@example.com"}, sent.To)
		assert.Equal(t, "Simulação CLT concluída - 16/10/2026 09:05", sent.Subject)

		body := string(sent.Text)
		assert.Contains(t, body, "batch-1")
		assert.Contains(t, body, "CPFs processados: 3")
		assert.Contains(t, body, "Elegíveis: 1")
		assert.Contains(t, body, "Sem dados: 1")

		require.Len(t, sent.Attachments, 1)
		att := sent.Attachments[0]
		assert.Equal(t, "Resultado16-10h09-05.csv", att.Filename)
		assert.True(t, strings.HasPrefix(string(att.Content), "CPF;Nome;Status"))
	})

	t.Run("propagates send failures", func(t *testing.T) {
		s := newTestSender(func(*email.Email) error { return errors.New("smtp down") })
		err := s.SendBatchReport("batch-1", sims)
		assert.ErrorContains(t, err, "smtp down")
	})
}
