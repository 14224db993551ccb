package facta

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/sirupsen/logrus"
)

const endpointEligibility = "autoriza-consulta"

type eligibilityResponse struct {
	envelope
	DadosTrabalhador *struct {
		Dados []models.Worker `json:"dados"`
	} `json:"dados_trabalhador"`
}

// QueryEligibility fetches worker data for cpf. Failures never surface as
// errors: they are folded into the NotFound and TransportError outcomes.
func (c *Client) QueryEligibility(ctx context.Context, cpf string) models.EligibilityResult {
	start := time.Now()
	body, err := c.get(ctx, endpointEligibility, "/consignado-trabalhador/autoriza-consulta", url.Values{"cpf": {cpf}})
	if err != nil {
		c.observe(endpointEligibility, start, err)
		c.log.WithFields(logrus.Fields{"cpf": cpf, "category": CategoryOf(err)}).Warnf("Eligibility query failed: %v", err)
		return models.EligibilityResult{
			CPF:     cpf,
			Status:  models.EligibilityTransportError,
			Message: err.Error(),
		}
	}

	result := parseEligibilityResponse(cpf, body)
	switch result.Status {
	case models.EligibilityFound:
		c.observe(endpointEligibility, start, nil)
		c.log.WithField("cpf", cpf).Infof("Worker data found: %s", result.Worker.Name)
	case models.EligibilityNotFound:
		c.observe(endpointEligibility, start, newError(UpstreamBusinessError, endpointEligibility, result.Message, nil))
		c.log.WithField("cpf", cpf).Infof("Worker data not found: %s", result.Message)
	default:
		c.observe(endpointEligibility, start, newError(ParseFailure, endpointEligibility, result.Message, nil))
		c.log.WithField("cpf", cpf).Warnf("Eligibility response unusable: %s", result.Message)
	}
	return result
}

func parseEligibilityResponse(cpf string, body []byte) models.EligibilityResult {
	var data eligibilityResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.EligibilityResult{
			CPF:     cpf,
			Status:  models.EligibilityTransportError,
			Message: "malformed response: " + err.Error(),
		}
	}

	if data.failed() || data.DadosTrabalhador == nil || len(data.DadosTrabalhador.Dados) == 0 {
		msg := data.Mensagem
		if msg == "" {
			msg = "Dados não encontrados"
		}
		return models.EligibilityResult{
			CPF:     cpf,
			Status:  models.EligibilityNotFound,
			Message: msg,
		}
	}

	worker := data.DadosTrabalhador.Dados[0]
	return models.EligibilityResult{
		CPF:     cpf,
		Status:  models.EligibilityFound,
		Message: data.Mensagem,
		Worker:  &worker,
	}
}
