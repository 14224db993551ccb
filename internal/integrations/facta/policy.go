package facta

import (
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	endpointPolicy = "valida-politica-credito"

	// DefaultCNAE is sent when the employer's industry code is unknown
	DefaultCNAE = "00"
	// DefaultPolicyTerm is the term, in months, the policy is evaluated for
	DefaultPolicyTerm = 36
)

// PolicyQuery carries the derived worker attributes the policy check needs
type PolicyQuery struct {
	CPF          string
	BirthDate    string
	TenureMonths int
	Income       float64
	Sex          string
}

type policyResponse struct {
	envelope
	Prazo *models.Amount `json:"prazo"`
	Valor *models.Amount `json:"valor"`
}

// QueryPolicy returns the maximum approvable value and term for the worker
func (c *Client) QueryPolicy(ctx context.Context, q PolicyQuery) (limit *models.PolicyLimit, err error) {
	start := time.Now()
	defer func() { c.observe(endpointPolicy, start, err) }()

	params := url.Values{
		"cpf":                 {q.CPF},
		"tempo_meses_empresa": {strconv.Itoa(q.TenureMonths)},
		"data_nascimento":     {q.BirthDate},
		"prazo":               {strconv.Itoa(DefaultPolicyTerm)},
		"valor":               {strconv.FormatInt(int64(math.Round(q.Income*100)), 10)},
		"cnae":                {DefaultCNAE},
		"sexo":                {q.Sex},
	}

	body, err := c.get(ctx, endpointPolicy, "/consignado-trabalhador/valida-politica-credito", params)
	if err != nil {
		return nil, err
	}

	limit, err = parsePolicyResponse(body)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"cpf":       q.CPF,
		"max_value": limit.MaxValue,
		"max_term":  limit.MaxTerm,
	}).Info("Credit policy retrieved")
	return limit, nil
}

func parsePolicyResponse(body []byte) (*models.PolicyLimit, error) {
	var data policyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, newError(ParseFailure, endpointPolicy, "malformed response", err)
	}
	if data.failed() {
		return nil, newError(UpstreamBusinessError, endpointPolicy, data.Mensagem, nil)
	}
	if data.Valor == nil || data.Prazo == nil {
		return nil, newError(ParseFailure, endpointPolicy, "missing valor or prazo", nil)
	}
	return &models.PolicyLimit{
		MaxValue: float64(*data.Valor),
		MaxTerm:  int(*data.Prazo),
	}, nil
}
