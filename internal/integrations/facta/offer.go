package facta

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	endpointOffers = "operacoes-disponiveis"

	// DefaultOfferTerm is the term requested when the caller has no ceiling
	DefaultOfferTerm = 36
)

// Fixed product parameters of the CLT payroll-deductible loan
const (
	productCode   = "D"
	operationType = "13"
	endorser      = "10010"
	agreement     = "3"
	valueOption   = "2" // simulate by installment
)

// OfferQuery asks for the tables available at a given installment and term
type OfferQuery struct {
	CPF         string
	BirthDate   string
	Income      float64
	Installment float64
	Term        int
}

type offerTable struct {
	Tabela       models.Text    `json:"tabela"`
	CodigoTabela models.Text    `json:"codigoTabela"`
	Taxa         *models.Amount `json:"taxa"`
	Prazo        *models.Amount `json:"prazo"`
	Contrato     *models.Amount `json:"contrato"`
	Parcela      *models.Amount `json:"parcela"`
	Coeficiente  *models.Amount `json:"coeficiente"`
}

type offerResponse struct {
	envelope
	Tabelas []offerTable `json:"tabelas"`
}

// QueryOffers returns the first table offered for the installment
func (c *Client) QueryOffers(ctx context.Context, q OfferQuery) (offer *models.TableOffer, err error) {
	start := time.Now()
	defer func() { c.observe(endpointOffers, start, err) }()

	term := q.Term
	if term <= 0 {
		term = DefaultOfferTerm
	}
	params := url.Values{
		"produto":         {productCode},
		"tipo_operacao":   {operationType},
		"averbador":       {endorser},
		"convenio":        {agreement},
		"opcao_valor":     {valueOption},
		"valor_parcela":   {strconv.FormatFloat(q.Installment, 'f', 2, 64)},
		"prazo":           {strconv.Itoa(term)},
		"cpf":             {q.CPF},
		"data_nascimento": {q.BirthDate},
		"valor_renda":     {strconv.FormatFloat(q.Income, 'f', 2, 64)},
	}

	body, err := c.get(ctx, endpointOffers, "/proposta/operacoes-disponiveis", params)
	if err != nil {
		return nil, err
	}

	offer, err = parseOfferResponse(body)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"cpf":         q.CPF,
		"installment": q.Installment,
		"table":       offer.Table,
		"contract":    offer.ContractValue,
		"term":        offer.Term,
	}).Info("Table offer retrieved")
	return offer, nil
}

func parseOfferResponse(body []byte) (*models.TableOffer, error) {
	var data offerResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, newError(ParseFailure, endpointOffers, "malformed response", err)
	}
	if data.failed() {
		return nil, newError(UpstreamBusinessError, endpointOffers, data.Mensagem, nil)
	}
	if len(data.Tabelas) == 0 {
		return nil, newError(UpstreamBusinessError, endpointOffers, "no tables available", nil)
	}

	t := data.Tabelas[0]
	if t.Taxa == nil || t.Prazo == nil || t.Contrato == nil {
		return nil, newError(ParseFailure, endpointOffers, "missing taxa, prazo or contrato", nil)
	}
	offer := &models.TableOffer{
		Table:         t.Tabela.String(),
		TableCode:     t.CodigoTabela.String(),
		Rate:          float64(*t.Taxa),
		Term:          int(*t.Prazo),
		ContractValue: float64(*t.Contrato),
	}
	if t.Parcela != nil {
		offer.Installment = float64(*t.Parcela)
	}
	if t.Coeficiente != nil {
		offer.Coefficient = float64(*t.Coeficiente)
	}
	return offer, nil
}
