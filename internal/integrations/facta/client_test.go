package facta

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/clt-simulator/internal/models"
)

const workerBody = `{
	"erro": false,
	"mensagem": "Consulta realizada",
	"dados_trabalhador": {
		"dados": [{
			"nome": "MARIA DA SILVA",
			"elegivel": "SIM",
			"dataNascimento": "15/04/1985",
			"valorTotalVencimentos": "4500,00",
			"valorMargemDisponivel": "1000,00",
			"dataAdmissao": "01/02/2020",
			"sexo_codigo": "2",
			"possuiAlertas": false,
			"qtdEmprestimosAtivosSuspensos": 1,
			"nomeMae": null
		}]
	}
}`

func TestQueryEligibility(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/consignado-trabalhador/autoriza-consulta", http.StatusOK, workerBody)

		res := c.QueryEligibility(bg, "12345678901")

		require.True(t, res.Found())
		assert.Equal(t, models.EligibilityFound, res.Status)
		assert.Equal(t, "MARIA DA SILVA", res.Worker.Name.String())
		assert.True(t, res.Worker.IsEligible())
		assert.Equal(t, "false", res.Worker.HasAlerts.String())
		assert.Equal(t, "1", res.Worker.ActiveLoans.String())
		assert.Empty(t, res.Worker.MotherName)

		assert.Equal(t, "12345678901", fake.lastQuery("/consignado-trabalhador/autoriza-consulta").Get("cpf"))
		assert.Equal(t, "Bearer tok-1", fake.header("/consignado-trabalhador/autoriza-consulta", 0).Get("Authorization"))
	})

	t.Run("error flag is not found", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/consignado-trabalhador/autoriza-consulta", http.StatusOK, `{"erro":true,"mensagem":"CPF sem vínculo"}`)

		res := c.QueryEligibility(bg, "12345678901")
		assert.Equal(t, models.EligibilityNotFound, res.Status)
		assert.Equal(t, "CPF sem vínculo", res.Message)
		assert.Nil(t, res.Worker)
	})

	t.Run("empty array is not found", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/consignado-trabalhador/autoriza-consulta", http.StatusOK, `{"erro":false,"dados_trabalhador":{"dados":[]}}`)

		res := c.QueryEligibility(bg, "12345678901")
		assert.Equal(t, models.EligibilityNotFound, res.Status)
		assert.Equal(t, "Dados não encontrados", res.Message)
	})

	t.Run("non-2xx is a transport error", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/consignado-trabalhador/autoriza-consulta", http.StatusBadGateway, `{}`)

		res := c.QueryEligibility(bg, "12345678901")
		assert.Equal(t, models.EligibilityTransportError, res.Status)
		assert.Contains(t, res.Message, "502")
	})

	t.Run("token failure is a transport error", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/gera-token", http.StatusInternalServerError, ``)

		res := c.QueryEligibility(bg, "12345678901")
		assert.Equal(t, models.EligibilityTransportError, res.Status)
		assert.Equal(t, 0, fake.calls("/consignado-trabalhador/autoriza-consulta"))
	})
}

func TestQueryPolicy(t *testing.T) {
	query := PolicyQuery{
		CPF:          "12345678901",
		BirthDate:    "15/04/1985",
		TenureMonths: 24,
		Income:       4500.10,
		Sex:          "F",
	}

	t.Run("sends derived parameters and fixed defaults", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/consignado-trabalhador/valida-politica-credito", http.StatusOK, `{"erro":false,"prazo":36,"valor":"5000,00"}`)

		limit, err := c.QueryPolicy(bg, query)
		require.NoError(t, err)
		assert.Equal(t, &models.PolicyLimit{MaxValue: 5000, MaxTerm: 36}, limit)

		q := fake.lastQuery("/consignado-trabalhador/valida-politica-credito")
		assert.Equal(t, "24", q.Get("tempo_meses_empresa"))
		assert.Equal(t, "36", q.Get("prazo"))
		assert.Equal(t, "450010", q.Get("valor"))
		assert.Equal(t, "00", q.Get("cnae"))
		assert.Equal(t, "F", q.Get("sexo"))
		assert.Equal(t, "15/04/1985", q.Get("data_nascimento"))
	})

	cases := []struct {
		name     string
		status   int
		body     string
		category Category
	}{
		{"error flag", http.StatusOK, `{"erro":true,"mensagem":"Fora da política"}`, UpstreamBusinessError},
		{"missing error flag", http.StatusOK, `{"prazo":36,"valor":"5000,00"}`, UpstreamBusinessError},
		{"non-2xx", http.StatusServiceUnavailable, ``, TransportFailure},
		{"missing value", http.StatusOK, `{"erro":false,"prazo":36}`, ParseFailure},
		{"malformed value", http.StatusOK, `{"erro":false,"prazo":36,"valor":"abc"}`, ParseFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, fake := newTestClient(t)
			fake.set("/consignado-trabalhador/valida-politica-credito", tc.status, tc.body)

			limit, err := c.QueryPolicy(bg, query)
			assert.Nil(t, limit)
			requireCategory(t, err, tc.category)
		})
	}

	t.Run("token failure", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set("/gera-token", http.StatusOK, `{"erro":true}`)

		_, err := c.QueryPolicy(bg, query)
		requireCategory(t, err, AuthFailure)
	})
}

func TestQueryOffers(t *testing.T) {
	const path = "/proposta/operacoes-disponiveis"
	query := OfferQuery{
		CPF:         "12345678901",
		BirthDate:   "15/04/1985",
		Income:      4500,
		Installment: 699,
	}

	t.Run("first table is used", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set(path, http.StatusOK, `{"erro":false,"tabelas":[
			{"tabela":"CLT NOVO","codigoTabela":"53694","taxa":"2,5","prazo":24,"contrato":"4000,00","parcela":"215,30","coeficiente":"0,053825"},
			{"tabela":"OTHER","codigoTabela":"1","taxa":1,"prazo":12,"contrato":1,"parcela":1,"coeficiente":1}
		]}`)

		offer, err := c.QueryOffers(bg, query)
		require.NoError(t, err)
		assert.Equal(t, "CLT NOVO", offer.Table)
		assert.Equal(t, "53694", offer.TableCode)
		assert.InDelta(t, 2.5, offer.Rate, 1e-9)
		assert.Equal(t, 24, offer.Term)
		assert.InDelta(t, 4000.0, offer.ContractValue, 1e-9)
		assert.InDelta(t, 215.30, offer.Installment, 1e-9)
		assert.InDelta(t, 0.053825, offer.Coefficient, 1e-9)

		q := fake.lastQuery(path)
		assert.Equal(t, "D", q.Get("produto"))
		assert.Equal(t, "13", q.Get("tipo_operacao"))
		assert.Equal(t, "10010", q.Get("averbador"))
		assert.Equal(t, "3", q.Get("convenio"))
		assert.Equal(t, "2", q.Get("opcao_valor"))
		assert.Equal(t, "699.00", q.Get("valor_parcela"))
		assert.Equal(t, "36", q.Get("prazo"))
		assert.Equal(t, "4500.00", q.Get("valor_renda"))
	})

	t.Run("explicit term", func(t *testing.T) {
		c, _, fake := newTestClient(t)
		fake.set(path, http.StatusOK, `{"erro":false,"tabelas":[{"tabela":"A","taxa":2,"prazo":24,"contrato":100}]}`)

		q := query
		q.Term = 24
		q.Installment = 3000.0 / 36
		_, err := c.QueryOffers(bg, q)
		require.NoError(t, err)
		assert.Equal(t, "24", fake.lastQuery(path).Get("prazo"))
		assert.Equal(t, "83.33", fake.lastQuery(path).Get("valor_parcela"))
	})

	cases := []struct {
		name     string
		status   int
		body     string
		category Category
	}{
		{"error flag", http.StatusOK, `{"erro":true,"mensagem":"Sem tabelas"}`, UpstreamBusinessError},
		{"no tables", http.StatusOK, `{"erro":false,"tabelas":[]}`, UpstreamBusinessError},
		{"missing contract", http.StatusOK, `{"erro":false,"tabelas":[{"tabela":"A","taxa":2,"prazo":24}]}`, ParseFailure},
		{"non-2xx", http.StatusNotFound, ``, TransportFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, fake := newTestClient(t)
			fake.set(path, tc.status, tc.body)

			offer, err := c.QueryOffers(bg, query)
			assert.Nil(t, offer)
			requireCategory(t, err, tc.category)
		})
	}
}
