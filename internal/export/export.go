// Package export renders stored simulations as spreadsheet files.
package export

import (
	"fmt"
	"time"

	"github.com/Dan9191/clt-simulator/internal/models"
)

const (
	notAvailable    = "N/A"
	timestampLayout = "02/01/2006 15:04:05"
)

// SheetHeader lists the columns of the full export. Accents are left out so
// the file opens cleanly in spreadsheet tools with any code page.
var SheetHeader = []string{
	"CPF", "Nome", "Status", "Data Nascimento", "Sexo", "Matricula",
	"Renda Mensal", "Base Margem", "Margem Disponivel", "Elegivel",
	"Data Admissao", "Data Desligamento", "Empregador", "CNPJ Empregador",
	"Tipo Inscricao", "CNAE Descricao", "Data Inicio Atividade Empregador",
	"Nome Mae", "Nacionalidade", "CBO Descricao", "Codigo Categoria",
	"Pessoa Exposta Politicamente", "Possui Alertas", "Qtd Emprestimos Ativos",
	"Emprestimos Legados", "Motivo Inelegibilidade", "Erro Codigo",
	"Erro Mensagem", "Status Code", "Valor Maximo Emprestimo", "Prazo Maximo",
	"Valor Contrato Maximo", "Taxa Juros", "Tabela Operacao", "Timestamp",
}

// SummaryHeader lists the columns of the short CSV export
var SummaryHeader = []string{
	"CPF", "Nome", "Status", "Renda", "Margem", "Elegível", "Data Nascimento", "Matrícula", "Empregador",
}

// SheetRow flattens a simulation into SheetHeader order
func SheetRow(sim *models.Simulation) []string {
	w := sim.Raw
	if w == nil {
		w = &models.Worker{}
	}
	raw := func(t models.Text) string {
		return orNA(t.String())
	}
	money := func(t models.Text) string {
		if sim.Raw == nil {
			return notAvailable
		}
		return "R$ " + t.String()
	}

	return []string{
		orNA(sim.CPF),
		orNA(sim.Name),
		orNA(sim.Status),
		orNA(sim.BirthDate),
		raw(w.SexDescription),
		orNA(sim.Registration),
		orNA(sim.Income),
		money(w.MarginBase),
		orNA(sim.Margin),
		orNA(sim.Eligible),
		raw(w.AdmissionDate),
		raw(w.TerminationDate),
		orNA(sim.Employer),
		raw(w.EmployerRegistration),
		raw(w.RegistrationType),
		raw(w.CNAEDescription),
		raw(w.EmployerStartDate),
		raw(w.MotherName),
		raw(w.Nationality),
		raw(w.CBODescription),
		raw(w.CategoryCode),
		raw(w.PoliticallyExposed),
		raw(w.HasAlerts),
		raw(w.ActiveLoans),
		raw(w.LegacyLoans),
		raw(w.IneligibilityReason),
		raw(w.ErrorCode),
		raw(w.ErrorMessage),
		raw(w.StatusCode),
		orNA(sim.MaxLoanValue),
		orNA(sim.MaxTerm),
		orNA(sim.MaxContractValue),
		orNA(sim.InterestRate),
		orNA(sim.Table),
		timestamp(sim.ProcessedAt),
	}
}

// SummaryRow flattens a simulation into SummaryHeader order
func SummaryRow(sim *models.Simulation) []string {
	return []string{
		orNA(sim.CPF),
		orNA(sim.Name),
		orNA(sim.Status),
		orNA(sim.Income),
		orNA(sim.Margin),
		orNA(sim.Eligible),
		orNA(sim.BirthDate),
		orNA(sim.Registration),
		orNA(sim.Employer),
	}
}

// sheetRows returns the data rows of the full export. An empty store still
// yields one placeholder row.
func sheetRows(sims []*models.Simulation) [][]string {
	if len(sims) == 0 {
		row := make([]string, len(SheetHeader))
		for i := range row {
			row[i] = notAvailable
		}
		return [][]string{row}
	}
	rows := make([][]string, 0, len(sims))
	for _, sim := range sims {
		rows = append(rows, SheetRow(sim))
	}
	return rows
}

// SheetFileName names the full export after the moment it was produced
func SheetFileName(now time.Time, ext string) string {
	return fmt.Sprintf("Resultado%s.%s", now.Format("02-01h15-04"), ext)
}

// SummaryFileName is the name of the short CSV export
const SummaryFileName = "simulacao_maffezzolli.csv"

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format(timestampLayout)
}
