package models

import "time"

// Simulation is the formatted per-CPF result returned to clients and kept
// for export. Display fields already carry their "N/A" placeholders.
type Simulation struct {
	CPF              string  `json:"cpf"`
	Status           string  `json:"status"`
	Name             string  `json:"nome"`
	Income           string  `json:"renda"`
	Margin           string  `json:"margem"`
	Eligible         string  `json:"elegivel"`
	BirthDate        string  `json:"data_nascimento"`
	Registration     string  `json:"matricula"`
	Employer         string  `json:"empregador"`
	MaxLoanValue     string  `json:"valor_maximo_emprestimo"`
	MaxTerm          string  `json:"prazo_maximo"`
	MaxContractValue string  `json:"valor_contrato_maximo"`
	InterestRate     string  `json:"taxa_juros"`
	Table            string  `json:"tabela_operacao"`
	Raw              *Worker `json:"raw_data"`

	Offer       FinalOffer `json:"-"`
	ProcessedAt time.Time  `json:"-"`
}

// InvalidCPF is the batch entry for a CPF that failed validation
type InvalidCPF struct {
	CPF    string `json:"cpf"`
	Status string `json:"status"`
	Name   string `json:"nome"`
	Error  string `json:"error"`
}
