package models

// Worker is the first entry of dados_trabalhador.dados returned by the
// eligibility endpoint. Fields are kept verbatim for display and export.
type Worker struct {
	Name                 Text `json:"nome"`
	Eligible             Text `json:"elegivel"`
	BirthDate            Text `json:"dataNascimento"`
	TotalIncome          Text `json:"valorTotalVencimentos"`
	MarginBase           Text `json:"valorBaseMargem"`
	AvailableMargin      Text `json:"valorMargemDisponivel"`
	Registration         Text `json:"matricula"`
	EmployerName         Text `json:"nomeEmpregador"`
	AdmissionDate        Text `json:"dataAdmissao"`
	TerminationDate      Text `json:"dataDesligamento"`
	EmployerRegistration Text `json:"numeroInscricaoEmpregador"`
	RegistrationType     Text `json:"inscricaoEmpregador_descricao"`
	CNAEDescription      Text `json:"cnae_descricao"`
	EmployerStartDate    Text `json:"dataInicioAtividadeEmpregador"`
	MotherName           Text `json:"nomeMae"`
	Nationality          Text `json:"paisNacionalidade_descricao"`
	CBODescription       Text `json:"cbo_descricao"`
	CategoryCode         Text `json:"codigoCategoriaTrabalhador"`
	PoliticallyExposed   Text `json:"pessoaExpostaPoliticamente_descricao"`
	HasAlerts            Text `json:"possuiAlertas"`
	ActiveLoans          Text `json:"qtdEmprestimosAtivosSuspensos"`
	LegacyLoans          Text `json:"emprestimosLegados"`
	IneligibilityReason  Text `json:"motivoInelegibilidade_descricao"`
	ErrorCode            Text `json:"erro_codigo"`
	ErrorMessage         Text `json:"erro_mensagem"`
	StatusCode           Text `json:"status_code"`
	SexCode              Text `json:"sexo_codigo"`
	SexDescription       Text `json:"sexo_descricao"`
}

// EligibleFlag is the literal value of elegivel for an eligible worker
const EligibleFlag = "SIM"

// IsEligible reports whether the worker may receive an offer
func (w *Worker) IsEligible() bool {
	return w != nil && string(w.Eligible) == EligibleFlag
}

// EligibilityStatus tags the outcome of an eligibility query
type EligibilityStatus int

const (
	EligibilityFound EligibilityStatus = iota
	EligibilityNotFound
	EligibilityTransportError
)

func (s EligibilityStatus) String() string {
	switch s {
	case EligibilityFound:
		return "found"
	case EligibilityNotFound:
		return "not_found"
	default:
		return "transport_error"
	}
}

// EligibilityResult is the tagged result of an eligibility query.
// Worker is set only when Status is EligibilityFound.
type EligibilityResult struct {
	CPF     string
	Status  EligibilityStatus
	Message string
	Worker  *Worker
}

// Found reports whether a usable worker record is present
func (r EligibilityResult) Found() bool {
	return r.Status == EligibilityFound && r.Worker != nil
}
