package models

// PolicyLimit is the ceiling returned by the credit-policy endpoint
type PolicyLimit struct {
	MaxValue float64 `json:"valor_maximo"`
	MaxTerm  int     `json:"prazo_maximo"`
}

// TableOffer is the first financing table returned for an installment
type TableOffer struct {
	Table         string  `json:"tabela"`
	TableCode     string  `json:"codigo_tabela"`
	Rate          float64 `json:"taxa"`
	Term          int     `json:"prazo"`
	ContractValue float64 `json:"contrato"`
	Installment   float64 `json:"parcela"`
	Coefficient   float64 `json:"coeficiente"`
}

// OfferSource names the reconciliation branch that produced a FinalOffer
type OfferSource string

const (
	SourceNone           OfferSource = "none"
	SourceTable          OfferSource = "table"
	SourcePolicyAdjusted OfferSource = "policy_adjusted"
	SourcePolicyFallback OfferSource = "policy_fallback"
	SourceTableOnly      OfferSource = "table_only"
	SourcePolicyOnly     OfferSource = "policy_only"
)

// FinalOffer is the reconciled offer. A nil field means unavailable.
type FinalOffer struct {
	MaxValue *float64    `json:"valor_maximo,omitempty"`
	MaxTerm  *int        `json:"prazo_maximo,omitempty"`
	Rate     *float64    `json:"taxa,omitempty"`
	Table    *string     `json:"tabela,omitempty"`
	Source   OfferSource `json:"origem"`
}
