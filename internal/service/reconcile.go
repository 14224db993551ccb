package service

import (
	"context"

	"github.com/Dan9191/clt-simulator/internal/models"
)

// RequeryFunc asks for a table offer at a corrected installment and term
type RequeryFunc func(ctx context.Context, installment float64, term int) (*models.TableOffer, error)

// Reconcile merges the policy ceiling and the table offer into one offer.
//
// A compliant table offer wins. When the table offer exceeds the policy on
// value or term, the offer endpoint is asked once more for the installment
// that fits the policy; the result is used for rate and table only and is
// not checked against the policy again.
func Reconcile(ctx context.Context, policy *models.PolicyLimit, offer *models.TableOffer, requery RequeryFunc) models.FinalOffer {
	switch {
	case policy == nil && offer == nil:
		return models.FinalOffer{Source: models.SourceNone}

	case policy != nil && offer != nil:
		if offer.ContractValue <= policy.MaxValue && offer.Term <= policy.MaxTerm {
			return fromTable(offer, models.SourceTable)
		}

		var adjusted *models.TableOffer
		if policy.MaxTerm > 0 && requery != nil {
			installment := policy.MaxValue / float64(policy.MaxTerm)
			res, err := requery(ctx, installment, policy.MaxTerm)
			if err == nil {
				adjusted = res
			}
		}
		if adjusted == nil {
			return fromPolicy(policy, models.SourcePolicyFallback)
		}
		final := fromPolicy(policy, models.SourcePolicyAdjusted)
		final.Rate = ptr(adjusted.Rate)
		final.Table = ptr(adjusted.Table)
		return final

	case offer != nil:
		return fromTable(offer, models.SourceTableOnly)

	default:
		return fromPolicy(policy, models.SourcePolicyOnly)
	}
}

func fromTable(offer *models.TableOffer, source models.OfferSource) models.FinalOffer {
	return models.FinalOffer{
		MaxValue: ptr(offer.ContractValue),
		MaxTerm:  ptr(offer.Term),
		Rate:     ptr(offer.Rate),
		Table:    ptr(offer.Table),
		Source:   source,
	}
}

func fromPolicy(policy *models.PolicyLimit, source models.OfferSource) models.FinalOffer {
	return models.FinalOffer{
		MaxValue: ptr(policy.MaxValue),
		MaxTerm:  ptr(policy.MaxTerm),
		Source:   source,
	}
}

func ptr[T any](v T) *T {
	return &v
}
