package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/clt-simulator/internal/integrations/facta"
	"github.com/Dan9191/clt-simulator/internal/metrics"
	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/Dan9191/clt-simulator/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrValidation is returned for CPFs that cannot be normalized to 11 digits
var ErrValidation = errors.New("CPF deve ter 11 dígitos")

const cpfLength = 11

// Upstream is the subset of the Facta client the service depends on
type Upstream interface {
	QueryEligibility(ctx context.Context, cpf string) models.EligibilityResult
	QueryPolicy(ctx context.Context, q facta.PolicyQuery) (*models.PolicyLimit, error)
	QueryOffers(ctx context.Context, q facta.OfferQuery) (*models.TableOffer, error)
}

// TokenSource yields the upstream bearer token
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Reporter receives the simulations of a finished batch
type Reporter interface {
	SendBatchReport(batchID string, sims []*models.Simulation) error
}

// BatchResult is the outcome of a multi-CPF simulation. Results holds a
// *models.Simulation or a models.InvalidCPF per input, in input order.
type BatchResult struct {
	ID      string
	Results []interface{}
}

// Service handles business logic
type Service struct {
	upstream Upstream
	tokens   TokenSource
	repo     *repository.Repository
	reporter Reporter
	log      *logrus.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewService initializes a new service. reporter may be nil.
func NewService(upstream Upstream, tokens TokenSource, repo *repository.Repository, reporter Reporter, log *logrus.Logger, m *metrics.Metrics) *Service {
	return &Service{
		upstream: upstream,
		tokens:   tokens,
		repo:     repo,
		reporter: reporter,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// NormalizeCPF strips non-digits and left-pads with zeros to 11 digits
func NormalizeCPF(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return "", fmt.Errorf("%w: %q", ErrValidation, raw)
	}
	if len(digits) < cpfLength {
		digits = strings.Repeat("0", cpfLength-len(digits)) + digits
	}
	if len(digits) != cpfLength {
		return "", fmt.Errorf("%w: %q", ErrValidation, raw)
	}
	return digits, nil
}

// TestConnection checks that a token can be obtained
func (s *Service) TestConnection(ctx context.Context) error {
	if _, err := s.tokens.Token(ctx); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	return nil
}

// SimulateOne processes a single CPF and appends it to the export store
// without clearing earlier results
func (s *Service) SimulateOne(ctx context.Context, raw string) (*models.Simulation, error) {
	cpf, err := NormalizeCPF(raw)
	if err != nil {
		s.log.WithField("input", raw).Warn("Rejected CPF")
		return nil, err
	}
	sim := s.process(ctx, cpf)
	s.repo.SaveSimulation(sim)
	return sim, nil
}

// SimulateBatch clears the export store and processes every CPF in order
func (s *Service) SimulateBatch(ctx context.Context, raws []string) (*BatchResult, error) {
	batch := &BatchResult{
		ID:      uuid.NewString(),
		Results: make([]interface{}, 0, len(raws)),
	}
	entry := s.log.WithField("batch_id", batch.ID)

	s.repo.Reset()
	entry.Infof("Starting batch of %d CPFs, export store cleared", len(raws))

	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch %s interrupted: %w", batch.ID, err)
		}
		cpf, err := NormalizeCPF(raw)
		if err != nil {
			entry.WithField("input", raw).Warn("Rejected CPF")
			batch.Results = append(batch.Results, models.InvalidCPF{
				CPF:    raw,
				Status: statusError,
				Name:   "CPF inválido",
				Error:  ErrValidation.Error(),
			})
			continue
		}
		sim := s.process(ctx, cpf)
		s.repo.SaveSimulation(sim)
		batch.Results = append(batch.Results, sim)
	}

	entry.Infof("Batch finished with %d results", len(batch.Results))
	s.report(batch.ID)
	return batch, nil
}

// Simulations returns what the export endpoints serve
func (s *Service) Simulations() []*models.Simulation {
	return s.repo.ListSimulations()
}

func (s *Service) report(batchID string) {
	if s.reporter == nil {
		return
	}
	sims := s.repo.ListSimulations()
	go func() {
		if err := s.reporter.SendBatchReport(batchID, sims); err != nil {
			s.log.WithField("batch_id", batchID).Errorf("Failed to send batch report: %v", err)
		}
	}()
}

// process runs eligibility, quoting and formatting for a normalized CPF
func (s *Service) process(ctx context.Context, cpf string) *models.Simulation {
	entry := s.log.WithField("cpf", cpf)
	res := s.upstream.QueryEligibility(ctx, cpf)

	var usable float64
	if res.Found() && res.Worker.AvailableMargin != "" {
		m, err := UsableMargin(res.Worker.AvailableMargin.String())
		if err != nil {
			entry.Warnf("Unusable margin %q: %v", res.Worker.AvailableMargin, err)
		} else {
			usable = m
		}
	}

	offer := models.FinalOffer{Source: models.SourceNone}
	switch {
	case !res.Found():
		entry.WithField("outcome", res.Status.String()).Infof("No usable worker record: %s", res.Message)
		s.metrics.IncrementSimulation(res.Status.String())
	case !res.Worker.IsEligible():
		entry.Infof("Worker not eligible: %s", res.Worker.IneligibilityReason)
		s.metrics.IncrementSimulation("ineligible")
	default:
		s.metrics.IncrementSimulation("eligible")
		offer = s.quote(ctx, cpf, res.Worker, usable)
	}

	sim := &models.Simulation{CPF: cpf, ProcessedAt: s.now()}
	formatSimulation(sim, res, offer, usable)
	return sim
}

// quote derives the upstream inputs for an eligible worker and reconciles
// the policy ceiling with the table offer
func (s *Service) quote(ctx context.Context, cpf string, w *models.Worker, usable float64) models.FinalOffer {
	entry := s.log.WithField("cpf", cpf)

	income, err := models.ParseDecimal(w.TotalIncome.String())
	if err != nil {
		entry.Warnf("Unusable income %q, skipping quote: %v", w.TotalIncome, err)
		return models.FinalOffer{Source: models.SourceNone}
	}
	birth := w.BirthDate.String()
	tenure := TenureMonths(w.AdmissionDate.String(), s.now())
	sex := SexCode(w.SexCode.String())

	entry.WithFields(logrus.Fields{
		"income":        income,
		"tenure_months": tenure,
		"sex":           sex,
		"usable_margin": usable,
	}).Info("Quoting eligible worker")

	policy, err := s.upstream.QueryPolicy(ctx, facta.PolicyQuery{
		CPF:          cpf,
		BirthDate:    birth,
		TenureMonths: tenure,
		Income:       income,
		Sex:          sex,
	})
	if err != nil {
		entry.WithField("category", facta.CategoryOf(err)).Warnf("Credit policy unavailable: %v", err)
		policy = nil
	}

	offer, err := s.upstream.QueryOffers(ctx, facta.OfferQuery{
		CPF:         cpf,
		BirthDate:   birth,
		Income:      income,
		Installment: usable,
		Term:        facta.DefaultOfferTerm,
	})
	if err != nil {
		entry.WithField("category", facta.CategoryOf(err)).Warnf("Table offer unavailable: %v", err)
		offer = nil
	}

	requery := func(ctx context.Context, installment float64, term int) (*models.TableOffer, error) {
		entry.Infof("Offer exceeds policy, requerying with installment %.2f over %d months", installment, term)
		adjusted, err := s.upstream.QueryOffers(ctx, facta.OfferQuery{
			CPF:         cpf,
			BirthDate:   birth,
			Income:      income,
			Installment: installment,
			Term:        term,
		})
		if err != nil {
			entry.WithField("category", facta.CategoryOf(err)).Warnf("Adjusted offer unavailable: %v", err)
			return nil, err
		}
		return adjusted, nil
	}

	final := Reconcile(ctx, policy, offer, requery)
	s.metrics.IncrementOfferSource(string(final.Source))
	entry.WithField("source", final.Source).Info("Offer reconciled")
	return final
}
