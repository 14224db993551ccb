package service

import (
	"fmt"
	"strconv"

	"github.com/Dan9191/clt-simulator/internal/models"
)

// NotAvailable is the display placeholder for missing values
const NotAvailable = "N/A"

const (
	statusSuccess = "Sucesso"
	statusError   = "Erro"
)

func formatSimulation(sim *models.Simulation, res models.EligibilityResult, offer models.FinalOffer, usableMargin float64) {
	w := res.Worker
	sim.Offer = offer
	sim.Raw = w

	if res.Found() {
		sim.Status = statusSuccess
		sim.Name = w.Name.String()
		sim.Income = "R$ " + w.TotalIncome.String()
		sim.Margin = "R$ " + w.AvailableMargin.String()
		sim.Eligible = "Nao"
		if w.IsEligible() {
			sim.Eligible = "Sim"
		}
		sim.BirthDate = w.BirthDate.String()
		sim.Registration = w.Registration.String()
		sim.Employer = w.EmployerName.String()
	} else {
		sim.Status = statusError
		sim.Name = res.Message
		sim.Income = NotAvailable
		sim.Margin = NotAvailable
		sim.Eligible = NotAvailable
		sim.BirthDate = NotAvailable
		sim.Registration = NotAvailable
		sim.Employer = NotAvailable
	}

	sim.MaxLoanValue = NotAvailable
	if offer.MaxValue != nil {
		sim.MaxLoanValue = formatMoney(*offer.MaxValue)
	}
	sim.MaxTerm = NotAvailable
	if offer.MaxTerm != nil {
		sim.MaxTerm = fmt.Sprintf("%d meses", *offer.MaxTerm)
	}
	sim.InterestRate = NotAvailable
	if offer.Rate != nil {
		sim.InterestRate = strconv.FormatFloat(*offer.Rate, 'f', -1, 64) + "%"
	}
	sim.Table = NotAvailable
	if offer.Table != nil && *offer.Table != "" {
		sim.Table = *offer.Table
	}
	sim.MaxContractValue = NotAvailable
	if usableMargin > 0 {
		sim.MaxContractValue = formatMoney(usableMargin)
	}
}

func formatMoney(v float64) string {
	return "R$ " + strconv.FormatFloat(v, 'f', 2, 64)
}
