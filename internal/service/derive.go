package service

import (
	"strings"
	"time"

	"github.com/Dan9191/clt-simulator/internal/models"
)

const (
	// MarginRatio is the share of the available margin offered as installment
	MarginRatio = 0.699
	// DefaultTenureMonths is used when the admission date is unknown
	DefaultTenureMonths = 12

	dateLayout = "02/01/2006"
)

// UsableMargin returns the installment the worker can commit to
func UsableMargin(available string) (float64, error) {
	v, err := models.ParseDecimal(available)
	if err != nil {
		return 0, err
	}
	return v * MarginRatio, nil
}

// TenureMonths counts 30-day months between admission (dd/mm/yyyy) and today.
// Missing or unparseable dates yield DefaultTenureMonths.
func TenureMonths(admission string, today time.Time) int {
	admission = strings.TrimSpace(admission)
	if admission == "" {
		return DefaultTenureMonths
	}
	adm, err := time.Parse(dateLayout, admission)
	if err != nil {
		return DefaultTenureMonths
	}
	y, m, d := today.Date()
	days := int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Sub(adm).Hours() / 24)
	return days / 30
}

// SexCode maps the upstream sex code to the value the policy endpoint expects
func SexCode(code string) string {
	switch strings.TrimSpace(code) {
	case "2":
		return "F"
	default:
		return "M"
	}
}
