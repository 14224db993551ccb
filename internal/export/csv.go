package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Dan9191/clt-simulator/internal/models"
)

// WriteSheetCSV writes the full export as semicolon-separated CSV
func WriteSheetCSV(w io.Writer, sims []*models.Simulation) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(SheetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(sheetRows(sims)); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteSummaryCSV writes the short export as comma-separated CSV
func WriteSummaryCSV(w io.Writer, sims []*models.Simulation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, sim := range sims {
		if err := cw.Write(SummaryRow(sim)); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", sim.CPF, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
