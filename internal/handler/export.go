package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/Dan9191/clt-simulator/internal/export"
	"github.com/Dan9191/clt-simulator/internal/models"
)

// ExportCSV serves the short comma-separated summary
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, "text/csv; charset=utf-8", export.SummaryFileName, export.WriteSummaryCSV)
}

// ExportExcel serves every field as a semicolon-separated sheet
func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	name := export.SheetFileName(h.now(), "csv")
	h.serveFile(w, "text/csv; charset=utf-8", name, export.WriteSheetCSV)
}

// ExportXML serves the same rows as an XML spreadsheet workbook
func (h *Handler) ExportXML(w http.ResponseWriter, r *http.Request) {
	name := export.SheetFileName(h.now(), "xml")
	h.serveFile(w, "application/vnd.ms-excel", name, export.WriteSpreadsheetML)
}

// serveFile renders into a buffer first so a failed render still gets a
// proper error status
func (h *Handler) serveFile(w http.ResponseWriter, contentType, name string, render func(io.Writer, []*models.Simulation) error) {
	sims := h.svc.Simulations()
	var buf bytes.Buffer
	if err := render(&buf, sims); err != nil {
		h.log.Errorf("Failed to render %s: %v", name, err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.log.WithField("rows", len(sims)).Infof("Serving export %s", name)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
