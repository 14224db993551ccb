package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/clt-simulator/internal/models"
	"github.com/Dan9191/clt-simulator/internal/service"
	"github.com/sirupsen/logrus"
)

const timestampLayout = "02/01/2006 15:04:05"

// Simulator is the service surface the handlers call
type Simulator interface {
	TestConnection(ctx context.Context) error
	SimulateOne(ctx context.Context, cpf string) (*models.Simulation, error)
	SimulateBatch(ctx context.Context, cpfs []string) (*service.BatchResult, error)
	Simulations() []*models.Simulation
}

type Handler struct {
	svc Simulator
	log *logrus.Logger
	now func() time.Time
}

func NewHandler(svc Simulator, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log, now: time.Now}
}

type simulateSingleRequest struct {
	CPF string `json:"cpf"`
}

type simulateRequest struct {
	CPFs []string `json:"cpfs"`
}

// TestConnection reports whether an upstream token can be obtained
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TestConnection(r.Context()); err != nil {
		h.log.Warnf("Connection test failed: %v", err)
		h.writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success":         false,
			"message":         "Falha na autenticação com a API",
			"token_available": false,
			"timestamp":       h.timestamp(),
		})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         "Conexão estabelecida com sucesso",
		"token_available": true,
		"timestamp":       h.timestamp(),
	})
}

// SimulateSingle runs one CPF through the pipeline
func (h *Handler) SimulateSingle(w http.ResponseWriter, r *http.Request) {
	var req simulateSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if strings.TrimSpace(req.CPF) == "" {
		h.writeError(w, http.StatusBadRequest, "CPF não fornecido")
		return
	}

	sim, err := h.svc.SimulateOne(r.Context(), req.CPF)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success":   false,
			"error":     service.ErrValidation.Error(),
			"cpf":       req.CPF,
			"timestamp": h.timestamp(),
		})
		return
	case err != nil:
		h.log.Errorf("Simulation failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"result":    sim,
		"timestamp": h.timestamp(),
	})
}

// Simulate runs a batch of CPFs and replaces the export store contents
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if len(req.CPFs) == 0 {
		h.writeError(w, http.StatusBadRequest, "Nenhum CPF fornecido")
		return
	}

	batch, err := h.svc.SimulateBatch(r.Context(), req.CPFs)
	if err != nil {
		h.log.Errorf("Batch simulation failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"batch_id":  batch.ID,
		"results":   batch.Results,
		"total":     len(batch.Results),
		"timestamp": h.timestamp(),
	})
}

// Health is a liveness probe
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) timestamp() string {
	return h.now().Format(timestampLayout)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success":   false,
		"error":     msg,
		"timestamp": h.timestamp(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}
