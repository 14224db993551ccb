package repository

import (
	"sync"

	"github.com/Dan9191/clt-simulator/internal/models"
)

// Repository keeps processed simulations in memory for export.
// Contents live for the lifetime of the process only.
type Repository struct {
	mu          sync.RWMutex
	simulations []*models.Simulation
}

// NewRepository initializes an empty repository
func NewRepository() *Repository {
	return &Repository{}
}

// SaveSimulation appends a processed simulation
func (r *Repository) SaveSimulation(sim *models.Simulation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.simulations = append(r.simulations, sim)
}

// ListSimulations returns the stored simulations in insertion order
func (r *Repository) ListSimulations() []*models.Simulation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Simulation, len(r.simulations))
	copy(out, r.simulations)
	return out
}

// Reset drops every stored simulation
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.simulations = nil
}

// Count returns the number of stored simulations
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.simulations)
}
