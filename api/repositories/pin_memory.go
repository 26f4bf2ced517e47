package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"

	"github.com/google/uuid"
)

// memoryPinRepository keeps pins in insertion order. Used for local runs and tests.
type memoryPinRepository struct {
	mu   sync.RWMutex
	pins []models.Pin
	now  func() time.Time
}

func NewMemoryPinRepository() PinRepository {
	return &memoryPinRepository{now: time.Now}
}

func (m *memoryPinRepository) CreatePin(_ context.Context, pin *models.Pin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pin.ID = uuid.New().String()
	pin.CreatedAt = m.now().UTC()
	m.pins = append(m.pins, *pin)
	return nil
}

func (m *memoryPinRepository) ListPins(_ context.Context) ([]models.Pin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Pin, len(m.pins))
	copy(out, m.pins)
	return out, nil
}
