package memory

import (
	"context"
	"errors"
	"sync"

	masterdata "rental-cloud/internal/masterdata/domain"
)

// PropertyRepository is an in-memory property store.
type PropertyRepository struct {
	mu   sync.RWMutex
	data map[string]*masterdata.Property
}

// NewPropertyRepository constructs a repository.
func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{data: make(map[string]*masterdata.Property)}
}

// Get loads a property by id, nil when absent.
func (r *PropertyRepository) Get(ctx context.Context, id string) (*masterdata.Property, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	property, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	clone := *property
	return &clone, nil
}

// ListByBuilding returns a building's properties.
func (r *PropertyRepository) ListByBuilding(ctx context.Context, buildingID string) ([]masterdata.Property, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []masterdata.Property
	for _, property := range r.data {
		if property.BuildingID == buildingID {
			result = append(result, *property)
		}
	}
	return result, nil
}

// Save stores a property.
func (r *PropertyRepository) Save(ctx context.Context, property *masterdata.Property) error {
	_ = ctx
	if property == nil || property.ID == "" {
		return errors.New("masterdata: empty property id")
	}
	clone := *property
	r.mu.Lock()
	r.data[property.ID] = &clone
	r.mu.Unlock()
	return nil
}
