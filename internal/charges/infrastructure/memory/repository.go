package memory

import (
	"context"
	"sync"

	charges "rental-cloud/internal/charges/domain"
)

// FinancialDocumentRepository is an in-memory document store.
type FinancialDocumentRepository struct {
	mu   sync.RWMutex
	data map[string][]charges.FinancialDocument
}

// NewFinancialDocumentRepository constructs a repository.
func NewFinancialDocumentRepository() *FinancialDocumentRepository {
	return &FinancialDocumentRepository{data: make(map[string][]charges.FinancialDocument)}
}

// ListForBuilding returns a building's documents.
func (r *FinancialDocumentRepository) ListForBuilding(ctx context.Context, buildingID string) ([]charges.FinancialDocument, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[buildingID]
	result := make([]charges.FinancialDocument, len(docs))
	copy(result, docs)
	return result, nil
}

// Save stores a document.
func (r *FinancialDocumentRepository) Save(ctx context.Context, document *charges.FinancialDocument) error {
	_ = ctx
	if document == nil || document.ID == "" {
		return charges.ErrEmptyDocumentID
	}
	r.mu.Lock()
	r.data[document.BuildingID] = append(r.data[document.BuildingID], *document)
	r.mu.Unlock()
	return nil
}

// ChargeShareRepository is an in-memory charge share store.
type ChargeShareRepository struct {
	mu   sync.RWMutex
	data map[string]map[charges.Category]charges.PropertyChargeShare
}

// NewChargeShareRepository constructs a repository.
func NewChargeShareRepository() *ChargeShareRepository {
	return &ChargeShareRepository{data: make(map[string]map[charges.Category]charges.PropertyChargeShare)}
}

// ListForProperty returns a property's configured shares.
func (r *ChargeShareRepository) ListForProperty(ctx context.Context, propertyID string) ([]charges.PropertyChargeShare, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []charges.PropertyChargeShare
	for _, share := range r.data[propertyID] {
		result = append(result, share)
	}
	return result, nil
}

// Upsert stores a share, replacing any existing (property, category) row.
func (r *ChargeShareRepository) Upsert(ctx context.Context, share *charges.PropertyChargeShare) error {
	_ = ctx
	if share == nil || share.PropertyID == "" {
		return charges.ErrEmptyPropertyID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byCategory, ok := r.data[share.PropertyID]
	if !ok {
		byCategory = make(map[charges.Category]charges.PropertyChargeShare)
		r.data[share.PropertyID] = byCategory
	}
	byCategory[share.Category] = *share
	return nil
}

// WaterReadingRepository is an in-memory meter reading store.
type WaterReadingRepository struct {
	mu   sync.RWMutex
	data map[string][]charges.WaterMeterReading
}

// NewWaterReadingRepository constructs a repository.
func NewWaterReadingRepository() *WaterReadingRepository {
	return &WaterReadingRepository{data: make(map[string][]charges.WaterMeterReading)}
}

// ListForProperty returns a property's readings.
func (r *WaterReadingRepository) ListForProperty(ctx context.Context, propertyID string) ([]charges.WaterMeterReading, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	readings := r.data[propertyID]
	result := make([]charges.WaterMeterReading, len(readings))
	copy(result, readings)
	return result, nil
}

// Save stores a reading.
func (r *WaterReadingRepository) Save(ctx context.Context, reading *charges.WaterMeterReading) error {
	_ = ctx
	if reading == nil || reading.PropertyID == "" {
		return charges.ErrEmptyPropertyID
	}
	r.mu.Lock()
	r.data[reading.PropertyID] = append(r.data[reading.PropertyID], *reading)
	r.mu.Unlock()
	return nil
}
