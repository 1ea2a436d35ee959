package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	charges "rental-cloud/internal/charges/domain"
	"rental-cloud/internal/money"
)

// ChargeService manages the inputs of a settlement: expense documents,
// charge shares, and water meter readings.
type ChargeService struct {
	documents charges.FinancialDocumentRepository
	shares    charges.ChargeShareRepository
	readings  charges.WaterReadingRepository
	clock     Clock
}

// NewChargeService constructs the service.
func NewChargeService(
	documents charges.FinancialDocumentRepository,
	shares charges.ChargeShareRepository,
	readings charges.WaterReadingRepository,
	clock Clock,
) (*ChargeService, error) {
	if documents == nil {
		return nil, errors.New("charge service: nil document repository")
	}
	if shares == nil {
		return nil, errors.New("charge service: nil share repository")
	}
	if readings == nil {
		return nil, errors.New("charge service: nil reading repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ChargeService{documents: documents, shares: shares, readings: readings, clock: clock}, nil
}

// RegisterDocumentInput carries the fields of a new expense document.
type RegisterDocumentInput struct {
	BuildingID        string
	Category          charges.Category
	Date              time.Time
	Amount            money.Money
	Description       string
	DocumentPath      string
	IncludedInCharges bool
	WaterConsumption  *float64
}

// RegisterDocument stores a dated building expense document.
func (s *ChargeService) RegisterDocument(ctx context.Context, input RegisterDocumentInput) (*charges.FinancialDocument, error) {
	now := s.clock.Now()
	doc := &charges.FinancialDocument{
		ID:                uuid.NewString(),
		BuildingID:        input.BuildingID,
		Category:          input.Category,
		Date:              input.Date,
		Amount:            input.Amount,
		Description:       input.Description,
		DocumentPath:      input.DocumentPath,
		IncludedInCharges: input.IncludedInCharges,
		WaterConsumption:  input.WaterConsumption,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := doc.Validate(now); err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpsertShare creates or replaces a property's charge share for a category.
func (s *ChargeService) UpsertShare(ctx context.Context, propertyID string, category charges.Category, percentage decimal.Decimal) (*charges.PropertyChargeShare, error) {
	share := &charges.PropertyChargeShare{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		Category:   category,
		Percentage: percentage,
	}
	if err := share.Validate(); err != nil {
		return nil, err
	}
	if err := s.shares.Upsert(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

// RecordReading stores a cumulative water meter reading.
func (s *ChargeService) RecordReading(ctx context.Context, propertyID string, readingDate time.Time, meterReading float64, documentPath string) (*charges.WaterMeterReading, error) {
	now := s.clock.Now()
	reading := &charges.WaterMeterReading{
		ID:           uuid.NewString(),
		PropertyID:   propertyID,
		ReadingDate:  readingDate,
		MeterReading: meterReading,
		DocumentPath: documentPath,
		CreatedAt:    now,
	}
	if err := reading.Validate(now); err != nil {
		return nil, err
	}
	if err := s.readings.Save(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}
