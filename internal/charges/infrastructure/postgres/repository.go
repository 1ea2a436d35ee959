package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	charges "rental-cloud/internal/charges/domain"
	"rental-cloud/internal/money"
)

// FinancialDocumentRepository persists expense documents.
type FinancialDocumentRepository struct {
	db *sql.DB
}

// NewFinancialDocumentRepository constructs a repository.
func NewFinancialDocumentRepository(db *sql.DB) *FinancialDocumentRepository {
	return &FinancialDocumentRepository{db: db}
}

// ListForBuilding returns a building's documents ascending by date.
func (r *FinancialDocumentRepository) ListForBuilding(ctx context.Context, buildingID string) ([]charges.FinancialDocument, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("document repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, building_id, category, doc_date, amount, description,
	document_path, included_in_charges, water_consumption, created_at, updated_at
FROM financial_documents
WHERE building_id = $1
ORDER BY doc_date ASC`, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []charges.FinancialDocument
	for rows.Next() {
		var (
			doc         charges.FinancialDocument
			category    string
			amount      decimal.Decimal
			description sql.NullString
			path        sql.NullString
			consumption sql.NullFloat64
		)
		if err := rows.Scan(&doc.ID, &doc.BuildingID, &category, &doc.Date, &amount,
			&description, &path, &doc.IncludedInCharges, &consumption,
			&doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.Category = charges.Category(category)
		doc.Description = description.String
		doc.DocumentPath = path.String
		if consumption.Valid {
			value := consumption.Float64
			doc.WaterConsumption = &value
		}
		if doc.Amount, err = money.New(amount); err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

// Save upserts a document.
func (r *FinancialDocumentRepository) Save(ctx context.Context, document *charges.FinancialDocument) error {
	if r == nil || r.db == nil {
		return errors.New("document repo: nil db")
	}
	if document == nil {
		return charges.ErrEmptyDocumentID
	}
	var consumption sql.NullFloat64
	if document.WaterConsumption != nil {
		consumption = sql.NullFloat64{Float64: *document.WaterConsumption, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO financial_documents (
	id, building_id, category, doc_date, amount, description,
	document_path, included_in_charges, water_consumption, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	category = EXCLUDED.category,
	doc_date = EXCLUDED.doc_date,
	amount = EXCLUDED.amount,
	description = EXCLUDED.description,
	document_path = EXCLUDED.document_path,
	included_in_charges = EXCLUDED.included_in_charges,
	water_consumption = EXCLUDED.water_consumption,
	updated_at = EXCLUDED.updated_at`,
		document.ID, document.BuildingID, string(document.Category), document.Date,
		document.Amount.Decimal(), document.Description, document.DocumentPath,
		document.IncludedInCharges, consumption, document.CreatedAt, document.UpdatedAt)
	return err
}

// ChargeShareRepository persists property charge shares.
type ChargeShareRepository struct {
	db *sql.DB
}

// NewChargeShareRepository constructs a repository.
func NewChargeShareRepository(db *sql.DB) *ChargeShareRepository {
	return &ChargeShareRepository{db: db}
}

// ListForProperty returns a property's configured shares.
func (r *ChargeShareRepository) ListForProperty(ctx context.Context, propertyID string) ([]charges.PropertyChargeShare, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("share repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, property_id, category, percentage
FROM property_charge_shares
WHERE property_id = $1
ORDER BY category ASC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []charges.PropertyChargeShare
	for rows.Next() {
		var (
			share    charges.PropertyChargeShare
			category string
		)
		if err := rows.Scan(&share.ID, &share.PropertyID, &category, &share.Percentage); err != nil {
			return nil, err
		}
		share.Category = charges.Category(category)
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// Upsert stores a share; one row per (property, category).
func (r *ChargeShareRepository) Upsert(ctx context.Context, share *charges.PropertyChargeShare) error {
	if r == nil || r.db == nil {
		return errors.New("share repo: nil db")
	}
	if share == nil {
		return charges.ErrEmptyPropertyID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO property_charge_shares (id, property_id, category, percentage)
VALUES ($1, $2, $3, $4)
ON CONFLICT (property_id, category) DO UPDATE SET
	percentage = EXCLUDED.percentage`,
		share.ID, share.PropertyID, string(share.Category), share.Percentage)
	return err
}

// WaterReadingRepository persists water meter readings.
type WaterReadingRepository struct {
	db *sql.DB
}

// NewWaterReadingRepository constructs a repository.
func NewWaterReadingRepository(db *sql.DB) *WaterReadingRepository {
	return &WaterReadingRepository{db: db}
}

// ListForProperty returns a property's readings descending by date.
func (r *WaterReadingRepository) ListForProperty(ctx context.Context, propertyID string) ([]charges.WaterMeterReading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, property_id, reading_date, meter_reading, document_path, created_at
FROM water_meter_readings
WHERE property_id = $1
ORDER BY reading_date DESC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []charges.WaterMeterReading
	for rows.Next() {
		var (
			reading charges.WaterMeterReading
			path    sql.NullString
		)
		if err := rows.Scan(&reading.ID, &reading.PropertyID, &reading.ReadingDate,
			&reading.MeterReading, &path, &reading.CreatedAt); err != nil {
			return nil, err
		}
		reading.DocumentPath = path.String
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}

// Save inserts a reading.
func (r *WaterReadingRepository) Save(ctx context.Context, reading *charges.WaterMeterReading) error {
	if r == nil || r.db == nil {
		return errors.New("reading repo: nil db")
	}
	if reading == nil {
		return charges.ErrEmptyPropertyID
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO water_meter_readings (id, property_id, reading_date, meter_reading, document_path, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		reading.ID, reading.PropertyID, reading.ReadingDate,
		reading.MeterReading, reading.DocumentPath, reading.CreatedAt)
	return err
}
