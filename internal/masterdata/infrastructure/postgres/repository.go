package postgres

import (
	"context"
	"database/sql"
	"errors"

	masterdata "rental-cloud/internal/masterdata/domain"
)

// PropertyRepository persists properties.
type PropertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository constructs a repository.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Get loads a property by id, nil when absent.
func (r *PropertyRepository) Get(ctx context.Context, id string) (*masterdata.Property, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("property repo: nil db")
	}
	var property masterdata.Property
	err := r.db.QueryRowContext(ctx, `
SELECT id, building_id, label, floor_area, created_at, updated_at
FROM properties
WHERE id = $1`, id).Scan(&property.ID, &property.BuildingID, &property.Label,
		&property.FloorArea, &property.CreatedAt, &property.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// ListByBuilding returns a building's properties.
func (r *PropertyRepository) ListByBuilding(ctx context.Context, buildingID string) ([]masterdata.Property, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("property repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, building_id, label, floor_area, created_at, updated_at
FROM properties
WHERE building_id = $1
ORDER BY label ASC`, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []masterdata.Property
	for rows.Next() {
		var property masterdata.Property
		if err := rows.Scan(&property.ID, &property.BuildingID, &property.Label,
			&property.FloorArea, &property.CreatedAt, &property.UpdatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

// Save upserts a property.
func (r *PropertyRepository) Save(ctx context.Context, property *masterdata.Property) error {
	if r == nil || r.db == nil {
		return errors.New("property repo: nil db")
	}
	if property == nil {
		return errors.New("property repo: nil property")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO properties (id, building_id, label, floor_area, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	label = EXCLUDED.label,
	floor_area = EXCLUDED.floor_area,
	updated_at = EXCLUDED.updated_at`,
		property.ID, property.BuildingID, property.Label,
		property.FloorArea, property.CreatedAt, property.UpdatedAt)
	return err
}

// BuildingRepository persists buildings.
type BuildingRepository struct {
	db *sql.DB
}

// NewBuildingRepository constructs a repository.
func NewBuildingRepository(db *sql.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// Get loads a building by id, nil when absent.
func (r *BuildingRepository) Get(ctx context.Context, id string) (*masterdata.Building, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("building repo: nil db")
	}
	var building masterdata.Building
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, address, created_at, updated_at
FROM buildings
WHERE id = $1`, id).Scan(&building.ID, &building.Name, &building.Address,
		&building.CreatedAt, &building.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &building, nil
}

// Save upserts a building.
func (r *BuildingRepository) Save(ctx context.Context, building *masterdata.Building) error {
	if r == nil || r.db == nil {
		return errors.New("building repo: nil db")
	}
	if building == nil {
		return errors.New("building repo: nil building")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO buildings (id, name, address, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	address = EXCLUDED.address,
	updated_at = EXCLUDED.updated_at`,
		building.ID, building.Name, building.Address, building.CreatedAt, building.UpdatedAt)
	return err
}

// TenantRepository persists tenants.
type TenantRepository struct {
	db *sql.DB
}

// NewTenantRepository constructs a repository.
func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Get loads a tenant by id, nil when absent.
func (r *TenantRepository) Get(ctx context.Context, id string) (*masterdata.Tenant, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("tenant repo: nil db")
	}
	var tenant masterdata.Tenant
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, email, phone, created_at, updated_at
FROM tenants
WHERE id = $1`, id).Scan(&tenant.ID, &tenant.Name, &tenant.Email, &tenant.Phone,
		&tenant.CreatedAt, &tenant.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// Save upserts a tenant.
func (r *TenantRepository) Save(ctx context.Context, tenant *masterdata.Tenant) error {
	if r == nil || r.db == nil {
		return errors.New("tenant repo: nil db")
	}
	if tenant == nil {
		return errors.New("tenant repo: nil tenant")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tenants (id, name, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	updated_at = EXCLUDED.updated_at`,
		tenant.ID, tenant.Name, tenant.Email, tenant.Phone, tenant.CreatedAt, tenant.UpdatedAt)
	return err
}
