package masterdata

import (
	"context"
	"errors"
	"time"
)

// Building is a managed building owning shared expense documents.
type Building struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks building invariants.
func (b Building) Validate() error {
	if b.ID == "" {
		return errors.New("masterdata: empty building id")
	}
	if b.Name == "" {
		return errors.New("masterdata: empty building name")
	}
	return nil
}

// Property is a rentable unit inside a building.
type Property struct {
	ID         string
	BuildingID string
	Label      string
	FloorArea  float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks property invariants.
func (p Property) Validate() error {
	if p.ID == "" {
		return errors.New("masterdata: empty property id")
	}
	if p.BuildingID == "" {
		return errors.New("masterdata: empty building id")
	}
	if p.FloorArea < 0 {
		return errors.New("masterdata: negative floor area")
	}
	return nil
}

// Tenant is a person named on one or more leases.
type Tenant struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks tenant invariants.
func (t Tenant) Validate() error {
	if t.ID == "" {
		return errors.New("masterdata: empty tenant id")
	}
	if t.Name == "" {
		return errors.New("masterdata: empty tenant name")
	}
	return nil
}

// PropertyRepository manages property persistence.
type PropertyRepository interface {
	Get(ctx context.Context, id string) (*Property, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]Property, error)
	Save(ctx context.Context, property *Property) error
}

// BuildingRepository manages building persistence.
type BuildingRepository interface {
	Get(ctx context.Context, id string) (*Building, error)
	Save(ctx context.Context, building *Building) error
}

// TenantRepository manages tenant persistence.
type TenantRepository interface {
	Get(ctx context.Context, id string) (*Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
}
