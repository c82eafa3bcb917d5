package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Valid values for Material.UnidadBase.
const (
	UnidadKg     = "kg"
	UnidadLitros = "litros"
)

// Material is a purchased raw material priced per kilogram or per liter.
// PrecioUnidadPequena (price per gram/ml) is derived from PrecioBase on every
// write; it is stored for query convenience but never edited directly.
type Material struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre              string          `gorm:"index;not null"`
	PrecioBase          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnidadBase          string          `gorm:"not null;default:'kg'"` // "kg" | "litros"
	PrecioUnidadPequena decimal.Decimal `gorm:"type:decimal(12,6);not null"`
	Activo              bool            `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides GORM's default pluralization.
func (Material) TableName() string { return "materiales" }
