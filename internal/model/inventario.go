package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status values returned by Inventario.StockStatus.
const (
	StockOK  = "ok"
	StockLow = "low"
)

// Inventario is a production lot: a quantity of a product produced on a date.
// StockActual starts at CantidadProducida and evolves only through movements
// and egresos; CostoUnitario/CostoTotal snapshot the product's package cost at
// production time and are not recomputed when the product is later edited.
type Inventario struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FechaProduccion time.Time `gorm:"not null;index"`

	CantidadProducida int             `gorm:"not null"`
	CostoUnitario     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostoTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	StockActual int  `gorm:"not null;default:0"`
	StockMinimo *int // low-stock threshold, optional

	Ubicacion *string `gorm:"size:255"`
	Lote      *string `gorm:"size:100;index"`
	Notas     *string `gorm:"type:text"`

	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Inventario) TableName() string { return "inventarios" }

// StockStatus is low only when a threshold is set and current stock is
// strictly below it. Recomputed on every read, never stored.
func (i *Inventario) StockStatus() string {
	if i.StockMinimo != nil && i.StockActual < *i.StockMinimo {
		return StockLow
	}
	return StockOK
}
