package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Valid values for Egreso.TipoCliente.
const (
	ClientePublico      = "publico"
	ClienteMayorista    = "mayorista"
	ClienteDistribuidor = "distribuidor"
)

// Egreso is a customer-facing stock deduction (sale) against a lot.
// PrecioUnitario snapshots the product's tax-inclusive tier price at creation
// time; later product edits never alter it. ProductoID is denormalized from
// the lot so sale reports don't join through inventarios.
type Egreso struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InventarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID   uuid.UUID `gorm:"type:uuid;not null;index"`

	TipoCliente    string          `gorm:"size:20;not null"` // "publico" | "mayorista" | "distribuidor"
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ValorTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	FechaEgreso        time.Time `gorm:"not null;index"`
	Motivo             *string   `gorm:"type:text"`
	Referencia         *string   `gorm:"size:255"`
	UsuarioResponsable string    `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Inventario *Inventario `gorm:"foreignKey:InventarioID"`
	Producto   *Producto   `gorm:"foreignKey:ProductoID"`
}

func (Egreso) TableName() string { return "inventario_egresos" }
