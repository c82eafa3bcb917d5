package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Valid package weights in grams (PesoEmpaque).
var PesosEmpaqueValidos = []int{100, 500, 1000, 3785, 20000}

// Producto is a finished product: a recipe of materials plus packaging,
// production and operational cost components, three sale margins and an IVA
// rate. Costs and tier prices are never stored — they are recomputed from the
// current material prices on every read (see internal/costeo).
type Producto struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"index;not null"`

	// Packaging costs per package unit. Transporte is mandatory.
	CostoEtiqueta   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoEnvase     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoCaja       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoTransporte decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	// Production costs per package unit.
	CostoManoObra      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoEnergia       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoDepreciacion  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoMantenimiento decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	// Operational costs per package unit.
	CostoAdministrativo   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoComercializacion decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CostoFinanciero       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	// Margins are a fraction of the sale price, so each must be < 100.
	MargenPublico      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MargenMayorista    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MargenDistribuidor decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	IVAPercentage decimal.Decimal `gorm:"column:iva_percentage;type:decimal(5,2);not null;default:21"`

	// PesoIngredientesBase is the total recipe weight in grams, used to derive
	// per-gram cost for the unit calculator. Optional.
	PesoIngredientesBase *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// PesoEmpaque is the package weight in grams, one of PesosEmpaqueValidos.
	PesoEmpaque *int

	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Materiales []ProductoMaterial `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }

// ProductoMaterial is one recipe line: cantidad grams/ml of a material.
// (ProductoID, MaterialID) is unique — a material appears at most once per product.
type ProductoMaterial struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_producto_material"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_producto_material"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(10,2);not null"` // grams or ml
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (ProductoMaterial) TableName() string { return "producto_materiales" }
