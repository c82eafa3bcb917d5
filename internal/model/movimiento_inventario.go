package model

import (
	"time"

	"github.com/google/uuid"
)

// Valid values for MovimientoInventario.TipoMovimiento.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
	MovimientoAjuste  = "ajuste"
)

// MovimientoInventario registra cada cambio de stock sobre un lote.
// Rows are immutable once committed — corrections are made by recording an
// opposite movement. Cantidad is positive for entrada/salida; for ajuste it is
// a signed delta. StockAnterior/StockPosterior snapshot the lot's stock at
// commit time and are never recomputed.
type MovimientoInventario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InventarioID   uuid.UUID `gorm:"type:uuid;not null;index"`
	TipoMovimiento string    `gorm:"size:20;not null"` // "entrada" | "salida" | "ajuste"
	Cantidad       int       `gorm:"not null"`
	Motivo         string    `gorm:"size:255;not null"`
	Referencia     *string   `gorm:"size:255"`

	StockAnterior  int `gorm:"not null"`
	StockPosterior int `gorm:"not null"`

	UsuarioResponsable string `gorm:"size:255;not null"`
	CreatedAt          time.Time

	Inventario *Inventario `gorm:"foreignKey:InventarioID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
