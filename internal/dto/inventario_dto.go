package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearInventarioRequest struct {
	ProductoID        string  `json:"product_id"         validate:"required,uuid"`
	FechaProduccion   string  `json:"fecha_produccion"   validate:"required"` // YYYY-MM-DD
	CantidadProducida int     `json:"cantidad_producida" validate:"gt=0"`
	StockMinimo       *int    `json:"stock_minimo"       validate:"omitempty,min=0"`
	Ubicacion         *string `json:"ubicacion"          validate:"omitempty,max=255"`
	Lote              *string `json:"lote"               validate:"omitempty,max=100"`
	Notas             *string `json:"notas"`
}

// ActualizarInventarioRequest is an administrative override — editing
// cantidad_producida does NOT replay the movement journal.
type ActualizarInventarioRequest struct {
	FechaProduccion   *string `json:"fecha_produccion"`
	CantidadProducida *int    `json:"cantidad_producida" validate:"omitempty,gt=0"`
	StockMinimo       *int    `json:"stock_minimo"       validate:"omitempty,min=0"`
	Ubicacion         *string `json:"ubicacion"          validate:"omitempty,max=255"`
	Lote              *string `json:"lote"               validate:"omitempty,max=100"`
	Notas             *string `json:"notas"`
}

// RegistrarMovimientoRequest creates one journal entry. Cantidad must be
// positive for entrada/salida; for ajuste it is a signed delta and must be
// non-zero (validated in the service, not here, because the sign rule depends
// on tipo_movimiento).
type RegistrarMovimientoRequest struct {
	TipoMovimiento     string  `json:"tipo_movimiento"     validate:"required,oneof=entrada salida ajuste"`
	Cantidad           int     `json:"cantidad"            validate:"required"`
	Motivo             string  `json:"motivo"              validate:"required,max=255"`
	Referencia         *string `json:"referencia"          validate:"omitempty,max=255"`
	UsuarioResponsable string  `json:"usuario_responsable" validate:"required,max=255"`
}

type InventarioFilter struct {
	ProductoID  string `form:"product_id"   validate:"omitempty,uuid"`
	Lote        string `form:"lote"`
	StockStatus string `form:"stock_status" validate:"omitempty,oneof=ok low"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventarioResponse struct {
	ID                string          `json:"id"`
	ProductoID        string          `json:"product_id"`
	ProductoNombre    string          `json:"product_name"`
	FechaProduccion   string          `json:"fecha_produccion"`
	CantidadProducida int             `json:"cantidad_producida"`
	CostoUnitario     decimal.Decimal `json:"costo_unitario"`
	CostoTotal        decimal.Decimal `json:"costo_total"`
	StockActual       int             `json:"stock_actual"`
	StockMinimo       *int            `json:"stock_minimo"`
	StockStatus       string          `json:"stock_status"`
	Ubicacion         *string         `json:"ubicacion"`
	Lote              *string         `json:"lote"`
	Notas             *string         `json:"notas"`
	Activo            bool            `json:"is_active"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

type InventarioListResponse struct {
	Data  []InventarioResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type MovimientoResponse struct {
	ID                 string  `json:"id"`
	InventarioID       string  `json:"inventory_id"`
	TipoMovimiento     string  `json:"tipo_movimiento"`
	Cantidad           int     `json:"cantidad"`
	Motivo             string  `json:"motivo"`
	Referencia         *string `json:"referencia"`
	StockAnterior      int     `json:"stock_anterior"`
	StockPosterior     int     `json:"stock_posterior"`
	UsuarioResponsable string  `json:"usuario_responsable"`
	CreatedAt          string  `json:"created_at"`
}

// ReporteProduccionResponse aggregates the lots produced inside a date range.
type ReporteProduccionResponse struct {
	Desde          string               `json:"desde"`
	Hasta          string               `json:"hasta"`
	Lotes          []InventarioResponse `json:"lotes"`
	TotalProducido int                  `json:"total_producido"`
	CostoTotal     decimal.Decimal      `json:"costo_total"`
}

// InventarioResumen is the compact lot view used by low-stock alerts and
// per-product listings.
type InventarioResumen struct {
	ID                  string          `json:"id"`
	ProductoID          string          `json:"product_id"`
	ProductoNombre      string          `json:"product_name"`
	Lote                *string         `json:"lote"`
	StockActual         int             `json:"stock_actual"`
	StockMinimo         *int            `json:"stock_minimo"`
	StockStatus         string          `json:"stock_status"`
	FechaProduccion     string          `json:"fecha_produccion"`
	CostoUnitario       decimal.Decimal `json:"costo_unitario"`
	UltimoMovimientoFch *string         `json:"last_movement_date"`
}
