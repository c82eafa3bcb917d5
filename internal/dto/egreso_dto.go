package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarEgresoRequest struct {
	InventarioID       string  `json:"inventory_id"        validate:"required,uuid"`
	TipoCliente        string  `json:"tipo_cliente"        validate:"required,oneof=publico mayorista distribuidor"`
	Cantidad           int     `json:"cantidad"            validate:"gt=0"`
	Motivo             *string `json:"motivo"`
	Referencia         *string `json:"referencia"          validate:"omitempty,max=255"`
	UsuarioResponsable string  `json:"usuario_responsable" validate:"required,max=255"`
}

// ActualizarEgresoRequest edits a sale. Changing cantidad reverses the old
// stock effect and applies the new one; the price snapshot is kept. Changing
// tipo_cliente re-snapshots the price at the current tier.
type ActualizarEgresoRequest struct {
	Cantidad           *int    `json:"cantidad"            validate:"omitempty,gt=0"`
	TipoCliente        *string `json:"tipo_cliente"        validate:"omitempty,oneof=publico mayorista distribuidor"`
	Motivo             *string `json:"motivo"`
	Referencia         *string `json:"referencia"          validate:"omitempty,max=255"`
	UsuarioResponsable *string `json:"usuario_responsable" validate:"omitempty,max=255"`
}

type EgresoReportFilter struct {
	Desde       string `form:"desde"        validate:"omitempty,datetime=2006-01-02"`
	Hasta       string `form:"hasta"        validate:"omitempty,datetime=2006-01-02"`
	TipoCliente string `form:"tipo_cliente" validate:"omitempty,oneof=publico mayorista distribuidor"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// EgresoReportResponse aggregates sales matching a filter. ValorTotal is the
// sum of the stored per-egreso snapshots, not a recomputation at current prices.
type EgresoReportResponse struct {
	Egresos       []EgresoResponse `json:"egresos"`
	TotalCantidad int              `json:"total_cantidad"`
	ValorTotal    decimal.Decimal  `json:"valor_total"`
}

type EgresoListResponse struct {
	Data  []EgresoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type EgresoResponse struct {
	ID                 string          `json:"id"`
	InventarioID       string          `json:"inventory_id"`
	ProductoID         string          `json:"product_id"`
	ProductoNombre     string          `json:"product_nombre"`
	TipoCliente        string          `json:"tipo_cliente"`
	Cantidad           int             `json:"cantidad"`
	PrecioUnitario     decimal.Decimal `json:"precio_unitario"`
	ValorTotal         decimal.Decimal `json:"valor_total"`
	FechaEgreso        string          `json:"fecha_egreso"`
	Motivo             *string         `json:"motivo"`
	Referencia         *string         `json:"referencia"`
	UsuarioResponsable string          `json:"usuario_responsable"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}
