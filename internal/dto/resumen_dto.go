package dto

import "github.com/shopspring/decimal"

// ResumenResponse holds the dashboard figures. Every value is a snapshot
// computed at request time from source rows — nothing here is persisted.
type ResumenResponse struct {
	TotalProductos      int64                `json:"total_products"`
	ValorInventario     decimal.Decimal      `json:"total_inventory_value"`
	LotesBajoStock      int64                `json:"low_stock_count"`
	ProduccionHoy       int64                `json:"today_production"`
	EgresosHoy          int64                `json:"today_egresos"`
	ValorEgresosHoy     decimal.Decimal      `json:"today_egresos_value"`
	MovimientosReciente []MovimientoResponse `json:"recent_movements"`
}
