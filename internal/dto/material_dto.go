package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearMaterialRequest struct {
	Nombre     string          `json:"nombre"      validate:"required,min=2,max=120"`
	PrecioBase decimal.Decimal `json:"precio_base" validate:"min=0"`
	UnidadBase string          `json:"unidad_base" validate:"required,oneof=kg litros"`
}

type ActualizarMaterialRequest struct {
	Nombre     *string          `json:"nombre"      validate:"omitempty,min=2,max=120"`
	PrecioBase *decimal.Decimal `json:"precio_base"`
	UnidadBase *string          `json:"unidad_base" validate:"omitempty,oneof=kg litros"`
}

// CostoMaterialRequest asks for the cost of an arbitrary quantity (grams/ml)
// of one material.
type CostoMaterialRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MaterialResponse struct {
	ID                  string          `json:"id"`
	Nombre              string          `json:"nombre"`
	PrecioBase          decimal.Decimal `json:"precio_base"`
	UnidadBase          string          `json:"unidad_base"`
	PrecioUnidadPequena decimal.Decimal `json:"precio_unidad_pequena"`
	Activo              bool            `json:"is_active"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}

type MaterialListResponse struct {
	Data  []MaterialResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type CostoMaterialResponse struct {
	MaterialID string          `json:"material_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Costo      decimal.Decimal `json:"costo"`
}

type MaterialFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=100"`
}
