package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductoMaterialRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"gt=0"` // grams/ml
}

type CrearProductoRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=120"`

	ProductMaterials []ProductoMaterialRequest `json:"product_materials" validate:"required,min=1,dive"`

	CostoEtiqueta decimal.Decimal `json:"costo_etiqueta" validate:"min=0"`
	CostoEnvase   decimal.Decimal `json:"costo_envase"   validate:"min=0"`
	CostoCaja     decimal.Decimal `json:"costo_caja"     validate:"min=0"`
	// Transporte is the one mandatory packaging cost — pointer so "unset" is
	// distinguishable from an explicit 0.
	CostoTransporte *decimal.Decimal `json:"costo_transporte" validate:"required"`

	CostoManoObra      decimal.Decimal `json:"costo_mano_obra"     validate:"min=0"`
	CostoEnergia       decimal.Decimal `json:"costo_energia"       validate:"min=0"`
	CostoDepreciacion  decimal.Decimal `json:"costo_depreciacion"  validate:"min=0"`
	CostoMantenimiento decimal.Decimal `json:"costo_mantenimiento" validate:"min=0"`

	CostoAdministrativo   decimal.Decimal `json:"costo_administrativo"   validate:"min=0"`
	CostoComercializacion decimal.Decimal `json:"costo_comercializacion" validate:"min=0"`
	CostoFinanciero       decimal.Decimal `json:"costo_financiero"       validate:"min=0"`

	MargenPublico      decimal.Decimal `json:"margen_publico"      validate:"min=0,lt=100"`
	MargenMayorista    decimal.Decimal `json:"margen_mayorista"    validate:"min=0,lt=100"`
	MargenDistribuidor decimal.Decimal `json:"margen_distribuidor" validate:"min=0,lt=100"`

	// Omitted → business default of 21, applied at this boundary (not in the
	// costing engine).
	IVAPercentage *decimal.Decimal `json:"iva_percentage" validate:"omitempty,min=0,max=100"`

	PesoIngredientesBase *decimal.Decimal `json:"peso_ingredientes_base" validate:"omitempty,gt=0"`
	PesoEmpaque          *int             `json:"peso_empaque"           validate:"omitempty,oneof=100 500 1000 3785 20000"`
}

type ActualizarProductoRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=120"`

	ProductMaterials []ProductoMaterialRequest `json:"product_materials" validate:"omitempty,min=1,dive"`

	CostoEtiqueta   *decimal.Decimal `json:"costo_etiqueta"`
	CostoEnvase     *decimal.Decimal `json:"costo_envase"`
	CostoCaja       *decimal.Decimal `json:"costo_caja"`
	CostoTransporte *decimal.Decimal `json:"costo_transporte"`

	CostoManoObra      *decimal.Decimal `json:"costo_mano_obra"`
	CostoEnergia       *decimal.Decimal `json:"costo_energia"`
	CostoDepreciacion  *decimal.Decimal `json:"costo_depreciacion"`
	CostoMantenimiento *decimal.Decimal `json:"costo_mantenimiento"`

	CostoAdministrativo   *decimal.Decimal `json:"costo_administrativo"`
	CostoComercializacion *decimal.Decimal `json:"costo_comercializacion"`
	CostoFinanciero       *decimal.Decimal `json:"costo_financiero"`

	MargenPublico      *decimal.Decimal `json:"margen_publico"      validate:"omitempty,min=0,lt=100"`
	MargenMayorista    *decimal.Decimal `json:"margen_mayorista"    validate:"omitempty,min=0,lt=100"`
	MargenDistribuidor *decimal.Decimal `json:"margen_distribuidor" validate:"omitempty,min=0,lt=100"`

	IVAPercentage *decimal.Decimal `json:"iva_percentage" validate:"omitempty,min=0,max=100"`

	PesoIngredientesBase *decimal.Decimal `json:"peso_ingredientes_base" validate:"omitempty,gt=0"`
	PesoEmpaque          *int             `json:"peso_empaque"           validate:"omitempty,oneof=100 500 1000 3785 20000"`
}

type DuplicarProductoRequest struct {
	Nombre      string `json:"nombre"       validate:"required,min=2,max=120"`
	PesoEmpaque *int   `json:"peso_empaque" validate:"omitempty,oneof=100 500 1000 3785 20000"`
}

type CalculadoraQuery struct {
	Quantity decimal.Decimal `form:"quantity" validate:"required"`
	Unit     string          `form:"unit"     validate:"required,oneof=g kg l ml galon caneca_20l"`
}

type ProductoFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoMaterialResponse struct {
	ID         string            `json:"id"`
	MaterialID string            `json:"material_id"`
	Cantidad   decimal.Decimal   `json:"cantidad"`
	Costo      decimal.Decimal   `json:"costo"`
	Material   *MaterialResponse `json:"material,omitempty"`
}

type ProductoResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`

	ProductMaterials []ProductoMaterialResponse `json:"product_materials"`

	CostoEtiqueta         decimal.Decimal `json:"costo_etiqueta"`
	CostoEnvase           decimal.Decimal `json:"costo_envase"`
	CostoCaja             decimal.Decimal `json:"costo_caja"`
	CostoTransporte       decimal.Decimal `json:"costo_transporte"`
	CostoManoObra         decimal.Decimal `json:"costo_mano_obra"`
	CostoEnergia          decimal.Decimal `json:"costo_energia"`
	CostoDepreciacion     decimal.Decimal `json:"costo_depreciacion"`
	CostoMantenimiento    decimal.Decimal `json:"costo_mantenimiento"`
	CostoAdministrativo   decimal.Decimal `json:"costo_administrativo"`
	CostoComercializacion decimal.Decimal `json:"costo_comercializacion"`
	CostoFinanciero       decimal.Decimal `json:"costo_financiero"`

	MargenPublico      decimal.Decimal `json:"margen_publico"`
	MargenMayorista    decimal.Decimal `json:"margen_mayorista"`
	MargenDistribuidor decimal.Decimal `json:"margen_distribuidor"`
	IVAPercentage      decimal.Decimal `json:"iva_percentage"`

	CostoMateriales decimal.Decimal `json:"costo_total"` // material rollup, original field name
	CostoPaquete    decimal.Decimal `json:"costo_paquete"`
	CostoPorGramo   decimal.Decimal `json:"costo_por_gramo"`

	PrecioPublico      decimal.Decimal `json:"precio_publico"`
	PrecioMayorista    decimal.Decimal `json:"precio_mayorista"`
	PrecioDistribuidor decimal.Decimal `json:"precio_distribuidor"`

	IVAPublico      decimal.Decimal `json:"iva_publico"`
	IVAMayorista    decimal.Decimal `json:"iva_mayorista"`
	IVADistribuidor decimal.Decimal `json:"iva_distribuidor"`

	PrecioPublicoConIVA      decimal.Decimal `json:"precio_publico_con_iva"`
	PrecioMayoristaConIVA    decimal.Decimal `json:"precio_mayorista_con_iva"`
	PrecioDistribuidorConIVA decimal.Decimal `json:"precio_distribuidor_con_iva"`

	PesoIngredientesBase *decimal.Decimal `json:"peso_ingredientes_base"`
	PesoEmpaque          *int             `json:"peso_empaque"`

	Activo    bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// CalculadoraResponse mirrors the unit calculator contract consumed by the client.
type CalculadoraResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`

	CostPerGramAdjusted decimal.Decimal `json:"cost_per_gram_adjusted"`
	TotalCost           decimal.Decimal `json:"total_cost"`

	PrecioPublico      decimal.Decimal `json:"precio_publico"`
	PrecioMayorista    decimal.Decimal `json:"precio_mayorista"`
	PrecioDistribuidor decimal.Decimal `json:"precio_distribuidor"`

	IVAPublico      decimal.Decimal `json:"iva_publico"`
	IVAMayorista    decimal.Decimal `json:"iva_mayorista"`
	IVADistribuidor decimal.Decimal `json:"iva_distribuidor"`

	PrecioPublicoConIVA      decimal.Decimal `json:"precio_publico_con_iva"`
	PrecioMayoristaConIVA    decimal.Decimal `json:"precio_mayorista_con_iva"`
	PrecioDistribuidorConIVA decimal.Decimal `json:"precio_distribuidor_con_iva"`
}

// ConsultaPreciosResponse is the cached public price lookup.
type ConsultaPreciosResponse struct {
	ProductID                string          `json:"product_id"`
	Nombre                   string          `json:"nombre"`
	PrecioPublicoConIVA      decimal.Decimal `json:"precio_publico_con_iva"`
	PrecioMayoristaConIVA    decimal.Decimal `json:"precio_mayorista_con_iva"`
	PrecioDistribuidorConIVA decimal.Decimal `json:"precio_distribuidor_con_iva"`
}

type ProductoResumenCosto struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"nombre"`
	CostoTotal      decimal.Decimal `json:"costo_total"`
	MaterialesCount int             `json:"materiales_count"`
}

type CostosTotalesResponse struct {
	Productos         []ProductoResumenCosto `json:"productos"`
	CostoTotalGeneral decimal.Decimal        `json:"costo_total_general"`
	TotalProductos    int                    `json:"total_productos"`
}
