// Package costeo is the single authoritative implementation of the costing and
// pricing formulas. Handlers and services call into it; no other layer (nor any
// client) reimplements the arithmetic. All functions are pure: identical inputs
// always yield identical results, and nothing is cached between calls.
package costeo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
)

// Internal fixed-point precision. Display rounding to 2 decimals happens at the
// DTO layer, never here.
const Precision = 6

var (
	mil  = decimal.NewFromInt(1000)
	cien = decimal.NewFromInt(100)
)

// PrecioUnidadPequena normalizes a bulk price (per kg or per liter) into the
// price per gram or milliliter.
func PrecioUnidadPequena(precioBase decimal.Decimal) (decimal.Decimal, error) {
	if precioBase.IsNegative() {
		return decimal.Zero, apierror.NewFieldError("precio_base", "no puede ser negativo")
	}
	return precioBase.Div(mil).Round(Precision), nil
}

// CostoLineaMaterial is the cost contributed by one recipe line:
// unit price of the material × cantidad in grams/ml.
func CostoLineaMaterial(m *model.Material, cantidad decimal.Decimal) (decimal.Decimal, error) {
	if cantidad.Sign() <= 0 {
		return decimal.Zero, apierror.NewFieldError("cantidad", "debe ser mayor a cero")
	}
	unitario, err := PrecioUnidadPequena(m.PrecioBase)
	if err != nil {
		return decimal.Zero, err
	}
	return unitario.Mul(cantidad), nil
}

// CostoMateriales sums the cost of every recipe line. Each line must carry its
// Material preloaded; a missing material or a duplicated material_id is a
// validation error, never silently skipped.
func CostoMateriales(lineas []model.ProductoMaterial) (decimal.Decimal, error) {
	total := decimal.Zero
	vistos := make(map[uuid.UUID]bool, len(lineas))
	for _, pm := range lineas {
		if pm.Material == nil {
			return decimal.Zero, apierror.NewFieldError("material_id", "material desconocido: "+pm.MaterialID.String())
		}
		if vistos[pm.MaterialID] {
			return decimal.Zero, apierror.NewFieldError("material_id", "material duplicado: "+pm.MaterialID.String())
		}
		vistos[pm.MaterialID] = true

		costo, err := CostoLineaMaterial(pm.Material, pm.Cantidad)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(costo)
	}
	return total, nil
}

// CostoTotal aggregates material cost plus every packaging, production and
// operational component. All components are entered per package unit, so the
// total is also the package cost (CostoPaquete == CostoTotal).
func CostoTotal(p *model.Producto) (decimal.Decimal, error) {
	if len(p.Materiales) == 0 {
		return decimal.Zero, apierror.NewFieldError("product_materials", "el producto debe tener al menos un material")
	}
	materiales, err := CostoMateriales(p.Materiales)
	if err != nil {
		return decimal.Zero, err
	}
	return materiales.
		Add(p.CostoEtiqueta).
		Add(p.CostoEnvase).
		Add(p.CostoCaja).
		Add(p.CostoTransporte).
		Add(p.CostoManoObra).
		Add(p.CostoEnergia).
		Add(p.CostoDepreciacion).
		Add(p.CostoMantenimiento).
		Add(p.CostoAdministrativo).
		Add(p.CostoComercializacion).
		Add(p.CostoFinanciero), nil
}

// Tier is one sale tier: net price, IVA amount, and tax-inclusive price.
type Tier struct {
	Precio       decimal.Decimal
	IVA          decimal.Decimal
	PrecioConIVA decimal.Decimal
}

// PrecioTier derives a tier price from the package cost. Margen is a fraction
// of the SALE price, not a markup on cost: precio = costo / (1 - margen/100),
// so margen must be strictly below 100 — a margin of exactly 100 would divide
// by zero and is rejected, never returned as Inf.
func PrecioTier(costoPaquete, margen, ivaPct decimal.Decimal) (Tier, error) {
	if margen.IsNegative() || margen.GreaterThanOrEqual(cien) {
		return Tier{}, apierror.NewFieldError("margen", "debe estar entre 0 y 100 (exclusivo)")
	}
	if ivaPct.IsNegative() || ivaPct.GreaterThan(cien) {
		return Tier{}, apierror.NewFieldError("iva_percentage", "debe estar entre 0 y 100")
	}
	precio := costoPaquete.Div(decimal.NewFromInt(1).Sub(margen.Div(cien))).Round(Precision)
	iva := precio.Mul(ivaPct).Div(cien).Round(Precision)
	return Tier{Precio: precio, IVA: iva, PrecioConIVA: precio.Add(iva)}, nil
}

// Precios is the full rollup + pricing result for one product.
type Precios struct {
	CostoMateriales decimal.Decimal
	CostoTotal      decimal.Decimal
	CostoPaquete    decimal.Decimal

	Publico      Tier
	Mayorista    Tier
	Distribuidor Tier
}

// CalcularPrecios recomputes the whole cost/price derivation from the current
// product rows. Called on every read — material price edits propagate to all
// dependent products with no cache in between.
func CalcularPrecios(p *model.Producto) (*Precios, error) {
	materiales, err := CostoMateriales(p.Materiales)
	if err != nil {
		return nil, err
	}
	total, err := CostoTotal(p)
	if err != nil {
		return nil, err
	}
	return preciosDesdeCosto(p, materiales, total)
}

func preciosDesdeCosto(p *model.Producto, materiales, costoPaquete decimal.Decimal) (*Precios, error) {
	publico, err := PrecioTier(costoPaquete, p.MargenPublico, p.IVAPercentage)
	if err != nil {
		return nil, apierror.NewFieldError("margen_publico", "debe estar entre 0 y 100 (exclusivo)")
	}
	mayorista, err := PrecioTier(costoPaquete, p.MargenMayorista, p.IVAPercentage)
	if err != nil {
		return nil, apierror.NewFieldError("margen_mayorista", "debe estar entre 0 y 100 (exclusivo)")
	}
	distribuidor, err := PrecioTier(costoPaquete, p.MargenDistribuidor, p.IVAPercentage)
	if err != nil {
		return nil, apierror.NewFieldError("margen_distribuidor", "debe estar entre 0 y 100 (exclusivo)")
	}
	return &Precios{
		CostoMateriales: materiales,
		CostoTotal:      costoPaquete,
		CostoPaquete:    costoPaquete,
		Publico:         publico,
		Mayorista:       mayorista,
		Distribuidor:    distribuidor,
	}, nil
}

// CostoPorGramo is the material cost per gram of recipe, defined only when the
// base recipe weight is tracked; otherwise the material cost is already a
// per-package quantity and is returned as-is.
func CostoPorGramo(p *model.Producto) (decimal.Decimal, error) {
	materiales, err := CostoMateriales(p.Materiales)
	if err != nil {
		return decimal.Zero, err
	}
	if p.PesoIngredientesBase == nil || p.PesoIngredientesBase.Sign() <= 0 {
		return materiales, nil
	}
	return materiales.Div(*p.PesoIngredientesBase).Round(Precision), nil
}

// CostoPorGramoAjustado scales the TOTAL package cost down to one gram, using
// the recipe weight when tracked and the package weight otherwise. A per-gram
// scale needs some weight basis; without one the request is rejected.
func CostoPorGramoAjustado(p *model.Producto) (decimal.Decimal, error) {
	total, err := CostoTotal(p)
	if err != nil {
		return decimal.Zero, err
	}
	switch {
	case p.PesoIngredientesBase != nil && p.PesoIngredientesBase.Sign() > 0:
		return total.Div(*p.PesoIngredientesBase).Round(Precision), nil
	case p.PesoEmpaque != nil && *p.PesoEmpaque > 0:
		return total.Div(decimal.NewFromInt(int64(*p.PesoEmpaque))).Round(Precision), nil
	default:
		return decimal.Zero, apierror.NewFieldError("peso_empaque", "se requiere peso_ingredientes_base o peso_empaque para calcular costo por gramo")
	}
}

// PrecioParaCliente returns the tax-inclusive tier price for a tipo_cliente.
// This is the snapshot basis used by egresos: precio_unitario CON IVA.
func PrecioParaCliente(pr *Precios, tipoCliente string) (decimal.Decimal, error) {
	switch tipoCliente {
	case model.ClientePublico:
		return pr.Publico.PrecioConIVA, nil
	case model.ClienteMayorista:
		return pr.Mayorista.PrecioConIVA, nil
	case model.ClienteDistribuidor:
		return pr.Distribuidor.PrecioConIVA, nil
	default:
		return decimal.Zero, apierror.NewFieldError("tipo_cliente", "debe ser publico, mayorista o distribuidor")
	}
}
