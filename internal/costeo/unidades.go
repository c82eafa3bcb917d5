package costeo

import (
	"github.com/shopspring/decimal"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
)

// Conversion factors to grams. Liquids assume 1 ml ≈ 1 g.
var factoresAGramos = map[string]int64{
	"g":          1,
	"kg":         1000,
	"l":          1000,
	"ml":         1,
	"galon":      3785,
	"caneca_20l": 20000,
}

// AGramos converts a quantity in the given unit to grams/ml.
func AGramos(cantidad decimal.Decimal, unidad string) (decimal.Decimal, error) {
	factor, ok := factoresAGramos[unidad]
	if !ok {
		return decimal.Zero, apierror.NewFieldError("unit", "unidad no soportada: "+unidad)
	}
	if cantidad.Sign() <= 0 {
		return decimal.Zero, apierror.NewFieldError("quantity", "debe ser mayor a cero")
	}
	return cantidad.Mul(decimal.NewFromInt(factor)), nil
}

// ResultadoUnidad is the pricing of an arbitrary requested quantity/unit of a
// product, derived from the same per-gram cost and margin/IVA formulas as the
// package prices — only the input quantity varies.
type ResultadoUnidad struct {
	Cantidad decimal.Decimal
	Unidad   string
	Gramos   decimal.Decimal

	CostoPorGramoAjustado decimal.Decimal
	CostoTotal            decimal.Decimal

	Publico      Tier
	Mayorista    Tier
	Distribuidor Tier
}

// CalcularPorUnidad prices `cantidad` of `unidad` (g, kg, l, ml, galon,
// caneca_20l) of the product.
func CalcularPorUnidad(p *model.Producto, cantidad decimal.Decimal, unidad string) (*ResultadoUnidad, error) {
	gramos, err := AGramos(cantidad, unidad)
	if err != nil {
		return nil, err
	}
	porGramo, err := CostoPorGramoAjustado(p)
	if err != nil {
		return nil, err
	}
	costo := porGramo.Mul(gramos)

	pr, err := preciosDesdeCosto(p, decimal.Zero, costo)
	if err != nil {
		return nil, err
	}
	return &ResultadoUnidad{
		Cantidad:              cantidad,
		Unidad:                unidad,
		Gramos:                gramos,
		CostoPorGramoAjustado: porGramo,
		CostoTotal:            costo,
		Publico:               pr.Publico,
		Mayorista:             pr.Mayorista,
		Distribuidor:          pr.Distribuidor,
	}, nil
}
