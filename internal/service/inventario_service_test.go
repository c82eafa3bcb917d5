package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/costeo"
	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Shared fixture ───────────────────────────────────────────────────────────

type fixtura struct {
	materialRepo   *stubMaterialRepo
	productoRepo   *stubProductoRepo
	inventarioRepo *stubInventarioRepo
	movRepo        *stubMovimientoRepo
	egresoRepo     *stubEgresoRepo

	inventarioSvc InventarioService
	egresoSvc     EgresoService

	aceite   *model.Material
	producto *model.Producto
}

// nuevaFixtura arma un jabón de costo paquete 1.30 (aceite 500g a 2.00/kg +
// transporte 0.30), márgenes 30/20/10 e IVA 12:
// precio público con IVA 2.08, mayorista 1.82.
func nuevaFixtura(t *testing.T) *fixtura {
	t.Helper()

	f := &fixtura{
		materialRepo:   newStubMaterialRepo(),
		productoRepo:   newStubProductoRepo(),
		inventarioRepo: newStubInventarioRepo(),
		movRepo:        newStubMovimientoRepo(),
		egresoRepo:     newStubEgresoRepo(),
	}
	f.inventarioSvc = NewInventarioService(f.inventarioRepo, f.movRepo, f.egresoRepo, f.productoRepo)
	f.egresoSvc = NewEgresoService(f.egresoRepo, f.inventarioRepo, f.movRepo, f.productoRepo)

	unitario, err := costeo.PrecioUnidadPequena(dec("2.00"))
	require.NoError(t, err)
	f.aceite = &model.Material{
		ID:                  uuid.New(),
		Nombre:              "Aceite de coco",
		PrecioBase:          dec("2.00"),
		UnidadBase:          model.UnidadKg,
		PrecioUnidadPequena: unitario,
		Activo:              true,
	}
	require.NoError(t, f.materialRepo.Create(context.Background(), f.aceite))

	f.producto = &model.Producto{
		ID:                 uuid.New(),
		Nombre:             "Jabon liquido",
		CostoTransporte:    dec("0.30"),
		MargenPublico:      dec("30"),
		MargenMayorista:    dec("20"),
		MargenDistribuidor: dec("10"),
		IVAPercentage:      dec("12"),
		Activo:             true,
		Materiales: []model.ProductoMaterial{{
			ID:         uuid.New(),
			MaterialID: f.aceite.ID,
			Cantidad:   dec("500"),
			Material:   f.aceite,
		}},
	}
	f.producto.Materiales[0].ProductoID = f.producto.ID
	require.NoError(t, f.productoRepo.Create(context.Background(), f.producto))

	return f
}

func (f *fixtura) crearLote(t *testing.T, cantidad int, fecha string) *dto.InventarioResponse {
	t.Helper()
	resp, err := f.inventarioSvc.CrearLote(context.Background(), dto.CrearInventarioRequest{
		ProductoID:        f.producto.ID.String(),
		FechaProduccion:   fecha,
		CantidadProducida: cantidad,
	})
	require.NoError(t, err)
	return resp
}

// ── CrearLote ────────────────────────────────────────────────────────────────

func TestCrearLoteCongelaCostoDeProduccion(t *testing.T) {
	f := nuevaFixtura(t)

	lote := f.crearLote(t, 100, "2026-08-01")

	assert.Equal(t, 100, lote.StockActual)
	assert.Equal(t, 100, lote.CantidadProducida)
	assert.True(t, lote.CostoUnitario.Equal(dec("1.30")), "got %s", lote.CostoUnitario)
	assert.True(t, lote.CostoTotal.Equal(dec("130.00")), "got %s", lote.CostoTotal)
	assert.Equal(t, "Jabon liquido", lote.ProductoNombre)

	// un cambio posterior del precio del material no toca el lote
	f.aceite.PrecioBase = dec("4.00")
	id, _ := uuid.Parse(lote.ID)
	relectura, err := f.inventarioSvc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, relectura.CostoUnitario.Equal(dec("1.30")))
}

func TestCrearLoteRechazaCantidadNoPositiva(t *testing.T) {
	f := nuevaFixtura(t)

	for _, cantidad := range []int{0, -10} {
		_, err := f.inventarioSvc.CrearLote(context.Background(), dto.CrearInventarioRequest{
			ProductoID:        f.producto.ID.String(),
			FechaProduccion:   "2026-08-01",
			CantidadProducida: cantidad,
		})
		var vErr *apierror.ValidationError
		require.ErrorAs(t, err, &vErr, "cantidad %d", cantidad)
	}
}

func TestCrearLoteValidaciones(t *testing.T) {
	f := nuevaFixtura(t)

	_, err := f.inventarioSvc.CrearLote(context.Background(), dto.CrearInventarioRequest{
		ProductoID:        uuid.NewString(),
		FechaProduccion:   "2026-08-01",
		CantidadProducida: 10,
	})
	var nfErr *apierror.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	_, err = f.inventarioSvc.CrearLote(context.Background(), dto.CrearInventarioRequest{
		ProductoID:        f.producto.ID.String(),
		FechaProduccion:   "01/08/2026",
		CantidadProducida: 10,
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)
}

// ── Movimientos ──────────────────────────────────────────────────────────────

func TestRegistrarMovimientoSalida(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	id, _ := uuid.Parse(lote.ID)

	mov, err := f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoSalida,
		Cantidad:           30,
		Motivo:             "venta mostrador",
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)
	assert.Equal(t, 100, mov.StockAnterior)
	assert.Equal(t, 70, mov.StockPosterior)

	relectura, err := f.inventarioSvc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 70, relectura.StockActual)
}

func TestRegistrarMovimientoStockInsuficiente(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 50, "2026-08-01")
	id, _ := uuid.Parse(lote.ID)

	_, err := f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoSalida,
		Cantidad:           60,
		Motivo:             "venta",
		UsuarioResponsable: "miguel",
	})
	var stockErr *apierror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 50, stockErr.Disponible)
	assert.Equal(t, 60, stockErr.Solicitado)

	// el rechazo no dejó rastro: ni movimiento ni cambio de stock
	total, _ := f.movRepo.CountByInventario(context.Background(), id)
	assert.Equal(t, int64(0), total)
	relectura, _ := f.inventarioSvc.Obtener(context.Background(), id)
	assert.Equal(t, 50, relectura.StockActual)
}

func TestAjusteEsDeltaFirmado(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 70, "2026-08-01")
	id, _ := uuid.Parse(lote.ID)

	mov, err := f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoAjuste,
		Cantidad:           -20,
		Motivo:             "conteo fisico",
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, mov.StockPosterior)

	// un ajuste que deja stock negativo se rechaza
	_, err = f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoAjuste,
		Cantidad:           -100,
		Motivo:             "conteo fisico",
		UsuarioResponsable: "miguel",
	})
	var vErr *apierror.ValidationError
	require.ErrorAs(t, err, &vErr)

	// entrada negativa tampoco es valida
	_, err = f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoEntrada,
		Cantidad:           -5,
		Motivo:             "reingreso",
		UsuarioResponsable: "miguel",
	})
	require.ErrorAs(t, err, &vErr)
}

// ── Eliminación de lotes ─────────────────────────────────────────────────────

func TestEliminarLoteConJournalSeRechaza(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	id, _ := uuid.Parse(lote.ID)

	_, err := f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoSalida,
		Cantidad:           10,
		Motivo:             "venta",
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)

	err = f.inventarioSvc.Eliminar(context.Background(), id)
	var cErr *apierror.ConflictError
	require.ErrorAs(t, err, &cErr)

	// un lote sin journal sí se puede eliminar
	limpio := f.crearLote(t, 10, "2026-08-02")
	limpioID, _ := uuid.Parse(limpio.ID)
	require.NoError(t, f.inventarioSvc.Eliminar(context.Background(), limpioID))
	_, err = f.inventarioSvc.Obtener(context.Background(), limpioID)
	var nfErr *apierror.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

// ── Stock status ─────────────────────────────────────────────────────────────

func TestStockStatusEsEstrictamenteMenor(t *testing.T) {
	f := nuevaFixtura(t)
	minimo := 50

	resp, err := f.inventarioSvc.CrearLote(context.Background(), dto.CrearInventarioRequest{
		ProductoID:        f.producto.ID.String(),
		FechaProduccion:   "2026-08-01",
		CantidadProducida: 50,
		StockMinimo:       &minimo,
	})
	require.NoError(t, err)
	// stock == minimo no es bajo stock
	assert.Equal(t, model.StockOK, resp.StockStatus)

	id, _ := uuid.Parse(resp.ID)
	_, err = f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoSalida,
		Cantidad:           1,
		Motivo:             "venta",
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)

	relectura, err := f.inventarioSvc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StockLow, relectura.StockStatus)

	alertas, err := f.inventarioSvc.BajoStock(context.Background())
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, resp.ID, alertas[0].ID)
}

// ── Resumen ──────────────────────────────────────────────────────────────────

func TestResumenAgregaDesdeFilas(t *testing.T) {
	f := nuevaFixtura(t)
	hoy := time.Now().Format("2006-01-02")
	lote := f.crearLote(t, 100, hoy)
	id, _ := uuid.Parse(lote.ID)

	_, err := f.egresoSvc.Registrar(context.Background(), dto.RegistrarEgresoRequest{
		InventarioID:       lote.ID,
		TipoCliente:        model.ClientePublico,
		Cantidad:           20,
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)

	resumen, err := f.inventarioSvc.Resumen(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resumen.TotalProductos)
	assert.Equal(t, int64(100), resumen.ProduccionHoy)
	assert.Equal(t, int64(20), resumen.EgresosHoy)
	// 20 × 2.08
	assert.True(t, resumen.ValorEgresosHoy.Equal(dec("41.60")), "got %s", resumen.ValorEgresosHoy)
	// 80 restantes × 1.30 congelado
	assert.True(t, resumen.ValorInventario.Equal(dec("104.00")), "got %s", resumen.ValorInventario)
	require.NotEmpty(t, resumen.MovimientosReciente)
	assert.Equal(t, id.String(), resumen.MovimientosReciente[0].InventarioID)
}

func TestReporteProduccionPorPeriodo(t *testing.T) {
	f := nuevaFixtura(t)
	f.crearLote(t, 100, "2026-08-01")
	f.crearLote(t, 50, "2026-08-15")
	f.crearLote(t, 30, "2026-09-02") // fuera del rango

	desde, _ := time.Parse("2006-01-02", "2026-08-01")
	hasta, _ := time.Parse("2006-01-02", "2026-08-31")
	reporte, err := f.inventarioSvc.ReporteProduccion(context.Background(), desde, hasta)
	require.NoError(t, err)

	assert.Len(t, reporte.Lotes, 2)
	assert.Equal(t, 150, reporte.TotalProducido)
	// (100 + 50) × 1.30
	assert.True(t, reporte.CostoTotal.Equal(dec("195.00")), "got %s", reporte.CostoTotal)
}
