package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/costeo"
	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
)

func (f *fixtura) registrarEgreso(t *testing.T, loteID string, tipo string, cantidad int) *dto.EgresoResponse {
	t.Helper()
	resp, err := f.egresoSvc.Registrar(context.Background(), dto.RegistrarEgresoRequest{
		InventarioID:       loteID,
		TipoCliente:        tipo,
		Cantidad:           cantidad,
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)
	return resp
}

func TestRegistrarEgresoCongelaPrecioDelNivel(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	id, _ := uuid.Parse(lote.ID)

	// venta previa por mostrador
	_, err := f.inventarioSvc.RegistrarMovimiento(context.Background(), id, dto.RegistrarMovimientoRequest{
		TipoMovimiento:     model.MovimientoSalida,
		Cantidad:           30,
		Motivo:             "venta mostrador",
		UsuarioResponsable: "miguel",
	})
	require.NoError(t, err)

	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20)

	// precio público con IVA: 1.30/0.70 = 1.857143, +12% = 2.08
	assert.True(t, egreso.PrecioUnitario.Equal(dec("2.08")), "got %s", egreso.PrecioUnitario)
	assert.True(t, egreso.ValorTotal.Equal(dec("41.60")), "got %s", egreso.ValorTotal)
	assert.Equal(t, f.producto.ID.String(), egreso.ProductoID)

	relectura, err := f.inventarioSvc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 50, relectura.StockActual)

	// el egreso dejó su propia entrada en el journal de movimientos
	movimientos, _, err := f.inventarioSvc.ListarMovimientos(context.Background(), id, 1, 50)
	require.NoError(t, err)
	require.Len(t, movimientos, 2)
	ultimo := movimientos[1]
	assert.Equal(t, model.MovimientoSalida, ultimo.TipoMovimiento)
	require.NotNil(t, ultimo.Referencia)
	assert.Equal(t, egreso.ID, *ultimo.Referencia)
}

func TestRegistrarEgresoStockInsuficiente(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 50, "2026-08-01")

	_, err := f.egresoSvc.Registrar(context.Background(), dto.RegistrarEgresoRequest{
		InventarioID:       lote.ID,
		TipoCliente:        model.ClientePublico,
		Cantidad:           60,
		UsuarioResponsable: "miguel",
	})
	var stockErr *apierror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 50, stockErr.Disponible)
	assert.Equal(t, 60, stockErr.Solicitado)
	assert.Empty(t, f.egresoRepo.egresos)
}

func TestRegistrarEgresoRechazaCantidadNoPositiva(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 50, "2026-08-01")

	for _, cantidad := range []int{0, -5} {
		_, err := f.egresoSvc.Registrar(context.Background(), dto.RegistrarEgresoRequest{
			InventarioID:       lote.ID,
			TipoCliente:        model.ClientePublico,
			Cantidad:           cantidad,
			UsuarioResponsable: "miguel",
		})
		var vErr *apierror.ValidationError
		require.ErrorAs(t, err, &vErr, "cantidad %d", cantidad)
	}
	assert.Empty(t, f.egresoRepo.egresos)
}

func TestEgresoMayoristaUsaSuNivel(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")

	egreso := f.registrarEgreso(t, lote.ID, model.ClienteMayorista, 10)

	// 1.30/0.80 = 1.625, +12% = 1.82
	assert.True(t, egreso.PrecioUnitario.Equal(dec("1.82")), "got %s", egreso.PrecioUnitario)
	assert.True(t, egreso.ValorTotal.Equal(dec("18.20")), "got %s", egreso.ValorTotal)
}

func TestActualizarEgresoCantidadMantienePrecio(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	loteID, _ := uuid.Parse(lote.ID)
	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20) // stock 80
	egresoID, _ := uuid.Parse(egreso.ID)

	// el precio del producto cambia después de la venta
	f.aceite.PrecioBase = dec("4.00")
	f.aceite.PrecioUnidadPequena, _ = costeo.PrecioUnidadPequena(dec("4.00"))

	nueva := 30
	actualizado, err := f.egresoSvc.Actualizar(context.Background(), egresoID, dto.ActualizarEgresoRequest{
		Cantidad: &nueva,
	})
	require.NoError(t, err)

	// mismo precio congelado, nuevo total
	assert.True(t, actualizado.PrecioUnitario.Equal(dec("2.08")), "got %s", actualizado.PrecioUnitario)
	assert.True(t, actualizado.ValorTotal.Equal(dec("62.40")), "got %s", actualizado.ValorTotal)

	relectura, err := f.inventarioSvc.Obtener(context.Background(), loteID)
	require.NoError(t, err)
	assert.Equal(t, 70, relectura.StockActual)

	// la corrección quedó journalizada como ajuste de -10
	movimientos, _, err := f.inventarioSvc.ListarMovimientos(context.Background(), loteID, 1, 50)
	require.NoError(t, err)
	ultimo := movimientos[len(movimientos)-1]
	assert.Equal(t, model.MovimientoAjuste, ultimo.TipoMovimiento)
	assert.Equal(t, -10, ultimo.Cantidad)
}

func TestActualizarEgresoMismaCantidadNoMueveStock(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	loteID, _ := uuid.Parse(lote.ID)
	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20) // stock 80
	egresoID, _ := uuid.Parse(egreso.ID)

	misma := 20
	actualizado, err := f.egresoSvc.Actualizar(context.Background(), egresoID, dto.ActualizarEgresoRequest{
		Cantidad: &misma,
	})
	require.NoError(t, err)
	assert.True(t, actualizado.PrecioUnitario.Equal(dec("2.08")))
	assert.True(t, actualizado.ValorTotal.Equal(dec("41.60")))

	relectura, err := f.inventarioSvc.Obtener(context.Background(), loteID)
	require.NoError(t, err)
	assert.Equal(t, 80, relectura.StockActual)

	// sin ajuste en el journal: solo la salida original
	movimientos, _, err := f.inventarioSvc.ListarMovimientos(context.Background(), loteID, 1, 50)
	require.NoError(t, err)
	assert.Len(t, movimientos, 1)
}

func TestEdicionesSucesivasPartenDelEstadoGuardado(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	loteID, _ := uuid.Parse(lote.ID)
	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20) // stock 80
	egresoID, _ := uuid.Parse(egreso.ID)

	diez := 10
	_, err := f.egresoSvc.Actualizar(context.Background(), egresoID, dto.ActualizarEgresoRequest{Cantidad: &diez})
	require.NoError(t, err) // devuelve 10 al stock: 90

	quince := 15
	_, err = f.egresoSvc.Actualizar(context.Background(), egresoID, dto.ActualizarEgresoRequest{Cantidad: &quince})
	require.NoError(t, err) // delta 10-15 = -5: 85

	relectura, err := f.inventarioSvc.Obtener(context.Background(), loteID)
	require.NoError(t, err)
	assert.Equal(t, 85, relectura.StockActual)

	// cada edición releyó el egreso dentro de la transacción, con candado de fila
	assert.GreaterOrEqual(t, f.egresoRepo.lecturasConLock, 2)
}

func TestActualizarEgresoTipoClienteResnapshotea(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20)
	egresoID, _ := uuid.Parse(egreso.ID)

	mayorista := model.ClienteMayorista
	actualizado, err := f.egresoSvc.Actualizar(context.Background(), egresoID, dto.ActualizarEgresoRequest{
		TipoCliente: &mayorista,
	})
	require.NoError(t, err)

	assert.Equal(t, model.ClienteMayorista, actualizado.TipoCliente)
	assert.True(t, actualizado.PrecioUnitario.Equal(dec("1.82")), "got %s", actualizado.PrecioUnitario)
	assert.True(t, actualizado.ValorTotal.Equal(dec("36.40")), "got %s", actualizado.ValorTotal)
}

func TestActualizarEgresoCantidadExcesivaSeRechaza(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 50, "2026-08-01")
	loteID, _ := uuid.Parse(lote.ID)
	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20) // stock 30
	egresoID, _ := uuid.Parse(egreso.ID)

	// disponible para la edición = stock (30) + cantidad original (20) = 50
	nueva := 60
	_, err := f.egresoSvc.Actualizar(context.Background(), egresoID, dto.ActualizarEgresoRequest{
		Cantidad: &nueva,
	})
	var stockErr *apierror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 50, stockErr.Disponible)

	relectura, err := f.inventarioSvc.Obtener(context.Background(), loteID)
	require.NoError(t, err)
	assert.Equal(t, 30, relectura.StockActual)
}

func TestEliminarEgresoRestituyeStock(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	loteID, _ := uuid.Parse(lote.ID)
	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 30) // stock 70
	egresoID, _ := uuid.Parse(egreso.ID)

	require.NoError(t, f.egresoSvc.Eliminar(context.Background(), egresoID))

	relectura, err := f.inventarioSvc.Obtener(context.Background(), loteID)
	require.NoError(t, err)
	assert.Equal(t, 100, relectura.StockActual)

	_, err = f.egresoSvc.Obtener(context.Background(), egresoID)
	var nfErr *apierror.NotFoundError
	require.ErrorAs(t, err, &nfErr)

	// la restitución quedó journalizada como entrada
	movimientos, _, err := f.inventarioSvc.ListarMovimientos(context.Background(), loteID, 1, 50)
	require.NoError(t, err)
	ultimo := movimientos[len(movimientos)-1]
	assert.Equal(t, model.MovimientoEntrada, ultimo.TipoMovimiento)
	assert.Equal(t, 30, ultimo.Cantidad)
}

func TestEliminarYRegistrarDeNuevoRestituyeElMismoStock(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")
	loteID, _ := uuid.Parse(lote.ID)

	egreso := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20) // stock 80
	egresoID, _ := uuid.Parse(egreso.ID)
	require.NoError(t, f.egresoSvc.Eliminar(context.Background(), egresoID)) // stock 100

	repetido := f.registrarEgreso(t, lote.ID, model.ClientePublico, 20)
	assert.True(t, repetido.PrecioUnitario.Equal(egreso.PrecioUnitario))
	assert.True(t, repetido.ValorTotal.Equal(dec("41.60")))

	relectura, err := f.inventarioSvc.Obtener(context.Background(), loteID)
	require.NoError(t, err)
	assert.Equal(t, 80, relectura.StockActual)

	// el journal conserva el ciclo completo: salida, entrada, salida
	movimientos, _, err := f.inventarioSvc.ListarMovimientos(context.Background(), loteID, 1, 50)
	require.NoError(t, err)
	require.Len(t, movimientos, 3)
	assert.Equal(t, model.MovimientoSalida, movimientos[0].TipoMovimiento)
	assert.Equal(t, model.MovimientoEntrada, movimientos[1].TipoMovimiento)
	assert.Equal(t, model.MovimientoSalida, movimientos[2].TipoMovimiento)
}

func TestReporteDeEgresosSumaSnapshots(t *testing.T) {
	f := nuevaFixtura(t)
	lote := f.crearLote(t, 100, "2026-08-01")

	f.registrarEgreso(t, lote.ID, model.ClientePublico, 20)   // 41.60
	f.registrarEgreso(t, lote.ID, model.ClienteMayorista, 10) // 18.20

	reporte, err := f.egresoSvc.Reporte(context.Background(), dto.EgresoReportFilter{})
	require.NoError(t, err)
	assert.Len(t, reporte.Egresos, 2)
	assert.Equal(t, 30, reporte.TotalCantidad)
	assert.True(t, reporte.ValorTotal.Equal(dec("59.80")), "got %s", reporte.ValorTotal)

	soloMayorista, err := f.egresoSvc.Reporte(context.Background(), dto.EgresoReportFilter{
		TipoCliente: model.ClienteMayorista,
	})
	require.NoError(t, err)
	require.Len(t, soloMayorista.Egresos, 1)
	assert.True(t, soloMayorista.ValorTotal.Equal(dec("18.20")))
}
