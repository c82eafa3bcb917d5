package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/costeo"
	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
	"github.com/MiguelAngelEc/preciosSoley/internal/repository"
)

type InventarioService interface {
	CrearLote(ctx context.Context, req dto.CrearInventarioRequest) (*dto.InventarioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.InventarioResponse, error)
	Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.InventarioListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarInventarioRequest) (*dto.InventarioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	RegistrarMovimiento(ctx context.Context, inventarioID uuid.UUID, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	ListarMovimientos(ctx context.Context, inventarioID uuid.UUID, page, limit int) ([]dto.MovimientoResponse, int64, error)

	BajoStock(ctx context.Context) ([]dto.InventarioResumen, error)
	PorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.InventarioResumen, error)
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
	ReporteProduccion(ctx context.Context, desde, hasta time.Time) (*dto.ReporteProduccionResponse, error)
}

type inventarioService struct {
	repo         repository.InventarioRepository
	movRepo      repository.MovimientoRepository
	egresoRepo   repository.EgresoRepository
	productoRepo repository.ProductoRepository
}

func NewInventarioService(
	repo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	egresoRepo repository.EgresoRepository,
	productoRepo repository.ProductoRepository,
) InventarioService {
	return &inventarioService{
		repo:         repo,
		movRepo:      movRepo,
		egresoRepo:   egresoRepo,
		productoRepo: productoRepo,
	}
}

// CrearLote opens a production lot. The product's package cost is computed
// from current material prices and frozen on the lot; later product edits
// never alter what this production run cost.
func (s *inventarioService) CrearLote(ctx context.Context, req dto.CrearInventarioRequest) (*dto.InventarioResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.NewFieldError("product_id", "id invalido")
	}
	fecha, err := time.Parse("2006-01-02", req.FechaProduccion)
	if err != nil {
		return nil, apierror.NewFieldError("fecha_produccion", "formato esperado YYYY-MM-DD")
	}
	if req.CantidadProducida <= 0 {
		return nil, apierror.NewFieldError("cantidad_producida", "debe ser mayor a cero")
	}

	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("producto")
		}
		return nil, err
	}
	if !p.Activo {
		return nil, apierror.NewFieldError("product_id", "el producto esta inactivo")
	}

	pr, err := costeo.CalcularPrecios(p)
	if err != nil {
		return nil, err
	}
	costoUnitario := pr.CostoPaquete.Round(2)

	inv := &model.Inventario{
		ProductoID:        productoID,
		FechaProduccion:   fecha,
		CantidadProducida: req.CantidadProducida,
		CostoUnitario:     costoUnitario,
		CostoTotal:        costoUnitario.Mul(decimal.NewFromInt(int64(req.CantidadProducida))).Round(2),
		StockActual:       req.CantidadProducida,
		StockMinimo:       req.StockMinimo,
		Ubicacion:         req.Ubicacion,
		Lote:              req.Lote,
		Notas:             req.Notas,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	inv.Producto = p
	return inventarioToResponse(inv), nil
}

func (s *inventarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.InventarioResponse, error) {
	inv, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return inventarioToResponse(inv), nil
}

func (s *inventarioService) Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.InventarioListResponse, error) {
	lotes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventarioResponse, len(lotes))
	for i := range lotes {
		data[i] = *inventarioToResponse(&lotes[i])
	}
	return &dto.InventarioListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar is an administrative edit of lot metadata. Changing
// cantidad_producida rescales the frozen costo_total but never replays the
// journal nor moves stock_actual.
func (s *inventarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarInventarioRequest) (*dto.InventarioResponse, error) {
	inv, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FechaProduccion != nil {
		fecha, err := time.Parse("2006-01-02", *req.FechaProduccion)
		if err != nil {
			return nil, apierror.NewFieldError("fecha_produccion", "formato esperado YYYY-MM-DD")
		}
		inv.FechaProduccion = fecha
	}
	if req.CantidadProducida != nil {
		inv.CantidadProducida = *req.CantidadProducida
		inv.CostoTotal = inv.CostoUnitario.Mul(decimal.NewFromInt(int64(*req.CantidadProducida))).Round(2)
	}
	if req.StockMinimo != nil {
		inv.StockMinimo = req.StockMinimo
	}
	if req.Ubicacion != nil {
		inv.Ubicacion = req.Ubicacion
	}
	if req.Lote != nil {
		inv.Lote = req.Lote
	}
	if req.Notas != nil {
		inv.Notas = req.Notas
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inventarioToResponse(inv), nil
}

// Eliminar soft-deletes a lot, but only when its journals are empty: a lot
// with recorded movements or egresos is part of the audit trail and cannot
// be removed.
func (s *inventarioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	movimientos, err := s.movRepo.CountByInventario(ctx, id)
	if err != nil {
		return err
	}
	egresos, err := s.egresoRepo.CountByInventario(ctx, id)
	if err != nil {
		return err
	}
	if movimientos > 0 || egresos > 0 {
		return apierror.NewConflict("el lote tiene movimientos o egresos registrados y no puede eliminarse")
	}
	return s.repo.SoftDelete(ctx, id)
}

// RegistrarMovimiento appends one journal entry and moves the lot's stock in
// the same transaction, under a per-lot row lock. Cantidad is positive for
// entrada/salida; for ajuste it is a signed delta and the resulting stock may
// not go negative.
func (s *inventarioService) RegistrarMovimiento(ctx context.Context, inventarioID uuid.UUID, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	var mov *model.MovimientoInventario

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.repo.FindByIDForUpdateTx(tx, inventarioID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("inventario")
			}
			return err
		}

		anterior := inv.StockActual
		var posterior int
		switch req.TipoMovimiento {
		case model.MovimientoEntrada:
			if req.Cantidad <= 0 {
				return apierror.NewFieldError("cantidad", "debe ser mayor a cero para una entrada")
			}
			posterior = anterior + req.Cantidad
		case model.MovimientoSalida:
			if req.Cantidad <= 0 {
				return apierror.NewFieldError("cantidad", "debe ser mayor a cero para una salida")
			}
			if req.Cantidad > anterior {
				return apierror.NewInsufficientStock(anterior, req.Cantidad)
			}
			posterior = anterior - req.Cantidad
		case model.MovimientoAjuste:
			if req.Cantidad == 0 {
				return apierror.NewFieldError("cantidad", "un ajuste no puede ser cero")
			}
			posterior = anterior + req.Cantidad
			if posterior < 0 {
				return apierror.NewFieldError("cantidad", "el ajuste dejaria el stock en negativo")
			}
		default:
			return apierror.NewFieldError("tipo_movimiento", "debe ser entrada, salida o ajuste")
		}

		mov = &model.MovimientoInventario{
			InventarioID:       inventarioID,
			TipoMovimiento:     req.TipoMovimiento,
			Cantidad:           req.Cantidad,
			Motivo:             req.Motivo,
			Referencia:         req.Referencia,
			StockAnterior:      anterior,
			StockPosterior:     posterior,
			UsuarioResponsable: req.UsuarioResponsable,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		return s.repo.UpdateStockTx(tx, inventarioID, posterior)
	})
	if err != nil {
		return nil, err
	}
	return movimientoToResponse(mov), nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, inventarioID uuid.UUID, page, limit int) ([]dto.MovimientoResponse, int64, error) {
	if _, err := s.buscar(ctx, inventarioID); err != nil {
		return nil, 0, err
	}
	movimientos, total, err := s.movRepo.ListByInventario(ctx, inventarioID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	data := make([]dto.MovimientoResponse, len(movimientos))
	for i := range movimientos {
		data[i] = *movimientoToResponse(&movimientos[i])
	}
	return data, total, nil
}

func (s *inventarioService) BajoStock(ctx context.Context) ([]dto.InventarioResumen, error) {
	lotes, err := s.repo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	return s.resumir(ctx, lotes)
}

func (s *inventarioService) PorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.InventarioResumen, error) {
	lotes, err := s.repo.ListPorProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	return s.resumir(ctx, lotes)
}

func (s *inventarioService) resumir(ctx context.Context, lotes []model.Inventario) ([]dto.InventarioResumen, error) {
	resumen := make([]dto.InventarioResumen, 0, len(lotes))
	for i := range lotes {
		inv := &lotes[i]
		ultima, err := s.movRepo.UltimaFecha(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		var ultimaStr *string
		if ultima != nil {
			v := fmtTime(*ultima)
			ultimaStr = &v
		}
		nombre := ""
		if inv.Producto != nil {
			nombre = inv.Producto.Nombre
		}
		resumen = append(resumen, dto.InventarioResumen{
			ID:                  inv.ID.String(),
			ProductoID:          inv.ProductoID.String(),
			ProductoNombre:      nombre,
			Lote:                inv.Lote,
			StockActual:         inv.StockActual,
			StockMinimo:         inv.StockMinimo,
			StockStatus:         inv.StockStatus(),
			FechaProduccion:     fmtDate(inv.FechaProduccion),
			CostoUnitario:       inv.CostoUnitario,
			UltimoMovimientoFch: ultimaStr,
		})
	}
	return resumen, nil
}

// Resumen assembles the dashboard. Every figure is recomputed from source
// rows on each call.
func (s *inventarioService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	totalProductos, err := s.productoRepo.CountActivos(ctx)
	if err != nil {
		return nil, err
	}
	valor, err := s.repo.ValorInventario(ctx)
	if err != nil {
		return nil, err
	}
	bajoStock, err := s.repo.CountBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	produccionHoy, err := s.repo.ProduccionHoy(ctx)
	if err != nil {
		return nil, err
	}
	egresosHoy, valorEgresosHoy, err := s.egresoRepo.TotalesHoy(ctx)
	if err != nil {
		return nil, err
	}
	recientes, err := s.movRepo.Recientes(ctx, 10)
	if err != nil {
		return nil, err
	}

	movimientos := make([]dto.MovimientoResponse, len(recientes))
	for i := range recientes {
		movimientos[i] = *movimientoToResponse(&recientes[i])
	}
	return &dto.ResumenResponse{
		TotalProductos:      totalProductos,
		ValorInventario:     valor.Round(2),
		LotesBajoStock:      bajoStock,
		ProduccionHoy:       produccionHoy,
		EgresosHoy:          egresosHoy,
		ValorEgresosHoy:     valorEgresosHoy.Round(2),
		MovimientosReciente: movimientos,
	}, nil
}

// ReporteProduccion lists the lots produced in [desde, hasta] inclusive and
// totals their quantities and frozen costs.
func (s *inventarioService) ReporteProduccion(ctx context.Context, desde, hasta time.Time) (*dto.ReporteProduccionResponse, error) {
	lotes, err := s.repo.ProducidosEntre(ctx, desde, hasta.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	data := make([]dto.InventarioResponse, len(lotes))
	totalProducido := 0
	costoTotal := decimal.Zero
	for i := range lotes {
		data[i] = *inventarioToResponse(&lotes[i])
		totalProducido += lotes[i].CantidadProducida
		costoTotal = costoTotal.Add(lotes[i].CostoTotal)
	}
	return &dto.ReporteProduccionResponse{
		Desde:          fmtDate(desde),
		Hasta:          fmtDate(hasta),
		Lotes:          data,
		TotalProducido: totalProducido,
		CostoTotal:     costoTotal.Round(2),
	}, nil
}

func (s *inventarioService) buscar(ctx context.Context, id uuid.UUID) (*model.Inventario, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("inventario")
		}
		return nil, err
	}
	return inv, nil
}

func inventarioToResponse(inv *model.Inventario) *dto.InventarioResponse {
	nombre := ""
	if inv.Producto != nil {
		nombre = inv.Producto.Nombre
	}
	return &dto.InventarioResponse{
		ID:                inv.ID.String(),
		ProductoID:        inv.ProductoID.String(),
		ProductoNombre:    nombre,
		FechaProduccion:   fmtDate(inv.FechaProduccion),
		CantidadProducida: inv.CantidadProducida,
		CostoUnitario:     inv.CostoUnitario,
		CostoTotal:        inv.CostoTotal,
		StockActual:       inv.StockActual,
		StockMinimo:       inv.StockMinimo,
		StockStatus:       inv.StockStatus(),
		Ubicacion:         inv.Ubicacion,
		Lote:              inv.Lote,
		Notas:             inv.Notas,
		Activo:            inv.Activo,
		CreatedAt:         fmtTime(inv.CreatedAt),
		UpdatedAt:         fmtTime(inv.UpdatedAt),
	}
}

func movimientoToResponse(mov *model.MovimientoInventario) *dto.MovimientoResponse {
	return &dto.MovimientoResponse{
		ID:                 mov.ID.String(),
		InventarioID:       mov.InventarioID.String(),
		TipoMovimiento:     mov.TipoMovimiento,
		Cantidad:           mov.Cantidad,
		Motivo:             mov.Motivo,
		Referencia:         mov.Referencia,
		StockAnterior:      mov.StockAnterior,
		StockPosterior:     mov.StockPosterior,
		UsuarioResponsable: mov.UsuarioResponsable,
		CreatedAt:          fmtTime(mov.CreatedAt),
	}
}
