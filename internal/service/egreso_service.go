package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/costeo"
	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
	"github.com/MiguelAngelEc/preciosSoley/internal/repository"
)

type EgresoService interface {
	Registrar(ctx context.Context, req dto.RegistrarEgresoRequest) (*dto.EgresoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EgresoResponse, error)
	ListarPorInventario(ctx context.Context, inventarioID uuid.UUID, page, limit int) (*dto.EgresoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEgresoRequest) (*dto.EgresoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Reporte(ctx context.Context, filter dto.EgresoReportFilter) (*dto.EgresoReportResponse, error)
}

type egresoService struct {
	repo           repository.EgresoRepository
	inventarioRepo repository.InventarioRepository
	movRepo        repository.MovimientoRepository
	productoRepo   repository.ProductoRepository
}

func NewEgresoService(
	repo repository.EgresoRepository,
	inventarioRepo repository.InventarioRepository,
	movRepo repository.MovimientoRepository,
	productoRepo repository.ProductoRepository,
) EgresoService {
	return &egresoService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		movRepo:        movRepo,
		productoRepo:   productoRepo,
	}
}

// Registrar records a sale against a lot. The tier price (tax included) is
// computed from current material prices and frozen on the egreso; the stock
// deduction and its journal entry commit in the same transaction.
func (s *egresoService) Registrar(ctx context.Context, req dto.RegistrarEgresoRequest) (*dto.EgresoResponse, error) {
	inventarioID, err := uuid.Parse(req.InventarioID)
	if err != nil {
		return nil, apierror.NewFieldError("inventory_id", "id invalido")
	}
	if req.Cantidad <= 0 {
		return nil, apierror.NewFieldError("cantidad", "debe ser mayor a cero")
	}

	var egreso *model.Egreso
	var nombreProducto string

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		inv, err := s.inventarioRepo.FindByIDForUpdateTx(tx, inventarioID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("inventario")
			}
			return err
		}
		if req.Cantidad > inv.StockActual {
			return apierror.NewInsufficientStock(inv.StockActual, req.Cantidad)
		}

		p, err := s.productoRepo.FindByID(ctx, inv.ProductoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("producto")
			}
			return err
		}
		nombreProducto = p.Nombre

		pr, err := costeo.CalcularPrecios(p)
		if err != nil {
			return err
		}
		precio, err := costeo.PrecioParaCliente(pr, req.TipoCliente)
		if err != nil {
			return err
		}
		precio = precio.Round(2)

		egreso = &model.Egreso{
			InventarioID:       inventarioID,
			ProductoID:         inv.ProductoID,
			TipoCliente:        req.TipoCliente,
			Cantidad:           req.Cantidad,
			PrecioUnitario:     precio,
			ValorTotal:         precio.Mul(decimal.NewFromInt(int64(req.Cantidad))).Round(2),
			FechaEgreso:        ahora(),
			Motivo:             req.Motivo,
			Referencia:         req.Referencia,
			UsuarioResponsable: req.UsuarioResponsable,
		}
		if err := s.repo.CreateTx(tx, egreso); err != nil {
			return err
		}

		ref := egreso.ID.String()
		mov := &model.MovimientoInventario{
			InventarioID:       inventarioID,
			TipoMovimiento:     model.MovimientoSalida,
			Cantidad:           req.Cantidad,
			Motivo:             "egreso " + req.TipoCliente,
			Referencia:         &ref,
			StockAnterior:      inv.StockActual,
			StockPosterior:     inv.StockActual - req.Cantidad,
			UsuarioResponsable: req.UsuarioResponsable,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		return s.inventarioRepo.UpdateStockTx(tx, inventarioID, mov.StockPosterior)
	})
	if err != nil {
		return nil, err
	}
	return egresoToResponse(egreso, nombreProducto), nil
}

func (s *egresoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EgresoResponse, error) {
	e, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return egresoToResponse(e, nombreDe(e)), nil
}

func (s *egresoService) ListarPorInventario(ctx context.Context, inventarioID uuid.UUID, page, limit int) (*dto.EgresoListResponse, error) {
	egresos, total, err := s.repo.ListByInventario(ctx, inventarioID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.EgresoResponse, len(egresos))
	for i := range egresos {
		data[i] = *egresoToResponse(&egresos[i], nombreDe(&egresos[i]))
	}
	return &dto.EgresoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// Actualizar edits a sale. A cantidad change reverses the old stock effect and
// applies the new one, journaled as an ajuste; the original price snapshot is
// kept. A tipo_cliente change re-snapshots the price at that tier's current
// value. valor_total is rederived either way.
func (s *egresoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEgresoRequest) (*dto.EgresoResponse, error) {
	var actualizado *model.Egreso
	var nombreProducto string

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Locked re-read: the delta math below must start from the committed
		// cantidad, not from a row read outside the transaction.
		e, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("egreso")
			}
			return err
		}

		p, err := s.productoRepo.FindByID(ctx, e.ProductoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("producto")
			}
			return err
		}
		nombreProducto = p.Nombre

		usuario := e.UsuarioResponsable
		if req.UsuarioResponsable != nil {
			usuario = *req.UsuarioResponsable
			e.UsuarioResponsable = usuario
		}
		if req.Motivo != nil {
			e.Motivo = req.Motivo
		}
		if req.Referencia != nil {
			e.Referencia = req.Referencia
		}

		if req.TipoCliente != nil && *req.TipoCliente != e.TipoCliente {
			pr, err := costeo.CalcularPrecios(p)
			if err != nil {
				return err
			}
			precio, err := costeo.PrecioParaCliente(pr, *req.TipoCliente)
			if err != nil {
				return err
			}
			e.TipoCliente = *req.TipoCliente
			e.PrecioUnitario = precio.Round(2)
		}

		if req.Cantidad != nil && *req.Cantidad != e.Cantidad {
			inv, err := s.inventarioRepo.FindByIDForUpdateTx(tx, e.InventarioID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NewNotFound("inventario")
				}
				return err
			}

			// The old cantidad returns to stock before the new one leaves it.
			disponible := inv.StockActual + e.Cantidad
			if *req.Cantidad > disponible {
				return apierror.NewInsufficientStock(disponible, *req.Cantidad)
			}
			delta := e.Cantidad - *req.Cantidad
			posterior := inv.StockActual + delta

			ref := e.ID.String()
			mov := &model.MovimientoInventario{
				InventarioID:       e.InventarioID,
				TipoMovimiento:     model.MovimientoAjuste,
				Cantidad:           delta,
				Motivo:             "correccion de egreso",
				Referencia:         &ref,
				StockAnterior:      inv.StockActual,
				StockPosterior:     posterior,
				UsuarioResponsable: usuario,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
			if err := s.inventarioRepo.UpdateStockTx(tx, e.InventarioID, posterior); err != nil {
				return err
			}
			e.Cantidad = *req.Cantidad
		}

		e.ValorTotal = e.PrecioUnitario.Mul(decimal.NewFromInt(int64(e.Cantidad))).Round(2)

		if err := s.repo.UpdateTx(tx, e); err != nil {
			return err
		}
		actualizado = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return egresoToResponse(actualizado, nombreProducto), nil
}

// Eliminar voids a sale: the sold quantity returns to the lot's stock with a
// journaled entrada, then the egreso row is removed.
func (s *egresoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Same locked re-read as Actualizar: the restitution amount comes
		// from the committed row.
		e, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("egreso")
			}
			return err
		}
		inv, err := s.inventarioRepo.FindByIDForUpdateTx(tx, e.InventarioID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewNotFound("inventario")
			}
			return err
		}

		posterior := inv.StockActual + e.Cantidad
		ref := e.ID.String()
		mov := &model.MovimientoInventario{
			InventarioID:       e.InventarioID,
			TipoMovimiento:     model.MovimientoEntrada,
			Cantidad:           e.Cantidad,
			Motivo:             "anulacion de egreso",
			Referencia:         &ref,
			StockAnterior:      inv.StockActual,
			StockPosterior:     posterior,
			UsuarioResponsable: e.UsuarioResponsable,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		if err := s.inventarioRepo.UpdateStockTx(tx, e.InventarioID, posterior); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, e.ID)
	})
}

func (s *egresoService) Reporte(ctx context.Context, filter dto.EgresoReportFilter) (*dto.EgresoReportResponse, error) {
	egresos, err := s.repo.Report(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.EgresoResponse, len(egresos))
	totalCantidad := 0
	valorTotal := decimal.Zero
	for i := range egresos {
		data[i] = *egresoToResponse(&egresos[i], nombreDe(&egresos[i]))
		totalCantidad += egresos[i].Cantidad
		valorTotal = valorTotal.Add(egresos[i].ValorTotal)
	}
	return &dto.EgresoReportResponse{
		Egresos:       data,
		TotalCantidad: totalCantidad,
		ValorTotal:    valorTotal.Round(2),
	}, nil
}

func (s *egresoService) buscar(ctx context.Context, id uuid.UUID) (*model.Egreso, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("egreso")
		}
		return nil, err
	}
	return e, nil
}

func nombreDe(e *model.Egreso) string {
	if e.Producto != nil {
		return e.Producto.Nombre
	}
	return ""
}

func egresoToResponse(e *model.Egreso, nombreProducto string) *dto.EgresoResponse {
	return &dto.EgresoResponse{
		ID:                 e.ID.String(),
		InventarioID:       e.InventarioID.String(),
		ProductoID:         e.ProductoID.String(),
		ProductoNombre:     nombreProducto,
		TipoCliente:        e.TipoCliente,
		Cantidad:           e.Cantidad,
		PrecioUnitario:     e.PrecioUnitario,
		ValorTotal:         e.ValorTotal,
		FechaEgreso:        fmtTime(e.FechaEgreso),
		Motivo:             e.Motivo,
		Referencia:         e.Referencia,
		UsuarioResponsable: e.UsuarioResponsable,
		CreatedAt:          fmtTime(e.CreatedAt),
		UpdatedAt:          fmtTime(e.UpdatedAt),
	}
}
