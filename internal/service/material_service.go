package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"
	"github.com/MiguelAngelEc/preciosSoley/internal/costeo"
	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
	"github.com/MiguelAngelEc/preciosSoley/internal/repository"
)

type MaterialService interface {
	Crear(ctx context.Context, req dto.CrearMaterialRequest) (*dto.MaterialResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error)
	Listar(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMaterialRequest) (*dto.MaterialResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	CalcularCosto(ctx context.Context, id uuid.UUID, req dto.CostoMaterialRequest) (*dto.CostoMaterialResponse, error)
}

type materialService struct {
	repo  repository.MaterialRepository
	cache *PrecioCache
}

func NewMaterialService(repo repository.MaterialRepository, cache *PrecioCache) MaterialService {
	return &materialService{repo: repo, cache: cache}
}

func (s *materialService) Crear(ctx context.Context, req dto.CrearMaterialRequest) (*dto.MaterialResponse, error) {
	unitario, err := costeo.PrecioUnidadPequena(req.PrecioBase)
	if err != nil {
		return nil, err
	}
	m := &model.Material{
		Nombre:              req.Nombre,
		PrecioBase:          req.PrecioBase,
		UnidadBase:          req.UnidadBase,
		PrecioUnidadPequena: unitario,
		Activo:              true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *materialService) Obtener(ctx context.Context, id uuid.UUID) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("material")
		}
		return nil, err
	}
	return materialToResponse(m), nil
}

func (s *materialService) Listar(ctx context.Context, filter dto.MaterialFilter) (*dto.MaterialListResponse, error) {
	materiales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MaterialResponse, len(materiales))
	for i := range materiales {
		data[i] = *materialToResponse(&materiales[i])
	}
	return &dto.MaterialListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar edits a material. A precio_base change rederives the per-gram
// price and drops the cached price consultations of every product whose
// recipe uses this material — their derived prices changed with it.
func (s *materialService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("material")
		}
		return nil, err
	}

	precioCambio := false
	if req.Nombre != nil {
		m.Nombre = *req.Nombre
	}
	if req.UnidadBase != nil {
		m.UnidadBase = *req.UnidadBase
	}
	if req.PrecioBase != nil && !req.PrecioBase.Equal(m.PrecioBase) {
		unitario, err := costeo.PrecioUnidadPequena(*req.PrecioBase)
		if err != nil {
			return nil, err
		}
		m.PrecioBase = *req.PrecioBase
		m.PrecioUnidadPequena = unitario
		precioCambio = true
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	if precioCambio {
		if ids, err := s.repo.ProductosQueUsan(ctx, id); err == nil {
			s.cache.Invalidar(ctx, ids...)
		}
	}
	return materialToResponse(m), nil
}

func (s *materialService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("material")
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *materialService) CalcularCosto(ctx context.Context, id uuid.UUID, req dto.CostoMaterialRequest) (*dto.CostoMaterialResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("material")
		}
		return nil, err
	}
	costo, err := costeo.CostoLineaMaterial(m, req.Cantidad)
	if err != nil {
		return nil, err
	}
	return &dto.CostoMaterialResponse{
		MaterialID: m.ID.String(),
		Nombre:     m.Nombre,
		Cantidad:   req.Cantidad,
		Costo:      costo.Round(2),
	}, nil
}

func materialToResponse(m *model.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:                  m.ID.String(),
		Nombre:              m.Nombre,
		PrecioBase:          m.PrecioBase,
		UnidadBase:          m.UnidadBase,
		PrecioUnidadPequena: m.PrecioUnidadPequena,
		Activo:              m.Activo,
		CreatedAt:           fmtTime(m.CreatedAt),
		UpdatedAt:           fmtTime(m.UpdatedAt),
	}
}
