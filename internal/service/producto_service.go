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

// ivaDefault applies when a product is created without an explicit IVA rate.
// The default lives at this boundary, never inside the costing engine.
var ivaDefault = decimal.NewFromInt(21)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Duplicar(ctx context.Context, id uuid.UUID, req dto.DuplicarProductoRequest) (*dto.ProductoResponse, error)
	Calculadora(ctx context.Context, id uuid.UUID, q dto.CalculadoraQuery) (*dto.CalculadoraResponse, error)
	ConsultaPrecios(ctx context.Context, id uuid.UUID) (*dto.ConsultaPreciosResponse, error)
	CostosTotales(ctx context.Context) (*dto.CostosTotalesResponse, error)
}

type productoService struct {
	repo         repository.ProductoRepository
	materialRepo repository.MaterialRepository
	cache        *PrecioCache
}

func NewProductoService(repo repository.ProductoRepository, materialRepo repository.MaterialRepository, cache *PrecioCache) ProductoService {
	return &productoService{repo: repo, materialRepo: materialRepo, cache: cache}
}

// resolverMateriales validates and resolves recipe lines: every material_id
// must parse, be unique within the recipe, exist and be active.
func (s *productoService) resolverMateriales(ctx context.Context, lineas []dto.ProductoMaterialRequest) ([]model.ProductoMaterial, error) {
	vistos := make(map[uuid.UUID]bool, len(lineas))
	resultado := make([]model.ProductoMaterial, 0, len(lineas))
	for _, l := range lineas {
		mid, err := uuid.Parse(l.MaterialID)
		if err != nil {
			return nil, apierror.NewFieldError("material_id", "id invalido: "+l.MaterialID)
		}
		if vistos[mid] {
			return nil, apierror.NewFieldError("material_id", "material duplicado: "+l.MaterialID)
		}
		vistos[mid] = true

		m, err := s.materialRepo.FindByID(ctx, mid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NewFieldError("material_id", "material desconocido: "+l.MaterialID)
			}
			return nil, err
		}
		if !m.Activo {
			return nil, apierror.NewFieldError("material_id", "material inactivo: "+m.Nombre)
		}
		resultado = append(resultado, model.ProductoMaterial{
			MaterialID: mid,
			Cantidad:   l.Cantidad,
			Material:   m,
		})
	}
	return resultado, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	existe, err := s.repo.ExisteNombre(ctx, req.Nombre, nil)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.NewConflict("ya existe un producto activo con ese nombre")
	}

	lineas, err := s.resolverMateriales(ctx, req.ProductMaterials)
	if err != nil {
		return nil, err
	}

	iva := ivaDefault
	if req.IVAPercentage != nil {
		iva = *req.IVAPercentage
	}

	p := &model.Producto{
		Nombre: req.Nombre,

		CostoEtiqueta:   req.CostoEtiqueta,
		CostoEnvase:     req.CostoEnvase,
		CostoCaja:       req.CostoCaja,
		CostoTransporte: *req.CostoTransporte,

		CostoManoObra:      req.CostoManoObra,
		CostoEnergia:       req.CostoEnergia,
		CostoDepreciacion:  req.CostoDepreciacion,
		CostoMantenimiento: req.CostoMantenimiento,

		CostoAdministrativo:   req.CostoAdministrativo,
		CostoComercializacion: req.CostoComercializacion,
		CostoFinanciero:       req.CostoFinanciero,

		MargenPublico:      req.MargenPublico,
		MargenMayorista:    req.MargenMayorista,
		MargenDistribuidor: req.MargenDistribuidor,
		IVAPercentage:      iva,

		PesoIngredientesBase: req.PesoIngredientesBase,
		PesoEmpaque:          req.PesoEmpaque,

		Activo:     true,
		Materiales: lineas,
	}

	// Reject unpriceable configurations before persisting anything.
	if _, err := costeo.CalcularPrecios(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.responder(ctx, p)
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.responder(ctx, p)
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		resp, err := s.responder(ctx, &productos[i])
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil && *req.Nombre != p.Nombre {
		existe, err := s.repo.ExisteNombre(ctx, *req.Nombre, &id)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, apierror.NewConflict("ya existe un producto activo con ese nombre")
		}
		p.Nombre = *req.Nombre
	}

	aplicar := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	aplicar(&p.CostoEtiqueta, req.CostoEtiqueta)
	aplicar(&p.CostoEnvase, req.CostoEnvase)
	aplicar(&p.CostoCaja, req.CostoCaja)
	aplicar(&p.CostoTransporte, req.CostoTransporte)
	aplicar(&p.CostoManoObra, req.CostoManoObra)
	aplicar(&p.CostoEnergia, req.CostoEnergia)
	aplicar(&p.CostoDepreciacion, req.CostoDepreciacion)
	aplicar(&p.CostoMantenimiento, req.CostoMantenimiento)
	aplicar(&p.CostoAdministrativo, req.CostoAdministrativo)
	aplicar(&p.CostoComercializacion, req.CostoComercializacion)
	aplicar(&p.CostoFinanciero, req.CostoFinanciero)
	aplicar(&p.MargenPublico, req.MargenPublico)
	aplicar(&p.MargenMayorista, req.MargenMayorista)
	aplicar(&p.MargenDistribuidor, req.MargenDistribuidor)
	aplicar(&p.IVAPercentage, req.IVAPercentage)

	if req.PesoIngredientesBase != nil {
		p.PesoIngredientesBase = req.PesoIngredientesBase
	}
	if req.PesoEmpaque != nil {
		p.PesoEmpaque = req.PesoEmpaque
	}

	var lineas []model.ProductoMaterial
	if req.ProductMaterials != nil {
		lineas, err = s.resolverMateriales(ctx, req.ProductMaterials)
		if err != nil {
			return nil, err
		}
		p.Materiales = lineas
	}

	if _, err := costeo.CalcularPrecios(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if lineas != nil {
		if err := s.repo.ReplaceMateriales(ctx, id, lineas); err != nil {
			return nil, err
		}
	}

	s.cache.Invalidar(ctx, id)

	// Re-read so recipe lines carry fresh ids and preloaded materials.
	p, err = s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.responder(ctx, p)
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.buscar(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidar(ctx, id)
	return nil
}

// Duplicar clones a product (recipe included) under a new name, optionally
// with a different package weight. Costs and margins carry over; lots and
// journals do not.
func (s *productoService) Duplicar(ctx context.Context, id uuid.UUID, req dto.DuplicarProductoRequest) (*dto.ProductoResponse, error) {
	origen, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	existe, err := s.repo.ExisteNombre(ctx, req.Nombre, nil)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.NewConflict("ya existe un producto activo con ese nombre")
	}

	copia := *origen
	copia.ID = uuid.Nil
	copia.Nombre = req.Nombre
	copia.Activo = true
	if req.PesoEmpaque != nil {
		copia.PesoEmpaque = req.PesoEmpaque
	}

	copia.Materiales = make([]model.ProductoMaterial, len(origen.Materiales))
	for i, l := range origen.Materiales {
		copia.Materiales[i] = model.ProductoMaterial{
			MaterialID: l.MaterialID,
			Cantidad:   l.Cantidad,
			Material:   l.Material,
		}
	}

	if err := s.repo.Create(ctx, &copia); err != nil {
		return nil, err
	}
	return s.responder(ctx, &copia)
}

func (s *productoService) Calculadora(ctx context.Context, id uuid.UUID, q dto.CalculadoraQuery) (*dto.CalculadoraResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := costeo.CalcularPorUnidad(p, q.Quantity, q.Unit)
	if err != nil {
		return nil, err
	}
	return &dto.CalculadoraResponse{
		ProductID: p.ID.String(),
		Quantity:  r.Cantidad,
		Unit:      r.Unidad,

		CostPerGramAdjusted: r.CostoPorGramoAjustado,
		TotalCost:           r.CostoTotal.Round(2),

		PrecioPublico:      r.Publico.Precio.Round(2),
		PrecioMayorista:    r.Mayorista.Precio.Round(2),
		PrecioDistribuidor: r.Distribuidor.Precio.Round(2),

		IVAPublico:      r.Publico.IVA.Round(2),
		IVAMayorista:    r.Mayorista.IVA.Round(2),
		IVADistribuidor: r.Distribuidor.IVA.Round(2),

		PrecioPublicoConIVA:      r.Publico.PrecioConIVA.Round(2),
		PrecioMayoristaConIVA:    r.Mayorista.PrecioConIVA.Round(2),
		PrecioDistribuidorConIVA: r.Distribuidor.PrecioConIVA.Round(2),
	}, nil
}

// ConsultaPrecios is the only cached read in the system. On a miss it
// recomputes from rows and stores the result with a TTL; every product or
// material write invalidates the affected keys.
func (s *productoService) ConsultaPrecios(ctx context.Context, id uuid.UUID) (*dto.ConsultaPreciosResponse, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	pr, err := costeo.CalcularPrecios(p)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsultaPreciosResponse{
		ProductID:                p.ID.String(),
		Nombre:                   p.Nombre,
		PrecioPublicoConIVA:      pr.Publico.PrecioConIVA.Round(2),
		PrecioMayoristaConIVA:    pr.Mayorista.PrecioConIVA.Round(2),
		PrecioDistribuidorConIVA: pr.Distribuidor.PrecioConIVA.Round(2),
	}
	s.cache.Set(ctx, id, resp)
	return resp, nil
}

func (s *productoService) CostosTotales(ctx context.Context) (*dto.CostosTotalesResponse, error) {
	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}

	resumen := make([]dto.ProductoResumenCosto, 0, len(productos))
	general := decimal.Zero
	for i := range productos {
		p := &productos[i]
		total, err := costeo.CostoTotal(p)
		if err != nil {
			return nil, err
		}
		general = general.Add(total)
		resumen = append(resumen, dto.ProductoResumenCosto{
			ID:              p.ID.String(),
			Nombre:          p.Nombre,
			CostoTotal:      total.Round(2),
			MaterialesCount: len(p.Materiales),
		})
	}
	return &dto.CostosTotalesResponse{
		Productos:         resumen,
		CostoTotalGeneral: general.Round(2),
		TotalProductos:    len(resumen),
	}, nil
}

func (s *productoService) buscar(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("producto")
		}
		return nil, err
	}
	return p, nil
}

func (s *productoService) responder(ctx context.Context, p *model.Producto) (*dto.ProductoResponse, error) {
	pr, err := costeo.CalcularPrecios(p)
	if err != nil {
		return nil, err
	}
	porGramo, err := costeo.CostoPorGramo(p)
	if err != nil {
		return nil, err
	}

	lineas := make([]dto.ProductoMaterialResponse, 0, len(p.Materiales))
	for _, pm := range p.Materiales {
		costo, err := costeo.CostoLineaMaterial(pm.Material, pm.Cantidad)
		if err != nil {
			return nil, err
		}
		var mat *dto.MaterialResponse
		if pm.Material != nil {
			mat = materialToResponse(pm.Material)
		}
		lineas = append(lineas, dto.ProductoMaterialResponse{
			ID:         pm.ID.String(),
			MaterialID: pm.MaterialID.String(),
			Cantidad:   pm.Cantidad,
			Costo:      costo.Round(2),
			Material:   mat,
		})
	}

	return &dto.ProductoResponse{
		ID:     p.ID.String(),
		Nombre: p.Nombre,

		ProductMaterials: lineas,

		CostoEtiqueta:         p.CostoEtiqueta,
		CostoEnvase:           p.CostoEnvase,
		CostoCaja:             p.CostoCaja,
		CostoTransporte:       p.CostoTransporte,
		CostoManoObra:         p.CostoManoObra,
		CostoEnergia:          p.CostoEnergia,
		CostoDepreciacion:     p.CostoDepreciacion,
		CostoMantenimiento:    p.CostoMantenimiento,
		CostoAdministrativo:   p.CostoAdministrativo,
		CostoComercializacion: p.CostoComercializacion,
		CostoFinanciero:       p.CostoFinanciero,

		MargenPublico:      p.MargenPublico,
		MargenMayorista:    p.MargenMayorista,
		MargenDistribuidor: p.MargenDistribuidor,
		IVAPercentage:      p.IVAPercentage,

		CostoMateriales: pr.CostoMateriales.Round(2),
		CostoPaquete:    pr.CostoPaquete.Round(2),
		CostoPorGramo:   porGramo,

		PrecioPublico:      pr.Publico.Precio.Round(2),
		PrecioMayorista:    pr.Mayorista.Precio.Round(2),
		PrecioDistribuidor: pr.Distribuidor.Precio.Round(2),

		IVAPublico:      pr.Publico.IVA.Round(2),
		IVAMayorista:    pr.Mayorista.IVA.Round(2),
		IVADistribuidor: pr.Distribuidor.IVA.Round(2),

		PrecioPublicoConIVA:      pr.Publico.PrecioConIVA.Round(2),
		PrecioMayoristaConIVA:    pr.Mayorista.PrecioConIVA.Round(2),
		PrecioDistribuidorConIVA: pr.Distribuidor.PrecioConIVA.Round(2),

		PesoIngredientesBase: p.PesoIngredientesBase,
		PesoEmpaque:          p.PesoEmpaque,

		Activo:    p.Activo,
		CreatedAt: fmtTime(p.CreatedAt),
		UpdatedAt: fmtTime(p.UpdatedAt),
	}, nil
}
