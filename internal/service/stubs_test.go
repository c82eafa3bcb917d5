package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"
)

// ── In-memory repository stubs ───────────────────────────────────────────────
// DB() returns nil so runTx runs the transactional closures directly.

type stubMaterialRepo struct {
	materiales map[uuid.UUID]*model.Material
	usos       map[uuid.UUID][]uuid.UUID // material -> productos que lo usan
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{
		materiales: make(map[uuid.UUID]*model.Material),
		usos:       make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.materiales[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materiales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) List(_ context.Context, _ dto.MaterialFilter) ([]model.Material, int64, error) {
	var result []model.Material
	for _, m := range r.materiales {
		if m.Activo {
			result = append(result, *m)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubMaterialRepo) Update(_ context.Context, m *model.Material) error {
	r.materiales[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	m, ok := r.materiales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Activo = false
	return nil
}

func (r *stubMaterialRepo) ProductosQueUsan(_ context.Context, materialID uuid.UUID) ([]uuid.UUID, error) {
	return r.usos[materialID], nil
}

func (r *stubMaterialRepo) DB() *gorm.DB { return nil }

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	result, err := r.ListActivos(context.Background())
	return result, int64(len(result)), err
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) ReplaceMateriales(_ context.Context, productoID uuid.UUID, lineas []model.ProductoMaterial) error {
	p, ok := r.productos[productoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range lineas {
		if lineas[i].ID == uuid.Nil {
			lineas[i].ID = uuid.New()
		}
		lineas[i].ProductoID = productoID
	}
	p.Materiales = lineas
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) ExisteNombre(_ context.Context, nombre string, excluir *uuid.UUID) (bool, error) {
	for _, p := range r.productos {
		if excluir != nil && p.ID == *excluir {
			continue
		}
		if p.Activo && p.Nombre == nombre {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) CountActivos(_ context.Context) (int64, error) {
	var total int64
	for _, p := range r.productos {
		if p.Activo {
			total++
		}
	}
	return total, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

type stubInventarioRepo struct {
	lotes map[uuid.UUID]*model.Inventario
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{lotes: make(map[uuid.UUID]*model.Inventario)}
}

func (r *stubInventarioRepo) Create(_ context.Context, inv *model.Inventario) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.lotes[inv.ID] = inv
	return nil
}

func (r *stubInventarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Inventario, error) {
	inv, ok := r.lotes[id]
	if !ok || !inv.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInventarioRepo) List(_ context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var result []model.Inventario
	for _, inv := range r.lotes {
		if !inv.Activo {
			continue
		}
		if filter.StockStatus != "" && inv.StockStatus() != filter.StockStatus {
			continue
		}
		result = append(result, *inv)
	}
	return result, int64(len(result)), nil
}

func (r *stubInventarioRepo) ListPorProducto(_ context.Context, productoID uuid.UUID) ([]model.Inventario, error) {
	var result []model.Inventario
	for _, inv := range r.lotes {
		if inv.Activo && inv.ProductoID == productoID {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (r *stubInventarioRepo) ListBajoStock(_ context.Context) ([]model.Inventario, error) {
	var result []model.Inventario
	for _, inv := range r.lotes {
		if inv.Activo && inv.StockStatus() == model.StockLow {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (r *stubInventarioRepo) ProducidosEntre(_ context.Context, desde, hasta time.Time) ([]model.Inventario, error) {
	var result []model.Inventario
	for _, inv := range r.lotes {
		if inv.Activo && !inv.FechaProduccion.Before(desde) && inv.FechaProduccion.Before(hasta) {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (r *stubInventarioRepo) Update(_ context.Context, inv *model.Inventario) error {
	r.lotes[inv.ID] = inv
	return nil
}

func (r *stubInventarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	inv, ok := r.lotes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.Activo = false
	return nil
}

func (r *stubInventarioRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Inventario, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubInventarioRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, nuevoStock int) error {
	inv, ok := r.lotes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	inv.StockActual = nuevoStock
	return nil
}

func (r *stubInventarioRepo) TotalLotes(_ context.Context) (int64, error) {
	var total int64
	for _, inv := range r.lotes {
		if inv.Activo {
			total++
		}
	}
	return total, nil
}

func (r *stubInventarioRepo) ValorInventario(_ context.Context) (decimal.Decimal, error) {
	valor := decimal.Zero
	for _, inv := range r.lotes {
		if inv.Activo {
			valor = valor.Add(inv.CostoUnitario.Mul(decimal.NewFromInt(int64(inv.StockActual))))
		}
	}
	return valor, nil
}

func (r *stubInventarioRepo) CountBajoStock(_ context.Context) (int64, error) {
	var total int64
	for _, inv := range r.lotes {
		if inv.Activo && inv.StockStatus() == model.StockLow {
			total++
		}
	}
	return total, nil
}

func (r *stubInventarioRepo) ProduccionHoy(_ context.Context) (int64, error) {
	hoy := time.Now().Format("2006-01-02")
	var total int64
	for _, inv := range r.lotes {
		if inv.Activo && inv.FechaProduccion.Format("2006-01-02") == hoy {
			total += int64(inv.CantidadProducida)
		}
	}
	return total, nil
}

func (r *stubInventarioRepo) DB() *gorm.DB { return nil }

type stubMovimientoRepo struct {
	movimientos []*model.MovimientoInventario
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, mov *model.MovimientoInventario) error {
	if mov.ID == uuid.Nil {
		mov.ID = uuid.New()
	}
	mov.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, mov)
	return nil
}

func (r *stubMovimientoRepo) ListByInventario(_ context.Context, inventarioID uuid.UUID, _, _ int) ([]model.MovimientoInventario, int64, error) {
	var result []model.MovimientoInventario
	for _, mov := range r.movimientos {
		if mov.InventarioID == inventarioID {
			result = append(result, *mov)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubMovimientoRepo) Recientes(_ context.Context, limit int) ([]model.MovimientoInventario, error) {
	var result []model.MovimientoInventario
	for i := len(r.movimientos) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *r.movimientos[i])
	}
	return result, nil
}

func (r *stubMovimientoRepo) UltimaFecha(_ context.Context, inventarioID uuid.UUID) (*time.Time, error) {
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if r.movimientos[i].InventarioID == inventarioID {
			return &r.movimientos[i].CreatedAt, nil
		}
	}
	return nil, nil
}

func (r *stubMovimientoRepo) CountByInventario(_ context.Context, inventarioID uuid.UUID) (int64, error) {
	var total int64
	for _, mov := range r.movimientos {
		if mov.InventarioID == inventarioID {
			total++
		}
	}
	return total, nil
}

type stubEgresoRepo struct {
	egresos         map[uuid.UUID]*model.Egreso
	lecturasConLock int
}

func newStubEgresoRepo() *stubEgresoRepo {
	return &stubEgresoRepo{egresos: make(map[uuid.UUID]*model.Egreso)}
}

func (r *stubEgresoRepo) CreateTx(_ *gorm.DB, e *model.Egreso) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.egresos[e.ID] = e
	return nil
}

func (r *stubEgresoRepo) UpdateTx(_ *gorm.DB, e *model.Egreso) error {
	if _, ok := r.egresos[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	e.UpdatedAt = time.Now()
	r.egresos[e.ID] = e
	return nil
}

func (r *stubEgresoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.egresos, id)
	return nil
}

func (r *stubEgresoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Egreso, error) {
	e, ok := r.egresos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEgresoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Egreso, error) {
	r.lecturasConLock++
	return r.FindByID(context.Background(), id)
}

func (r *stubEgresoRepo) ListByInventario(_ context.Context, inventarioID uuid.UUID, _, _ int) ([]model.Egreso, int64, error) {
	var result []model.Egreso
	for _, e := range r.egresos {
		if e.InventarioID == inventarioID {
			result = append(result, *e)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubEgresoRepo) Report(_ context.Context, filter dto.EgresoReportFilter) ([]model.Egreso, error) {
	var result []model.Egreso
	for _, e := range r.egresos {
		if filter.TipoCliente != "" && e.TipoCliente != filter.TipoCliente {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *stubEgresoRepo) TotalesHoy(_ context.Context) (int64, decimal.Decimal, error) {
	hoy := time.Now().Format("2006-01-02")
	var cantidad int64
	valor := decimal.Zero
	for _, e := range r.egresos {
		if e.FechaEgreso.Format("2006-01-02") == hoy {
			cantidad += int64(e.Cantidad)
			valor = valor.Add(e.ValorTotal)
		}
	}
	return cantidad, valor, nil
}

func (r *stubEgresoRepo) CountByInventario(_ context.Context, inventarioID uuid.UUID) (int64, error) {
	var total int64
	for _, e := range r.egresos {
		if e.InventarioID == inventarioID {
			total++
		}
	}
	return total, nil
}

func (r *stubEgresoRepo) DB() *gorm.DB { return nil }
