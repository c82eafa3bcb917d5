package repository

import (
	"context"
	"time"

	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventarioRepository defines the data access contract for production lots.
// Stock mutations go through the *Tx methods inside a service-opened
// transaction; FindByIDForUpdateTx takes the per-lot row lock that serializes
// concurrent read-modify-write cycles.
type InventarioRepository interface {
	Create(ctx context.Context, inv *model.Inventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inventario, error)
	List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error)
	ListPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.Inventario, error)
	ListBajoStock(ctx context.Context) ([]model.Inventario, error)
	ProducidosEntre(ctx context.Context, desde, hasta time.Time) ([]model.Inventario, error)
	Update(ctx context.Context, inv *model.Inventario) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Inventario, error)
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, nuevoStock int) error

	// Dashboard aggregations — computed from source rows at request time.
	TotalLotes(ctx context.Context) (int64, error)
	ValorInventario(ctx context.Context) (decimal.Decimal, error)
	CountBajoStock(ctx context.Context) (int64, error)
	ProduccionHoy(ctx context.Context) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) Create(ctx context.Context, inv *model.Inventario) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *inventarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		First(&inv, "id = ? AND activo = true", id).Error
	return &inv, err
}

func (r *inventarioRepo) List(ctx context.Context, filter dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var lotes []model.Inventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Inventario{}).Where("activo = true")

	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Lote != "" {
		q = q.Where("lote ILIKE ?", "%"+filter.Lote+"%")
	}
	switch filter.StockStatus {
	case model.StockLow:
		q = q.Where("stock_minimo IS NOT NULL AND stock_actual < stock_minimo")
	case model.StockOK:
		q = q.Where("stock_minimo IS NULL OR stock_actual >= stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Producto").
		Order("fecha_produccion DESC").Limit(filter.Limit).Offset(offset).Find(&lotes).Error
	return lotes, total, err
}

func (r *inventarioRepo) ListPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.Inventario, error) {
	var lotes []model.Inventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("producto_id = ? AND activo = true", productoID).
		Order("fecha_produccion DESC").Find(&lotes).Error
	return lotes, err
}

func (r *inventarioRepo) ListBajoStock(ctx context.Context) ([]model.Inventario, error) {
	var lotes []model.Inventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("activo = true AND stock_minimo IS NOT NULL AND stock_actual < stock_minimo").
		Find(&lotes).Error
	return lotes, err
}

func (r *inventarioRepo) ProducidosEntre(ctx context.Context, desde, hasta time.Time) ([]model.Inventario, error) {
	var lotes []model.Inventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("activo = true AND fecha_produccion >= ? AND fecha_produccion < ?", desde, hasta).
		Order("fecha_produccion DESC").Find(&lotes).Error
	return lotes, err
}

func (r *inventarioRepo) Update(ctx context.Context, inv *model.Inventario) error {
	return r.db.WithContext(ctx).Omit("Producto").Save(inv).Error
}

func (r *inventarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Inventario{}).Where("id = ?", id).Update("activo", false).Error
}

// FindByIDForUpdateTx reads the lot under SELECT … FOR UPDATE so the
// read-compute-write of a stock mutation is serialized per lot.
func (r *inventarioRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "id = ? AND activo = true", id).Error
	return &inv, err
}

func (r *inventarioRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, nuevoStock int) error {
	return tx.Model(&model.Inventario{}).Where("id = ?", id).
		Update("stock_actual", nuevoStock).Error
}

func (r *inventarioRepo) TotalLotes(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("activo = true").Count(&total).Error
	return total, err
}

func (r *inventarioRepo) ValorInventario(ctx context.Context) (decimal.Decimal, error) {
	var valor decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("activo = true").
		Select("SUM(stock_actual * costo_unitario)").Scan(&valor).Error
	if err != nil || !valor.Valid {
		return decimal.Zero, err
	}
	return valor.Decimal, nil
}

func (r *inventarioRepo) CountBajoStock(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("activo = true AND stock_minimo IS NOT NULL AND stock_actual < stock_minimo").
		Count(&total).Error
	return total, err
}

func (r *inventarioRepo) ProduccionHoy(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Inventario{}).
		Where("activo = true AND DATE(fecha_produccion) = CURRENT_DATE").
		Select("COALESCE(SUM(cantidad_producida), 0)").Scan(&total).Error
	return total, err
}

func (r *inventarioRepo) DB() *gorm.DB { return r.db }
