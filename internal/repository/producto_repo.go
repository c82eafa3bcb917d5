package repository

import (
	"context"

	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
	"github.com/MiguelAngelEc/preciosSoley/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products and their
// recipe lines. Derived costs/prices are never stored, so there is nothing to
// keep in sync here — reads return raw rows and the service recomputes.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	ReplaceMateriales(ctx context.Context, productoID uuid.UUID, lineas []model.ProductoMaterial) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ExisteNombre(ctx context.Context, nombre string, excluir *uuid.UUID) (bool, error)
	CountActivos(ctx context.Context) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Materiales.Material").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = false")
	case "all":
		// no filter
	default:
		q = q.Where("activo = true")
	}

	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Materiales.Material").
		Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Preload("Materiales.Material").
		Where("activo = true").
		Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Materiales").Save(p).Error
}

// ReplaceMateriales swaps the full recipe in one transaction — the set
// semantics (unique material per product) are validated by the service before
// this is called.
func (r *productoRepo) ReplaceMateriales(ctx context.Context, productoID uuid.UUID, lineas []model.ProductoMaterial) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", productoID).
			Delete(&model.ProductoMaterial{}).Error; err != nil {
			return err
		}
		for i := range lineas {
			lineas[i].ProductoID = productoID
		}
		if len(lineas) == 0 {
			return nil
		}
		return tx.Create(&lineas).Error
	})
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) ExisteNombre(ctx context.Context, nombre string, excluir *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("nombre = ? AND activo = true", nombre)
	if excluir != nil {
		q = q.Where("id <> ?", *excluir)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *productoRepo) CountActivos(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true").Count(&total).Error
	return total, err
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
