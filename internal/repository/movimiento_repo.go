package repository

import (
	"context"
	"time"

	"github.com/MiguelAngelEc/preciosSoley/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoRepository persists the append-only stock journal. There is no
// Update or Delete: corrections are recorded as opposite movements.
type MovimientoRepository interface {
	// CreateTx writes the journal row inside the same transaction that updates
	// the lot's stock, so journal and stock can never diverge.
	CreateTx(tx *gorm.DB, mov *model.MovimientoInventario) error

	ListByInventario(ctx context.Context, inventarioID uuid.UUID, page, limit int) ([]model.MovimientoInventario, int64, error)
	Recientes(ctx context.Context, limit int) ([]model.MovimientoInventario, error)
	UltimaFecha(ctx context.Context, inventarioID uuid.UUID) (*time.Time, error)
	CountByInventario(ctx context.Context, inventarioID uuid.UUID) (int64, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) CreateTx(tx *gorm.DB, mov *model.MovimientoInventario) error {
	return tx.Create(mov).Error
}

func (r *movimientoRepo) ListByInventario(ctx context.Context, inventarioID uuid.UUID, page, limit int) ([]model.MovimientoInventario, int64, error) {
	var movimientos []model.MovimientoInventario
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Where("inventario_id = ?", inventarioID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoRepo) Recientes(ctx context.Context, limit int) ([]model.MovimientoInventario, error) {
	var movimientos []model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Limit(limit).Find(&movimientos).Error
	return movimientos, err
}

func (r *movimientoRepo) UltimaFecha(ctx context.Context, inventarioID uuid.UUID) (*time.Time, error) {
	var mov model.MovimientoInventario
	err := r.db.WithContext(ctx).
		Where("inventario_id = ?", inventarioID).
		Order("created_at DESC").First(&mov).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &mov.CreatedAt, nil
}

func (r *movimientoRepo) CountByInventario(ctx context.Context, inventarioID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Where("inventario_id = ?", inventarioID).Count(&total).Error
	return total, err
}
