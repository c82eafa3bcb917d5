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

// EgresoRepository persists the sales journal. Write operations take a
// transaction because every egreso mutation also moves stock on its lot.
type EgresoRepository interface {
	CreateTx(tx *gorm.DB, e *model.Egreso) error
	UpdateTx(tx *gorm.DB, e *model.Egreso) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// FindByIDForUpdateTx locks the egreso row for the duration of the
	// transaction, so concurrent edits of the same sale serialize before
	// computing their stock deltas.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Egreso, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Egreso, error)
	ListByInventario(ctx context.Context, inventarioID uuid.UUID, page, limit int) ([]model.Egreso, int64, error)
	Report(ctx context.Context, filter dto.EgresoReportFilter) ([]model.Egreso, error)
	TotalesHoy(ctx context.Context) (int64, decimal.Decimal, error)
	CountByInventario(ctx context.Context, inventarioID uuid.UUID) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type egresoRepo struct{ db *gorm.DB }

func NewEgresoRepository(db *gorm.DB) EgresoRepository { return &egresoRepo{db: db} }

func (r *egresoRepo) CreateTx(tx *gorm.DB, e *model.Egreso) error {
	return tx.Create(e).Error
}

func (r *egresoRepo) UpdateTx(tx *gorm.DB, e *model.Egreso) error {
	return tx.Omit("Inventario", "Producto").Save(e).Error
}

func (r *egresoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Egreso{}, "id = ?", id).Error
}

func (r *egresoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Egreso, error) {
	var e model.Egreso
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *egresoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Egreso, error) {
	var e model.Egreso
	err := r.db.WithContext(ctx).
		Preload("Producto").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *egresoRepo) ListByInventario(ctx context.Context, inventarioID uuid.UUID, page, limit int) ([]model.Egreso, int64, error) {
	var egresos []model.Egreso
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Egreso{}).
		Where("inventario_id = ?", inventarioID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Producto").
		Order("fecha_egreso DESC").Limit(limit).Offset(offset).Find(&egresos).Error
	return egresos, total, err
}

func (r *egresoRepo) Report(ctx context.Context, filter dto.EgresoReportFilter) ([]model.Egreso, error) {
	var egresos []model.Egreso

	q := r.db.WithContext(ctx).Model(&model.Egreso{})

	if filter.Desde != "" {
		desde, err := time.Parse("2006-01-02", filter.Desde)
		if err != nil {
			return nil, err
		}
		q = q.Where("fecha_egreso >= ?", desde)
	}
	if filter.Hasta != "" {
		hasta, err := time.Parse("2006-01-02", filter.Hasta)
		if err != nil {
			return nil, err
		}
		// Hasta is inclusive: cut at the start of the following day.
		q = q.Where("fecha_egreso < ?", hasta.AddDate(0, 0, 1))
	}
	if filter.TipoCliente != "" {
		q = q.Where("tipo_cliente = ?", filter.TipoCliente)
	}

	err := q.Preload("Producto").Order("fecha_egreso DESC").Find(&egresos).Error
	return egresos, err
}

func (r *egresoRepo) TotalesHoy(ctx context.Context) (int64, decimal.Decimal, error) {
	var row struct {
		Cantidad int64
		Valor    decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&model.Egreso{}).
		Where("DATE(fecha_egreso) = CURRENT_DATE").
		Select("COALESCE(SUM(cantidad), 0) AS cantidad, SUM(valor_total) AS valor").
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	valor := decimal.Zero
	if row.Valor.Valid {
		valor = row.Valor.Decimal
	}
	return row.Cantidad, valor, nil
}

func (r *egresoRepo) CountByInventario(ctx context.Context, inventarioID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Egreso{}).
		Where("inventario_id = ?", inventarioID).Count(&total).Error
	return total, err
}

func (r *egresoRepo) DB() *gorm.DB { return r.db }
