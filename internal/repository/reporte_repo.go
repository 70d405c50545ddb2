package repository

import (
	"context"

	"interfaz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReporteStockBajoRepository interface {
	Create(ctx context.Context, r *model.ReporteStockBajo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReporteStockBajo, error)
	List(ctx context.Context, incluirResueltos bool) ([]model.ReporteStockBajo, error)
	MarcarResuelto(ctx context.Context, id uuid.UUID) error
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteStockBajoRepository(db *gorm.DB) ReporteStockBajoRepository {
	return &reporteRepo{db: db}
}

func (r *reporteRepo) Create(ctx context.Context, rep *model.ReporteStockBajo) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rep).Error
}

func (r *reporteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReporteStockBajo, error) {
	var rep model.ReporteStockBajo
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Preload("ReportadoPor").
		Where("id = ?", id).
		First(&rep).Error
	return &rep, err
}

func (r *reporteRepo) List(ctx context.Context, incluirResueltos bool) ([]model.ReporteStockBajo, error) {
	q := r.db.WithContext(ctx).Preload("Producto").Preload("ReportadoPor")
	if !incluirResueltos {
		q = q.Where("resuelto = ?", false)
	}
	var reps []model.ReporteStockBajo
	err := q.Order("created_at DESC").Find(&reps).Error
	return reps, err
}

func (r *reporteRepo) MarcarResuelto(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.ReporteStockBajo{}).
		Where("id = ?", id).
		Update("resuelto", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
