package repository

import (
	"context"

	"interfaz/internal/dto"
	"interfaz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompraRepository interface {
	Create(ctx context.Context, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	// UpdateEstado only transitions purchases that are still Pendiente.
	// It reports false when the purchase was already decided.
	UpdateEstado(ctx context.Context, c *model.Compra) (bool, error)
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) Create(ctx context.Context, c *model.Compra) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Usuario").
		Preload("AprobadoPor").
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var compras []model.Compra
	err := paginar(q, filter.Page, filter.Limit).
		Preload("Usuario").
		Preload("AprobadoPor").
		Order("created_at DESC").
		Find(&compras).Error
	return compras, total, err
}

func (r *compraRepo) UpdateEstado(ctx context.Context, c *model.Compra) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Compra{}).
		Where("id = ? AND estado = ?", c.ID, model.EstadoPendiente).
		Updates(map[string]interface{}{
			"estado":          c.Estado,
			"aprobado_por_id": c.AprobadoPorID,
			"aprobado_en":     c.AprobadoEn,
		})
	return res.RowsAffected == 1, res.Error
}
