package repository

import (
	"context"

	"interfaz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CambioInventarioRepository interface {
	CreateTx(tx *gorm.DB, c *model.CambioInventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CambioInventario, error)
	List(ctx context.Context, productoID *uuid.UUID, page, limit int) ([]model.CambioInventario, int64, error)
}

type cambioInventarioRepo struct{ db *gorm.DB }

func NewCambioInventarioRepository(db *gorm.DB) CambioInventarioRepository {
	return &cambioInventarioRepo{db: db}
}

func (r *cambioInventarioRepo) CreateTx(tx *gorm.DB, c *model.CambioInventario) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func (r *cambioInventarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CambioInventario, error) {
	var c model.CambioInventario
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Preload("Usuario").
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *cambioInventarioRepo) List(ctx context.Context, productoID *uuid.UUID, page, limit int) ([]model.CambioInventario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CambioInventario{})
	if productoID != nil {
		q = q.Where("producto_id = ?", *productoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cambios []model.CambioInventario
	err := paginar(q, page, limit).
		Preload("Producto").
		Preload("Usuario").
		Order("created_at DESC").
		Find(&cambios).Error
	return cambios, total, err
}
