package repository

import (
	"context"

	"interfaz/internal/dto"
	"interfaz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	CreateItemTx(tx *gorm.DB, item *model.VentaItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

// CreateTx stores only the header; items are added one by one with
// CreateItemTx while stock is being deducted.
func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Omit(clause.Associations).Create(v).Error
}

func (r *ventaRepo) CreateItemTx(tx *gorm.DB, item *model.VentaItem) error {
	return tx.Omit(clause.Associations).Create(item).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").
		Preload("Usuario").
		Where("id = ?", id).
		First(&v).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q, err := filtrarDia(r.db.WithContext(ctx).Model(&model.Venta{}), "created_at", filter.Fecha)
	if err != nil {
		return nil, 0, err
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err = paginar(q, filter.Page, filter.Limit).
		Preload("Items.Producto").
		Preload("Usuario").
		Order("created_at DESC").
		Find(&ventas).Error
	return ventas, total, err
}
