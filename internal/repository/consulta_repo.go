package repository

import (
	"context"

	"interfaz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConsultaRepository interface {
	Create(ctx context.Context, c *model.ConsultaUsuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ConsultaUsuario, error)
	// List returns every query when usuarioID is nil, otherwise only that user's.
	List(ctx context.Context, usuarioID *uuid.UUID) ([]model.ConsultaUsuario, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
}

type consultaRepo struct{ db *gorm.DB }

func NewConsultaRepository(db *gorm.DB) ConsultaRepository { return &consultaRepo{db: db} }

func (r *consultaRepo) Create(ctx context.Context, c *model.ConsultaUsuario) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *consultaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ConsultaUsuario, error) {
	var c model.ConsultaUsuario
	err := r.db.WithContext(ctx).Preload("Usuario").Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *consultaRepo) List(ctx context.Context, usuarioID *uuid.UUID) ([]model.ConsultaUsuario, error) {
	q := r.db.WithContext(ctx).Preload("Usuario")
	if usuarioID != nil {
		q = q.Where("usuario_id = ?", *usuarioID)
	}
	var cs []model.ConsultaUsuario
	err := q.Order("created_at DESC").Find(&cs).Error
	return cs, err
}

func (r *consultaRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.ConsultaUsuario{}).
		Where("id = ?", id).
		Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
