package repository

import (
	"context"
	"time"

	"interfaz/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlmacenamientoRepository interface {
	// Upsert inserts or replaces the value stored under (usuario, clave).
	Upsert(ctx context.Context, a *model.AlmacenamientoUsuario) error
	Find(ctx context.Context, usuarioID uuid.UUID, clave string) (*model.AlmacenamientoUsuario, error)
	List(ctx context.Context, usuarioID uuid.UUID) ([]model.AlmacenamientoUsuario, error)
	Delete(ctx context.Context, usuarioID uuid.UUID, clave string) error
}

type almacenamientoRepo struct{ db *gorm.DB }

func NewAlmacenamientoRepository(db *gorm.DB) AlmacenamientoRepository {
	return &almacenamientoRepo{db: db}
}

func (r *almacenamientoRepo) Upsert(ctx context.Context, a *model.AlmacenamientoUsuario) error {
	a.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "usuario_id"}, {Name: "clave"}},
		DoUpdates: clause.AssignmentColumns([]string{"valor", "updated_at"}),
	}).Create(a).Error
}

func (r *almacenamientoRepo) Find(ctx context.Context, usuarioID uuid.UUID, clave string) (*model.AlmacenamientoUsuario, error) {
	var a model.AlmacenamientoUsuario
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND clave = ?", usuarioID, clave).
		First(&a).Error
	return &a, err
}

func (r *almacenamientoRepo) List(ctx context.Context, usuarioID uuid.UUID) ([]model.AlmacenamientoUsuario, error) {
	var items []model.AlmacenamientoUsuario
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("clave ASC").
		Find(&items).Error
	return items, err
}

func (r *almacenamientoRepo) Delete(ctx context.Context, usuarioID uuid.UUID, clave string) error {
	res := r.db.WithContext(ctx).
		Where("usuario_id = ? AND clave = ?", usuarioID, clave).
		Delete(&model.AlmacenamientoUsuario{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
