package repository

import (
	"context"

	"interfaz/internal/dto"
	"interfaz/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CajaRepository stores the cash ledger. Movements are never modified or
// deleted.
type CajaRepository interface {
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, filter dto.MovimientoCajaFilter) ([]model.MovimientoCaja, int64, error)
	// SumByTipo returns the total amount per movement type for one day.
	SumByTipo(ctx context.Context, fecha string) (map[string]decimal.Decimal, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	return r.CreateMovimientoTx(r.db.WithContext(ctx), m)
}

func (r *cajaRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Omit(clause.Associations).Create(m).Error
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, filter dto.MovimientoCajaFilter) ([]model.MovimientoCaja, int64, error) {
	q, err := filtrarDia(r.db.WithContext(ctx).Model(&model.MovimientoCaja{}), "created_at", filter.Fecha)
	if err != nil {
		return nil, 0, err
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movs []model.MovimientoCaja
	err = paginar(q, filter.Page, filter.Limit).
		Preload("Usuario").
		Order("created_at DESC").
		Find(&movs).Error
	return movs, total, err
}

func (r *cajaRepo) SumByTipo(ctx context.Context, fecha string) (map[string]decimal.Decimal, error) {
	q, err := filtrarDia(r.db.WithContext(ctx).Model(&model.MovimientoCaja{}), "created_at", fecha)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Tipo  string
		Total decimal.Decimal
	}
	err = q.Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Group("tipo").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.Tipo] = row.Total
	}
	return result, nil
}
