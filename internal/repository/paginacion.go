package repository

import (
	"time"

	"gorm.io/gorm"
)

const (
	limiteDefault = 50
	limiteMaximo  = 500
)

// paginar applies page/limit to q, clamping out-of-range values.
func paginar(q *gorm.DB, page, limit int) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > limiteMaximo {
		limit = limiteDefault
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}

// rangoDia returns [start, end) for a YYYY-MM-DD day in local time.
func rangoDia(fecha string) (time.Time, time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", fecha, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, d.AddDate(0, 0, 1), nil
}

// filtrarDia restricts q to rows whose column falls on fecha. An empty fecha
// leaves q untouched.
func filtrarDia(q *gorm.DB, columna, fecha string) (*gorm.DB, error) {
	if fecha == "" {
		return q, nil
	}
	desde, hasta, err := rangoDia(fecha)
	if err != nil {
		return nil, err
	}
	return q.Where(columna+" >= ? AND "+columna+" < ?", desde, hasta), nil
}
