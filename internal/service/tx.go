package service

import (
	"context"
	"time"

	"interfaz/internal/dto"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// StockNotifier receives committed stock changes. The websocket hub
// implements it; a nil notifier is allowed.
type StockNotifier interface {
	PublicarStock(eventos ...dto.EventoStock)
}

func publicar(n StockNotifier, eventos []dto.EventoStock) {
	if n == nil || len(eventos) == 0 {
		return
	}
	n.PublicarStock(eventos...)
}

const formatoFecha = time.RFC3339

func formatearFecha(t time.Time) string { return t.Format(formatoFecha) }

func strPtr(s string) *string { return &s }
