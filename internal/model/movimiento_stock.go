package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock movement kinds. Manual changes reuse the CambioInventario type.
const (
	MovimientoVenta   = "venta"
	MovimientoReceta  = "receta"
	MovimientoAjuste  = "ajuste"
	MovimientoEntrada = TipoEntrada
	MovimientoSalida  = TipoSalida
)

// MovimientoStock is the append-only ledger of stock changes. Rows linked to
// a CambioInventario double as its audit trail.
type MovimientoStock struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo               string          `gorm:"type:varchar(20);not null"`
	Cantidad           decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positive = entrada, negative = salida
	StockAnterior      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo         decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo             string
	ReferenciaID       *uuid.UUID `gorm:"type:uuid"` // venta_id or the composed product
	CambioInventarioID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID          *uuid.UUID `gorm:"type:uuid"`
	Rol                string     `gorm:"type:varchar(50)"`
	CreatedAt          time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
