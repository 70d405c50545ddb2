package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CajaIngreso = "Ingreso"
	CajaEgreso  = "Egreso"
)

// MovimientoCaja is an immutable event in the cash ledger. Sales write an
// Ingreso linked through VentaID.
type MovimientoCaja struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Tipo        string          `gorm:"type:varchar(10);not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion string
	MetodoPago  string     `gorm:"type:varchar(20);not null"`
	UsuarioID   *uuid.UUID `gorm:"type:uuid;index"`
	VentaID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"index"`

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

func (m *MovimientoCaja) BeforeCreate(*gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
