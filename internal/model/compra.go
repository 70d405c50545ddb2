package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EstadoPendiente = "Pendiente"
	EstadoAprobada  = "Aprobada"
	EstadoRechazada = "Rechazada"
)

// Compra is a purchase from a supplier. Items is whatever JSON the client
// sent; the total shown to clients is recomputed from it on every read.
type Compra struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Proveedor     string          `gorm:"type:varchar(200);not null"`
	Items         datatypes.JSON  `gorm:"type:jsonb"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notas         *string
	Estado        string     `gorm:"type:varchar(20);not null;default:'Pendiente'"`
	UsuarioID     *uuid.UUID `gorm:"type:uuid;index"`
	AprobadoPorID *uuid.UUID `gorm:"type:uuid"`
	AprobadoEn    *time.Time
	CreatedAt     time.Time

	Usuario     *Usuario `gorm:"foreignKey:UsuarioID"`
	AprobadoPor *Usuario `gorm:"foreignKey:AprobadoPorID"`
}

func (c *Compra) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
