package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order states.
const (
	PedidoPendiente = "Pendiente"
	PedidoPreparado = "Preparado"
	PedidoEntregado = "Entregado"
	PedidoCancelado = "Cancelado"
)

// Pedido is a customer order. TotalAmount is computed once at creation.
type Pedido struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClienteNombre string          `gorm:"type:varchar(200);not null"`
	Fecha         time.Time       `gorm:"type:date;not null"`
	MetodoPago    string          `gorm:"type:varchar(20)"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notas         *string
	Estado        string     `gorm:"type:varchar(20);not null;default:'Pendiente'"`
	UsuarioID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time

	Items   []PedidoItem `gorm:"foreignKey:PedidoID"`
	Usuario *Usuario     `gorm:"foreignKey:UsuarioID"`
}

func (p *Pedido) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoNombre string          `gorm:"type:varchar(200)"`
	Cantidad       int             `gorm:"not null;default:1"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

func (PedidoItem) TableName() string { return "pedido_items" }

func (i *PedidoItem) BeforeCreate(*gorm.DB) error {
	asignarID(&i.ID)
	return nil
}
