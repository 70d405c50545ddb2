package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Venta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago  string          `gorm:"type:varchar(20);not null"`
	UsuarioID   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time       `gorm:"index"`

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
}

func (v *Venta) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	return nil
}

// VentaItem keeps the price charged at sale time, independent of later
// price changes on the product.
type VentaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }

func (i *VentaItem) BeforeCreate(*gorm.DB) error {
	asignarID(&i.ID)
	return nil
}
