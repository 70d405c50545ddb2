package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EstadoActivo   = "Activo"
	EstadoInactivo = "Inactivo"
)

// Producto is either a sellable item or an ingredient (EsIngrediente). A
// product with Receta lines consumes its ingredients when stock is created.
type Producto struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre          string    `gorm:"type:varchar(200);index;not null"`
	Descripcion     *string
	Precio          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock           decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UmbralStockBajo decimal.Decimal `gorm:"type:decimal(12,3);not null;default:5"`
	Categoria       string          `gorm:"type:varchar(100);index"`
	EsIngrediente   bool            `gorm:"not null;default:false"`
	Unidad          string          `gorm:"type:varchar(20);not null;default:'unidad'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Receta []RecetaIngrediente `gorm:"foreignKey:ProductoID"`
}

func (p *Producto) BeforeCreate(*gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// Estado is derived, never stored: Activo while there is stock on hand.
func (p *Producto) Estado() string {
	if p.Stock.IsPositive() {
		return EstadoActivo
	}
	return EstadoInactivo
}

func (p *Producto) StockBajo() bool {
	return p.Stock.LessThanOrEqual(p.UmbralStockBajo)
}
