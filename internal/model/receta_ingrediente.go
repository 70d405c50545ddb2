package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecetaIngrediente is one bill-of-materials line: Cantidad units of the
// ingredient per unit of ProductoID. Lines without ingredient or with a
// non-positive quantity are kept but never deducted.
type RecetaIngrediente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredienteID *uuid.UUID      `gorm:"type:uuid;index"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Unidad        string          `gorm:"type:varchar(20)"`

	Ingrediente *Producto `gorm:"foreignKey:IngredienteID"`
}

func (RecetaIngrediente) TableName() string { return "recetas_ingredientes" }

func (r *RecetaIngrediente) BeforeCreate(*gorm.DB) error {
	asignarID(&r.ID)
	return nil
}

// Descontable reports whether the line takes part in ingredient deduction.
func (r *RecetaIngrediente) Descontable() bool {
	return r.IngredienteID != nil && r.Cantidad.IsPositive()
}
