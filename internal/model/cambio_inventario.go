package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TipoEntrada = "Entrada"
	TipoSalida  = "Salida"
)

// CambioInventario is a manual stock adjustment. Cantidad is always stored
// as a magnitude; Tipo carries the direction.
type CambioInventario struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo       string          `gorm:"type:varchar(10);not null"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo     string
	UsuarioID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID"`
}

func (CambioInventario) TableName() string { return "cambios_inventario" }

func (c *CambioInventario) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
