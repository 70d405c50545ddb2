package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReporteStockBajo is filed by staff when they notice a product running out.
type ReporteStockBajo struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProductoID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Mensaje        string     `gorm:"not null"`
	ReportadoPorID *uuid.UUID `gorm:"type:uuid"`
	Resuelto       bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time

	Producto     *Producto `gorm:"foreignKey:ProductoID"`
	ReportadoPor *Usuario  `gorm:"foreignKey:ReportadoPorID"`
}

func (ReporteStockBajo) TableName() string { return "reportes_stock_bajo" }

func (r *ReporteStockBajo) BeforeCreate(*gorm.DB) error {
	asignarID(&r.ID)
	return nil
}
