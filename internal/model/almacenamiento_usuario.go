package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlmacenamientoUsuario is a per-user key/value slot the frontend uses to
// persist preferences and drafts. Valor is opaque JSON.
type AlmacenamientoUsuario struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UsuarioID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_usuario_clave"`
	Clave     string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_usuario_clave"`
	Valor     datatypes.JSON `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (AlmacenamientoUsuario) TableName() string { return "almacenamiento_usuario" }

func (a *AlmacenamientoUsuario) BeforeCreate(*gorm.DB) error {
	asignarID(&a.ID)
	return nil
}
