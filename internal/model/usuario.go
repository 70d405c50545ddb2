package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names used by RequireRole.
const (
	RolGerente   = "Gerente"
	RolEncargado = "Encargado"
	RolCajero    = "Cajero"
)

type Rol struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre    string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	CreatedAt time.Time
}

func (Rol) TableName() string { return "roles" }

func (r *Rol) BeforeCreate(*gorm.DB) error {
	asignarID(&r.ID)
	return nil
}

// Usuario stores system users. A user without role keeps read access only.
type Usuario struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string     `gorm:"type:varchar(254)"`
	PasswordHash string     `gorm:"not null"`
	RolID        *uuid.UUID `gorm:"type:uuid;index"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Rol *Rol `gorm:"foreignKey:RolID"`
}

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	asignarID(&u.ID)
	return nil
}

// NombreRol returns the role name or "" when the user has none.
func (u *Usuario) NombreRol() string {
	if u.Rol == nil {
		return ""
	}
	return u.Rol.Nombre
}
