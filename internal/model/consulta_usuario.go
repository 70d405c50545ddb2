package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConsultaAbierta    = "Abierta"
	ConsultaRespondida = "Respondida"
	ConsultaCerrada    = "Cerrada"
)

type ConsultaUsuario struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index"`
	Asunto    string     `gorm:"type:varchar(200);not null"`
	Mensaje   string     `gorm:"not null"`
	Estado    string     `gorm:"type:varchar(20);not null;default:'Abierta'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}

func (ConsultaUsuario) TableName() string { return "consultas_usuario" }

func (c *ConsultaUsuario) BeforeCreate(*gorm.DB) error {
	asignarID(&c.ID)
	return nil
}
