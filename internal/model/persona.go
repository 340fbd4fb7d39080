package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de ocupación.
const (
	OcupacionResidente   = "residente"
	OcupacionPropietario = "propietario"
)

// Persona is a resident or owner reachable for notifications.
type Persona struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombres   string    `gorm:"not null"`
	Apellidos string    `gorm:"not null"`
	Email     *string
	Telefono  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ocupacion links a persona to a unidad with a role and validity window.
// Notification targeting resolves current residents first and falls back to
// current owners when the unit has no resident.
type Ocupacion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadID     uuid.UUID `gorm:"type:uuid;index;not null"`
	PersonaID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	VigenteDesde time.Time `gorm:"not null"`
	VigenteHasta *time.Time
	CreatedAt    time.Time

	Persona *Persona `gorm:"foreignKey:PersonaID"`
}

func (Ocupacion) TableName() string { return "ocupaciones" }
