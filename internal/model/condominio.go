package model

import (
	"time"

	"github.com/google/uuid"
)

// Condominio is the top-level billed entity (building or complex).
type Condominio struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"uniqueIndex;not null"`
	RutBase       *int
	RutDV         *string `gorm:"type:varchar(1);column:rut_dv"`
	Direccion     *string
	Comuna        *string
	Region        *string
	EmailContacto *string
	Telefono      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Grupos []Grupo `gorm:"foreignKey:CondominioID"`
}

// Grupo agrupa unidades dentro de un condominio (torre, bloque, sector).
type Grupo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID uuid.UUID `gorm:"type:uuid;index;not null"`
	Nombre       string    `gorm:"not null"`
	Tipo         string    `gorm:"type:varchar(20);not null;default:'torre'"`
	CreatedAt    time.Time

	Condominio *Condominio `gorm:"foreignKey:CondominioID"`
}
