package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de pago. A reversal is a NEW negative-amount "ajuste" payment — the
// original row is never mutated or deleted.
const (
	PagoNormal = "normal"
	PagoAjuste = "ajuste"
)

// Pago is an incoming payment from a unit. Immutable once created.
type Pago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Metodo     string          `gorm:"type:varchar(20);not null"`
	FechaPago  time.Time       `gorm:"not null"`
	Periodo    string          `gorm:"type:varchar(6);index;not null"`
	Tipo       string          `gorm:"type:varchar(20);not null;default:'normal'"`
	RefExterna *string
	Nota       *string
	CreatedAt  time.Time

	Aplicaciones []PagoAplicacion `gorm:"foreignKey:PagoID"`
}

// PagoAplicacion records exactly how much of a payment satisfied which cobro.
// Amounts are signed: a reversal writes negative rows mirroring the originals
// for full traceability.
type PagoAplicacion struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CobroID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	MontoAplicado decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	CreatedAt     time.Time

	Cobro *Cobro `gorm:"foreignKey:CobroID"`
}

func (PagoAplicacion) TableName() string { return "pago_aplicaciones" }
