package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FondoMovAbono is the only movement type the cierre produces today.
const FondoMovAbono = "abono"

// ParamReglamento holds per-condominium bylaw parameters. One row per
// condominium; lazily created with defaults on first cierre.
type ParamReglamento struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID           uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	RecargoFondoReservaPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:5"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// FondoReservaMovimiento records the reserve-fund surcharge of a period.
// Upserted by (condominio, periodo, tipo) so a cierre re-run overwrites
// instead of duplicating.
type FondoReservaMovimiento struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fondo_condo_periodo_tipo"`
	Periodo      string          `gorm:"type:varchar(6);not null;uniqueIndex:idx_fondo_condo_periodo_tipo"`
	Tipo         string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_fondo_condo_periodo_tipo"`
	Monto        decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
