package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InteresRegla defines the annual arrears-interest rate for a unit segment of a
// condominium within a validity window. At most one rule should be active for a
// given (condominio, segmento, fecha); if none is found no interest is charged.
type InteresRegla struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID uuid.UUID       `gorm:"type:uuid;index;not null"`
	SegmentoID   *uuid.UUID      `gorm:"type:uuid;index"` // nil = all segments
	TasaAnualPct decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	VigenteDesde time.Time       `gorm:"not null"`
	VigenteHasta *time.Time
	CreatedAt    time.Time
}

// VigenteEn reports whether the rule is active at the given date.
func (r *InteresRegla) VigenteEn(fecha time.Time) bool {
	if fecha.Before(r.VigenteDesde) {
		return false
	}
	return r.VigenteHasta == nil || !fecha.After(*r.VigenteHasta)
}
