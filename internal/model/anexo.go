package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de anexo.
const (
	AnexoEstacionamiento = "estacionamiento"
	AnexoBodega          = "bodega"
)

// ConceptoAnexoExtra is the charge concept used for generated annex surcharges.
const ConceptoAnexoExtra = "ANEXO_EXTRA"

// AnexoRegla drives which units are billed the annex surcharge on each cierre.
// SubtipoID optionally restricts the rule to a dwelling subtype. Monto overrides
// the configured default surcharge when set.
type AnexoRegla struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID uuid.UUID        `gorm:"type:uuid;index;not null"`
	AnexoTipo    string           `gorm:"type:varchar(20);not null"`
	SubtipoID    *uuid.UUID       `gorm:"type:uuid;column:id_viv_subtipo"`
	Monto        *decimal.Decimal `gorm:"type:decimal(14,0)"`
	VigenteDesde time.Time        `gorm:"not null"`
	VigenteHasta *time.Time
	CreatedAt    time.Time

	Subtipo *CatViviendaSubtipo `gorm:"foreignKey:SubtipoID"`
}

// VigenteEn reports whether the rule is active at the given date.
func (r *AnexoRegla) VigenteEn(fecha time.Time) bool {
	if fecha.Before(r.VigenteDesde) {
		return false
	}
	return r.VigenteHasta == nil || !fecha.After(*r.VigenteHasta)
}
