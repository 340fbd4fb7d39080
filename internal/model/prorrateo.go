package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Criterios de prorrateo. Only the first two are implemented; the rest are
// reserved and produce zero factors until a strategy exists for them.
const (
	CriterioCoefProp    = "coef_prop"
	CriterioIgualitario = "igualitario"
	CriterioPorM2       = "por_m2"
	CriterioPorTipo     = "por_tipo"
	CriterioMontoFijo   = "monto_fijo"
)

const (
	ProrrateoOrdinario      = "ordinario"
	ProrrateoExtraordinario = "extraordinario"
)

// ConceptoGastoComun is the charge concept created by default for the ordinary rule.
const ConceptoGastoComun = "GASTO_COMUN"

// CatConceptoCargo catalogs charge concepts (gasto común, anexo, multa…).
type CatConceptoCargo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo string    `gorm:"uniqueIndex;not null"`
	Nombre string    `gorm:"not null"`
}

// ProrrateoRegla defines how a pooled amount is distributed among the units of
// a condominium. One rule per (condominio, concepto, tipo) is expected to be
// current.
type ProrrateoRegla struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID uuid.UUID `gorm:"type:uuid;index;not null"`
	ConceptoID   uuid.UUID `gorm:"type:uuid;not null"`
	Tipo         string    `gorm:"type:varchar(20);not null;default:'ordinario'"`
	Criterio     string    `gorm:"type:varchar(20);not null"`
	VigenteDesde time.Time `gorm:"not null"`
	Descripcion  *string
	CreatedAt    time.Time

	Concepto *CatConceptoCargo `gorm:"foreignKey:ConceptoID"`
}

// ProrrateoFactorUnidad is the per-unit allocation factor of a rule.
// Factors under a rule sum to 1 within rounding tolerance. Rows are fully
// recomputed (purge + bulk insert) whenever the rule or the unit set changes —
// never patched incrementally.
type ProrrateoFactorUnidad struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReglaID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_factor_regla_unidad"`
	UnidadID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_factor_regla_unidad"`
	Factor   decimal.Decimal `gorm:"type:decimal(9,6);not null"`

	Unidad *Unidad `gorm:"foreignKey:UnidadID"`
}

func (ProrrateoFactorUnidad) TableName() string { return "prorrateo_factores_unidad" }
