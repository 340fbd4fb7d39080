package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatSegmento classifies units for interest-rule lookup (ej: "residencial", "comercial").
type CatSegmento struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo string    `gorm:"uniqueIndex;not null"`
	Nombre string    `gorm:"not null"`
}

// CatViviendaSubtipo is the fine-grained dwelling subtype (ej: "1D1B", "2D2B").
type CatViviendaSubtipo struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo string    `gorm:"uniqueIndex;not null"`
	Nombre string    `gorm:"not null"`
}

// Unidad is an individually billed sub-property (departamento, bodega, estacionamiento).
// CoefProp is the proportional-ownership coefficient (alícuota); across all units of a
// condominium these are expected to sum to ~1 under the coef_prop proration criterion.
type Unidad struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID      uuid.UUID        `gorm:"type:uuid;index;not null"`
	Codigo       string           `gorm:"not null"`
	CoefProp     decimal.Decimal  `gorm:"type:decimal(9,6);not null;default:0"`
	SuperficieM2 *decimal.Decimal `gorm:"type:decimal(10,2);column:superficie_m2"`
	SegmentoID   *uuid.UUID       `gorm:"type:uuid;index"`
	SubtipoID    *uuid.UUID       `gorm:"type:uuid;index;column:id_viv_subtipo"`
	// AnexoIncluido: the unit's annex is bundled into the common charge.
	// AnexoCobrable: the unit is billed the annex surcharge on each cierre.
	AnexoIncluido bool `gorm:"not null;default:false"`
	AnexoCobrable bool `gorm:"not null;default:false"`
	Activa        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Grupo    *Grupo              `gorm:"foreignKey:GrupoID"`
	Segmento *CatSegmento        `gorm:"foreignKey:SegmentoID"`
	Subtipo  *CatViviendaSubtipo `gorm:"foreignKey:SubtipoID"`
}

// TableName avoids GORM's English pluralizer ("unidads").
func (Unidad) TableName() string { return "unidades" }
