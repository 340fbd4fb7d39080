package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de un cobro.
const (
	CobroPendiente = "pendiente"
	CobroPagado    = "pagado"
)

// Tipos de línea de detalle.
const (
	LineaCargoComun      = "cargo_comun"
	LineaCargoIndividual = "cargo_individual"
	LineaInteresMora     = "interes_mora"
)

// Tipos de cargo unitario.
const (
	CargoOrdinario = "ordinario"
	CargoExtra     = "extra"
)

// Cobro is the per-unit invoice header for a period, unique per
// (unidad, periodo, tipo). Saldo is derived but persisted:
//
//	Saldo = MontoCargos + MontoInteres - MontoDescuentos - MontoPagado
//
// Created by the cierre mensual; mutated by cierre re-runs and by payment
// application/reversal; never deleted.
type Cobro struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cobro_unidad_periodo_tipo"`
	Periodo         string          `gorm:"type:varchar(6);not null;uniqueIndex:idx_cobro_unidad_periodo_tipo"`
	Tipo            string          `gorm:"type:varchar(20);not null;default:'mensual';uniqueIndex:idx_cobro_unidad_periodo_tipo"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	MontoCargos     decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0"`
	MontoInteres    decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0"`
	MontoDescuentos decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0"`
	MontoPagado     decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0"`
	Saldo           decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0"`
	FechaEmision    time.Time       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Unidad   *Unidad        `gorm:"foreignKey:UnidadID"`
	Detalles []CobroDetalle `gorm:"foreignKey:CobroID"`
}

// RecalcularSaldo recomputes the persisted derived balance.
func (c *Cobro) RecalcularSaldo() {
	c.Saldo = c.MontoCargos.Add(c.MontoInteres).Sub(c.MontoDescuentos).Sub(c.MontoPagado)
}

// CobroDetalle is a line item on a Cobro, keyed by (cobro, tipo_linea) or by
// (cobro, tipo_linea, unidad_cargo) for lines tied to a specific UnidadCargo.
type CobroDetalle struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CobroID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	TipoLinea     string          `gorm:"type:varchar(20);not null"`
	UnidadCargoID *uuid.UUID      `gorm:"type:uuid;index"`
	Glosa         string          `gorm:"not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	CreatedAt     time.Time
}

// UnidadCargo itemizes a charge per (unidad, periodo, concepto). Annex-surcharge
// rows (tipo "extra") are regenerated on every cierre run for the period —
// deleted then recreated — because no natural key ties a generated row back to
// the annex rule that produced it.
type UnidadCargo struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UnidadID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Periodo    string          `gorm:"type:varchar(6);index;not null"`
	ConceptoID uuid.UUID       `gorm:"type:uuid;not null"`
	Tipo       string          `gorm:"type:varchar(20);not null;default:'ordinario'"`
	Monto      decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Detalle    *string
	CreatedAt  time.Time

	Concepto *CatConceptoCargo `gorm:"foreignKey:ConceptoID"`
}
