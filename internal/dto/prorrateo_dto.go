package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearReglaRequest struct {
	CondominioID string  `json:"condominio_id" validate:"required,uuid"`
	Tipo         string  `json:"tipo"          validate:"required,oneof=ordinario extraordinario"`
	Criterio     string  `json:"criterio"      validate:"required,oneof=coef_prop igualitario por_m2 por_tipo monto_fijo"`
	VigenteDesde string  `json:"vigente_desde" validate:"required,datetime=2006-01-02"`
	Descripcion  *string `json:"descripcion"   validate:"omitempty,max=300"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FactorUnidadResponse struct {
	UnidadID string          `json:"unidad_id"`
	Factor   decimal.Decimal `json:"factor"`
}

type ReglaResponse struct {
	ID           string  `json:"id"`
	CondominioID string  `json:"condominio_id"`
	Tipo         string  `json:"tipo"`
	Criterio     string  `json:"criterio"`
	VigenteDesde string  `json:"vigente_desde"`
	Descripcion  *string `json:"descripcion,omitempty"`
}

type CalcularFactoresResponse struct {
	ReglaID   string `json:"regla_id"`
	Generados int    `json:"generados"`
}
