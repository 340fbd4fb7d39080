package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearGastoRequest struct {
	CondominioID string  `json:"condominio_id" validate:"required,uuid"`
	CategoriaID  *string `json:"categoria_id"  validate:"omitempty,uuid"`
	// Categoria by name creates-or-reuses the catalog entry when no id is given.
	Categoria    *string         `json:"categoria"     validate:"omitempty,max=100"`
	ProveedorID  *string         `json:"proveedor_id"  validate:"omitempty,uuid"`
	Glosa        string          `json:"glosa"         validate:"required,min=3,max=300"`
	Periodo      string          `json:"periodo"       validate:"required,len=6,numeric"`
	FechaEmision string          `json:"fecha_emision" validate:"omitempty,datetime=2006-01-02"`
	Neto         decimal.Decimal `json:"neto"          validate:"required"`
	IVA          decimal.Decimal `json:"iva"`
}

type GastoFilter struct {
	Periodo string `form:"periodo" validate:"omitempty,len=6,numeric"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GastoResponse struct {
	ID           string          `json:"id"`
	CondominioID string          `json:"condominio_id"`
	Categoria    *string         `json:"categoria,omitempty"`
	Proveedor    *string         `json:"proveedor,omitempty"`
	Glosa        string          `json:"glosa"`
	Periodo      string          `json:"periodo"`
	FechaEmision string          `json:"fecha_emision"`
	Neto         decimal.Decimal `json:"neto"`
	IVA          decimal.Decimal `json:"iva"`
	Total        decimal.Decimal `json:"total"`
}

type GastoListResponse struct {
	Data  []GastoResponse `json:"data"`
	Total decimal.Decimal `json:"total"`
}
