package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type GenerarCierreRequest struct {
	Periodo string `json:"periodo" validate:"required,len=6,numeric"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CobroDetalleResponse struct {
	TipoLinea string          `json:"tipo_linea"`
	Glosa     string          `json:"glosa"`
	Monto     decimal.Decimal `json:"monto"`
}

type CobroResponse struct {
	ID              string                 `json:"id"`
	UnidadID        string                 `json:"unidad_id"`
	UnidadCodigo    string                 `json:"unidad_codigo,omitempty"`
	Periodo         string                 `json:"periodo"`
	Tipo            string                 `json:"tipo"`
	Estado          string                 `json:"estado"`
	MontoCargos     decimal.Decimal        `json:"monto_cargos"`
	MontoInteres    decimal.Decimal        `json:"monto_interes"`
	MontoDescuentos decimal.Decimal        `json:"monto_descuentos"`
	MontoPagado     decimal.Decimal        `json:"monto_pagado"`
	Saldo           decimal.Decimal        `json:"saldo"`
	FechaEmision    string                 `json:"fecha_emision"`
	Detalles        []CobroDetalleResponse `json:"detalles,omitempty"`
}

type CierreResponse struct {
	Periodo    string          `json:"periodo"`
	Cobros     []CobroResponse `json:"cobros"`
	TotalSaldo decimal.Decimal `json:"total_saldo"`
}

type PeriodoSugeridoResponse struct {
	Periodo string `json:"periodo"`
}
