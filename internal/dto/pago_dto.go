package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarPagoRequest struct {
	UnidadID string          `json:"unidad_id" validate:"required,uuid"`
	Monto    decimal.Decimal `json:"monto"     validate:"required"`
	Metodo   string          `json:"metodo"    validate:"required,oneof=efectivo transferencia cheque tarjeta"`
	// Fecha YYYY-MM-DD; empty = today. The payment's period derives from it.
	Fecha string  `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Nota  *string `json:"nota"  validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PagoAplicacionResponse struct {
	CobroID       string          `json:"cobro_id"`
	MontoAplicado decimal.Decimal `json:"monto_aplicado"`
}

type PagoResponse struct {
	ID           string                   `json:"id"`
	UnidadID     string                   `json:"unidad_id"`
	Monto        decimal.Decimal          `json:"monto"`
	Metodo       string                   `json:"metodo"`
	FechaPago    string                   `json:"fecha_pago"`
	Periodo      string                   `json:"periodo"`
	Tipo         string                   `json:"tipo"`
	RefExterna   *string                  `json:"ref_externa,omitempty"`
	Nota         *string                  `json:"nota,omitempty"`
	Aplicaciones []PagoAplicacionResponse `json:"aplicaciones"`
	// SinAplicar is the overpayment remainder left on the payment itself.
	SinAplicar decimal.Decimal `json:"sin_aplicar"`
}
