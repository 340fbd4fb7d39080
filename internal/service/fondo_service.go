package service

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FondoService interface {
	// AplicarFondoReserva computes the reserve-fund surcharge over the period's
	// total expenses and upserts the corresponding movement. Returns zero (no
	// write) when the configured percentage is not positive.
	AplicarFondoReserva(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, totalGastos decimal.Decimal, periodo string) (decimal.Decimal, error)
}

type fondoService struct {
	repo       repository.FondoRepository
	defaultPct decimal.Decimal
}

func NewFondoService(repo repository.FondoRepository, defaultPct decimal.Decimal) FondoService {
	return &fondoService{repo: repo, defaultPct: defaultPct}
}

var cien = decimal.NewFromInt(100)

func (s *fondoService) AplicarFondoReserva(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, totalGastos decimal.Decimal, periodo string) (decimal.Decimal, error) {
	param, err := s.repo.GetOrCreateParam(ctx, tx, condominioID, s.defaultPct)
	if err != nil {
		return decimal.Zero, err
	}
	if !param.RecargoFondoReservaPct.IsPositive() {
		return decimal.Zero, nil
	}

	// Round to whole currency unit.
	recargo := totalGastos.Mul(param.RecargoFondoReservaPct).Div(cien).Round(0)

	mov := &model.FondoReservaMovimiento{
		CondominioID: condominioID,
		Periodo:      periodo,
		Tipo:         model.FondoMovAbono,
		Monto:        recargo,
	}
	if err := s.repo.UpsertMovimiento(ctx, tx, mov); err != nil {
		return decimal.Zero, err
	}
	return recargo, nil
}
