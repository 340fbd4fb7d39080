package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InteresService interface {
	// CalcularInteresMora computes arrears interest for the current charge from
	// the unit's prior unpaid balances, upserts the interes_mora detail line
	// and sets cobro.MontoInteres. The caller persists the header.
	//
	// The rule lookup uses hoy, not the billing period's nominal date: a
	// back-dated re-run can therefore compute different interest than a
	// same-day run. Known quirk, kept on purpose.
	CalcularInteresMora(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, unidad *model.Unidad, cobro *model.Cobro, periodoActual string, hoy time.Time) (decimal.Decimal, error)
}

type interesService struct {
	repo      repository.InteresRepository
	cobroRepo repository.CobroRepository
}

func NewInteresService(repo repository.InteresRepository, cobroRepo repository.CobroRepository) InteresService {
	return &interesService{repo: repo, cobroRepo: cobroRepo}
}

var doce = decimal.NewFromInt(12)

func (s *interesService) CalcularInteresMora(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, unidad *model.Unidad, cobro *model.Cobro, periodoActual string, hoy time.Time) (decimal.Decimal, error) {
	anteriores, err := s.cobroRepo.ListAnterioresConSaldo(ctx, tx, unidad.ID, periodoActual)
	if err != nil {
		return decimal.Zero, err
	}
	if len(anteriores) == 0 {
		return decimal.Zero, s.sinInteres(ctx, tx, cobro)
	}

	deudaTotal := decimal.Zero
	for _, c := range anteriores {
		deudaTotal = deudaTotal.Add(c.Saldo)
	}

	regla, err := s.repo.FindReglaVigente(ctx, tx, condominioID, unidad.SegmentoID, hoy)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// no active rule — no interest
		return decimal.Zero, s.sinInteres(ctx, tx, cobro)
	}
	if err != nil {
		return decimal.Zero, err
	}

	tasaMensual := regla.TasaAnualPct.Div(doce)
	interes := deudaTotal.Mul(tasaMensual).Div(cien).Round(0)

	det := &model.CobroDetalle{
		CobroID:   cobro.ID,
		TipoLinea: model.LineaInteresMora,
		Glosa:     fmt.Sprintf("Interés por mora sobre deuda de $%s", deudaTotal.StringFixed(0)),
		Monto:     interes,
	}
	if err := s.cobroRepo.UpsertDetalle(ctx, tx, det); err != nil {
		return decimal.Zero, err
	}

	cobro.MontoInteres = interes
	return interes, nil
}

// sinInteres zeroes the header field and drops any interes_mora line left by
// a previous run — a re-run after the old debt was settled must not keep the
// stale line, or the detail sum diverges from the header.
func (s *interesService) sinInteres(ctx context.Context, tx *gorm.DB, cobro *model.Cobro) error {
	cobro.MontoInteres = decimal.Zero
	return s.cobroRepo.DeleteDetalleTipo(ctx, tx, cobro.ID, model.LineaInteresMora)
}
