package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnexoService interface {
	// AplicarRecargosAnexo regenerates the per-unit annex surcharges of the
	// period. Idempotent via purge-and-recreate: every prior auto-generated
	// annex cargo (and its linked detail line) is deleted first, because no
	// natural key ties a generated cargo back to the rule that produced it
	// once rules can change between runs. Returns the number of surcharges
	// generated.
	AplicarRecargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, hoy time.Time) (int, error)
	// PurgarRecargosAnexo deletes the period's auto-generated annex cargos
	// and detail lines, and backs their amounts out of the charge headers.
	// The cierre calls it before resetting headers so units without a
	// proration factor do not accumulate the surcharge across re-runs.
	PurgarRecargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string) error
}

type anexoService struct {
	repo          repository.AnexoRepository
	unidadRepo    repository.UnidadRepository
	cobroRepo     repository.CobroRepository
	prorrateoRepo repository.ProrrateoRepository
	montoDefault  decimal.Decimal
}

func NewAnexoService(
	repo repository.AnexoRepository,
	unidadRepo repository.UnidadRepository,
	cobroRepo repository.CobroRepository,
	prorrateoRepo repository.ProrrateoRepository,
	montoDefault decimal.Decimal,
) AnexoService {
	return &anexoService{
		repo:          repo,
		unidadRepo:    unidadRepo,
		cobroRepo:     cobroRepo,
		prorrateoRepo: prorrateoRepo,
		montoDefault:  montoDefault,
	}
}

func (s *anexoService) AplicarRecargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, hoy time.Time) (int, error) {
	reglas, err := s.repo.ListReglasVigentes(ctx, tx, condominioID, hoy)
	if err != nil {
		return 0, err
	}
	if len(reglas) == 0 {
		return 0, nil
	}

	concepto, err := s.prorrateoRepo.GetOrCreateConcepto(ctx, tx, model.ConceptoAnexoExtra, "Recargo por Anexo")
	if err != nil {
		return 0, err
	}

	if err := s.purgarConConcepto(ctx, tx, condominioID, periodo, concepto.ID); err != nil {
		return 0, err
	}

	generados := 0
	for _, regla := range reglas {
		unidades, err := s.unidadRepo.ListAnexoCobrables(ctx, tx, condominioID, regla.SubtipoID)
		if err != nil {
			return 0, err
		}

		monto := s.montoDefault
		if regla.Monto != nil {
			monto = *regla.Monto
		}

		for _, u := range unidades {
			glosa := fmt.Sprintf("Recargo %s periodo %s", regla.AnexoTipo, periodo)
			cargo := &model.UnidadCargo{
				UnidadID:   u.ID,
				Periodo:    periodo,
				ConceptoID: concepto.ID,
				Tipo:       model.CargoExtra,
				Monto:      monto,
				Detalle:    &glosa,
			}
			if err := s.cobroRepo.CreateUnidadCargo(ctx, tx, cargo); err != nil {
				return 0, err
			}

			cobro, err := s.cobroRepo.FindOrCreate(ctx, tx, u.ID, periodo, "mensual")
			if err != nil {
				return 0, err
			}
			if cobro.FechaEmision.IsZero() {
				cobro.FechaEmision = hoy
			}

			det := &model.CobroDetalle{
				CobroID:       cobro.ID,
				TipoLinea:     model.LineaCargoIndividual,
				UnidadCargoID: &cargo.ID,
				Glosa:         glosa,
				Monto:         monto,
			}
			if err := s.cobroRepo.CreateDetalle(ctx, tx, det); err != nil {
				return 0, err
			}

			cobro.MontoCargos = cobro.MontoCargos.Add(monto)
			cobro.RecalcularSaldo()
			if err := s.cobroRepo.Save(ctx, tx, cobro); err != nil {
				return 0, err
			}
			generados++
		}
	}
	return generados, nil
}

func (s *anexoService) PurgarRecargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string) error {
	concepto, err := s.prorrateoRepo.GetOrCreateConcepto(ctx, tx, model.ConceptoAnexoExtra, "Recargo por Anexo")
	if err != nil {
		return err
	}
	return s.purgarConConcepto(ctx, tx, condominioID, periodo, concepto.ID)
}

// purgarConConcepto reverses each purged cargo out of its charge header
// before deleting the rows. Deleting rows alone is not enough: the header of
// a unit the cierre loop never resets would keep the old surcharge and add
// the new one on top.
func (s *anexoService) purgarConConcepto(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, conceptoID uuid.UUID) error {
	cargos, err := s.cobroRepo.ListCargosAnexo(ctx, tx, condominioID, periodo, conceptoID)
	if err != nil {
		return err
	}
	for _, cargo := range cargos {
		cobro, err := s.cobroRepo.FindOrCreate(ctx, tx, cargo.UnidadID, cargo.Periodo, "mensual")
		if err != nil {
			return err
		}
		cobro.MontoCargos = cobro.MontoCargos.Sub(cargo.Monto)
		cobro.RecalcularSaldo()
		if err := s.cobroRepo.Save(ctx, tx, cobro); err != nil {
			return err
		}
	}
	return s.cobroRepo.PurgeCargosAnexo(ctx, tx, condominioID, periodo, conceptoID)
}
