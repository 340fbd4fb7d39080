package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProrrateoService interface {
	// CalcularFactores recomputes and persists the per-unit factors of a rule.
	// Returns the number of factor rows written; 0 (no error, no writes) when
	// the condominium has no units. Idempotent: existing factors are purged
	// before the recomputation.
	CalcularFactores(ctx context.Context, reglaID uuid.UUID) (int, error)
	// CalcularFactoresTx is the in-transaction variant used by the cierre.
	CalcularFactoresTx(ctx context.Context, tx *gorm.DB, regla *model.ProrrateoRegla) (int, error)
	// ReglaGastoComunDefault resolves the condominium's ordinary rule, creating
	// the default GASTO_COMUN / coef_prop rule (with factors) when absent.
	ReglaGastoComunDefault(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID) (*model.ProrrateoRegla, error)
	// CrearRegla registers a rule under the common-expense concept and computes
	// its factors right away.
	CrearRegla(ctx context.Context, condominioID uuid.UUID, tipo, criterio string, vigenteDesde time.Time, descripcion *string) (*model.ProrrateoRegla, error)
	ListarFactores(ctx context.Context, reglaID uuid.UUID) ([]model.ProrrateoFactorUnidad, error)
}

type prorrateoService struct {
	repo       repository.ProrrateoRepository
	unidadRepo repository.UnidadRepository
}

func NewProrrateoService(repo repository.ProrrateoRepository, unidadRepo repository.UnidadRepository) ProrrateoService {
	return &prorrateoService{repo: repo, unidadRepo: unidadRepo}
}

// ── Criterios ─────────────────────────────────────────────────────────────────
// Each criterion is a strategy producing one factor per unit. Reserved criteria
// (por_m2, por_tipo, monto_fijo) produce no factors until a strategy exists.

type criterioProrrateo interface {
	Factores(unidades []model.Unidad) []decimal.Decimal
}

// criterioCoefProp copies each unit's stored ownership coefficient verbatim.
// No normalization: callers are responsible for coefficients summing to ~1.
type criterioCoefProp struct{}

func (criterioCoefProp) Factores(unidades []model.Unidad) []decimal.Decimal {
	factores := make([]decimal.Decimal, len(unidades))
	for i, u := range unidades {
		factores[i] = u.CoefProp
	}
	return factores
}

// criterioIgualitario assigns round(1/N, 6) to every unit equally.
type criterioIgualitario struct{}

func (criterioIgualitario) Factores(unidades []model.Unidad) []decimal.Decimal {
	n := len(unidades)
	if n == 0 {
		return nil
	}
	igual := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(n))).Round(6)
	factores := make([]decimal.Decimal, n)
	for i := range factores {
		factores[i] = igual
	}
	return factores
}

// criterioReservado covers the not-yet-supported criteria.
type criterioReservado struct{ codigo string }

func (c criterioReservado) Factores([]model.Unidad) []decimal.Decimal {
	log.Warn().Str("criterio", c.codigo).Msg("criterio de prorrateo aún no soportado — sin factores")
	return nil
}

func criterioPara(codigo string) criterioProrrateo {
	switch codigo {
	case model.CriterioCoefProp:
		return criterioCoefProp{}
	case model.CriterioIgualitario:
		return criterioIgualitario{}
	default:
		return criterioReservado{codigo: codigo}
	}
}

// ── CalcularFactores ──────────────────────────────────────────────────────────

func (s *prorrateoService) CalcularFactores(ctx context.Context, reglaID uuid.UUID) (int, error) {
	regla, err := s.repo.FindReglaByID(ctx, reglaID)
	if err != nil {
		return 0, fmt.Errorf("regla de prorrateo no encontrada: %w", err)
	}
	return s.CalcularFactoresTx(ctx, nil, regla)
}

func (s *prorrateoService) CalcularFactoresTx(ctx context.Context, tx *gorm.DB, regla *model.ProrrateoRegla) (int, error) {
	unidades, err := s.unidadRepo.ListByCondominio(ctx, regla.CondominioID)
	if err != nil {
		return 0, err
	}
	if len(unidades) == 0 {
		return 0, nil
	}

	// Purge before recompute so a rule or unit-set change never leaves stale rows.
	if err := s.repo.DeleteFactores(ctx, tx, regla.ID); err != nil {
		return 0, err
	}

	valores := criterioPara(regla.Criterio).Factores(unidades)
	if len(valores) == 0 {
		return 0, nil
	}

	filas := make([]model.ProrrateoFactorUnidad, len(unidades))
	for i, u := range unidades {
		filas[i] = model.ProrrateoFactorUnidad{
			ReglaID:  regla.ID,
			UnidadID: u.ID,
			Factor:   valores[i],
		}
	}
	if err := s.repo.BulkCreateFactores(ctx, tx, filas); err != nil {
		return 0, err
	}
	return len(filas), nil
}

// ── Regla por defecto ─────────────────────────────────────────────────────────

// fechaBaseReglaDefault is the arbitrary validity start of the auto-created rule.
var fechaBaseReglaDefault = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func (s *prorrateoService) ReglaGastoComunDefault(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID) (*model.ProrrateoRegla, error) {
	regla, err := s.repo.FindReglaOrdinaria(ctx, tx, condominioID)
	if err == nil {
		n, err := s.repo.CountFactores(ctx, tx, regla.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if _, err := s.CalcularFactoresTx(ctx, tx, regla); err != nil {
				return nil, err
			}
		}
		return regla, nil
	}
	// A transient failure must not masquerade as "no rule yet": nothing stops
	// a second ordinary rule from being created for the condominium.
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	concepto, err := s.repo.GetOrCreateConcepto(ctx, tx, model.ConceptoGastoComun, "Gasto Común")
	if err != nil {
		return nil, err
	}

	descr := "Regla base de Gasto Común por Coeficiente de Propiedad"
	regla = &model.ProrrateoRegla{
		CondominioID: condominioID,
		ConceptoID:   concepto.ID,
		Tipo:         model.ProrrateoOrdinario,
		Criterio:     model.CriterioCoefProp,
		VigenteDesde: fechaBaseReglaDefault,
		Descripcion:  &descr,
	}
	if err := s.repo.CreateRegla(ctx, tx, regla); err != nil {
		return nil, err
	}
	if _, err := s.CalcularFactoresTx(ctx, tx, regla); err != nil {
		return nil, err
	}
	return regla, nil
}

func (s *prorrateoService) CrearRegla(ctx context.Context, condominioID uuid.UUID, tipo, criterio string, vigenteDesde time.Time, descripcion *string) (*model.ProrrateoRegla, error) {
	concepto, err := s.repo.GetOrCreateConcepto(ctx, nil, model.ConceptoGastoComun, "Gasto Común")
	if err != nil {
		return nil, err
	}
	regla := &model.ProrrateoRegla{
		CondominioID: condominioID,
		ConceptoID:   concepto.ID,
		Tipo:         tipo,
		Criterio:     criterio,
		VigenteDesde: vigenteDesde,
		Descripcion:  descripcion,
	}
	if err := s.repo.CreateRegla(ctx, nil, regla); err != nil {
		return nil, err
	}
	if _, err := s.CalcularFactoresTx(ctx, nil, regla); err != nil {
		return nil, err
	}
	return regla, nil
}

func (s *prorrateoService) ListarFactores(ctx context.Context, reglaID uuid.UUID) ([]model.ProrrateoFactorUnidad, error) {
	return s.repo.ListFactores(ctx, nil, reglaID)
}
