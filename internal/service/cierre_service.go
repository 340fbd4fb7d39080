package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrCierreSinCobros signals that a settlement run produced zero charges.
// A silent no-op cierre is a defect, not a valid outcome, so the whole
// transaction rolls back and nothing is persisted.
var ErrCierreSinCobros = errors.New("no se generó ningún cobro: el condominio no tiene unidades registradas")

type CierreService interface {
	// GenerarCierreMensual runs the monthly close for (condominio, periodo):
	// sums the period's expenses, applies the reserve-fund surcharge, prorates
	// the total across units via the ordinary rule, computes arrears interest
	// per unit and regenerates annex surcharges. All of it in one transaction;
	// re-runs for the same period upsert rather than duplicate. Returns the
	// resulting charges.
	GenerarCierreMensual(ctx context.Context, condominioID uuid.UUID, periodo string, actor *string) ([]model.Cobro, error)
	// ListarCierre returns the charges of an already-generated settlement.
	ListarCierre(ctx context.Context, condominioID uuid.UUID, periodo string) ([]model.Cobro, error)
	// PeriodoSugerido proposes the next period to close: last closed + 1 month,
	// or the current calendar month when nothing was closed yet.
	PeriodoSugerido(ctx context.Context, condominioID uuid.UUID) (string, error)
}

type cierreService struct {
	cobroRepo      repository.CobroRepository
	gastoRepo      repository.GastoRepository
	unidadRepo     repository.UnidadRepository
	prorrateoRepo  repository.ProrrateoRepository
	usuarioRepo    repository.UsuarioRepository
	personaRepo    repository.PersonaRepository
	prorrateo      ProrrateoService
	fondo          FondoService
	interes        InteresService
	anexo          AnexoService
	auditoria      AuditoriaService
	notificaciones NotificacionService
	rdb            *redis.Client
}

func NewCierreService(
	cobroRepo repository.CobroRepository,
	gastoRepo repository.GastoRepository,
	unidadRepo repository.UnidadRepository,
	prorrateoRepo repository.ProrrateoRepository,
	usuarioRepo repository.UsuarioRepository,
	personaRepo repository.PersonaRepository,
	prorrateo ProrrateoService,
	fondo FondoService,
	interes InteresService,
	anexo AnexoService,
	auditoria AuditoriaService,
	notificaciones NotificacionService,
	rdb *redis.Client,
) CierreService {
	return &cierreService{
		cobroRepo:      cobroRepo,
		gastoRepo:      gastoRepo,
		unidadRepo:     unidadRepo,
		prorrateoRepo:  prorrateoRepo,
		usuarioRepo:    usuarioRepo,
		personaRepo:    personaRepo,
		prorrateo:      prorrateo,
		fondo:          fondo,
		interes:        interes,
		anexo:          anexo,
		auditoria:      auditoria,
		notificaciones: notificaciones,
		rdb:            rdb,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *cierreService) GenerarCierreMensual(ctx context.Context, condominioID uuid.UUID, periodo string, actor *string) ([]model.Cobro, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return nil, err
	}
	hoy := time.Now()

	var cobros []model.Cobro
	txErr := runTx(ctx, s.cobroRepo.DB(), func(tx *gorm.DB) error {
		// 0. Deshacer los recargos de anexo de un cierre previo antes de
		// resetear encabezados: las unidades sin factor no pasan por el loop
		// de abajo y acumularían el recargo en cada re-ejecución.
		if err := s.anexo.PurgarRecargosAnexo(ctx, tx, condominioID, periodo); err != nil {
			return fmt.Errorf("cierre: purga de recargos de anexo: %w", err)
		}

		// 1. Total de gastos del periodo (0 si no hay).
		totalGastos, err := s.gastoRepo.SumByPeriodo(ctx, tx, condominioID, periodo)
		if err != nil {
			return fmt.Errorf("cierre: sumar gastos: %w", err)
		}

		// 2–3. Recargo de fondo de reserva sobre el total.
		recargoFondo, err := s.fondo.AplicarFondoReserva(ctx, tx, condominioID, totalGastos, periodo)
		if err != nil {
			return fmt.Errorf("cierre: fondo de reserva: %w", err)
		}
		totalProrratear := totalGastos.Add(recargoFondo)

		// 4. Regla ordinaria (se crea la de defecto si falta, con sus factores).
		regla, err := s.prorrateo.ReglaGastoComunDefault(ctx, tx, condominioID)
		if err != nil {
			return fmt.Errorf("cierre: regla de prorrateo: %w", err)
		}

		factores, err := s.prorrateoRepo.ListFactores(ctx, tx, regla.ID)
		if err != nil {
			return err
		}
		unidades, err := s.unidadRepo.ListByCondominio(ctx, condominioID)
		if err != nil {
			return err
		}
		unidadPorID := make(map[uuid.UUID]*model.Unidad, len(unidades))
		for i := range unidades {
			unidadPorID[unidades[i].ID] = &unidades[i]
		}

		// 5–7. Un cobro por (unidad, factor).
		for _, f := range factores {
			unidad, ok := unidadPorID[f.UnidadID]
			if !ok {
				// factor for a unit removed since the factors were computed
				continue
			}

			montoUnidad := totalProrratear.Mul(f.Factor).Round(0)

			cobro, err := s.cobroRepo.FindOrCreate(ctx, tx, unidad.ID, periodo, "mensual")
			if err != nil {
				return err
			}
			if cobro.FechaEmision.IsZero() {
				cobro.FechaEmision = hoy
			}
			cobro.Estado = model.CobroPendiente
			cobro.MontoCargos = montoUnidad
			cobro.MontoInteres = decimal.Zero

			cargo := &model.UnidadCargo{
				UnidadID:   unidad.ID,
				Periodo:    periodo,
				ConceptoID: regla.ConceptoID,
				Tipo:       model.CargoOrdinario,
				Monto:      montoUnidad,
			}
			if err := s.cobroRepo.UpsertUnidadCargo(ctx, tx, cargo); err != nil {
				return err
			}

			det := &model.CobroDetalle{
				CobroID:       cobro.ID,
				TipoLinea:     model.LineaCargoComun,
				UnidadCargoID: &cargo.ID,
				Glosa:         fmt.Sprintf("Gasto común periodo %s", periodo),
				Monto:         montoUnidad,
			}
			if err := s.cobroRepo.UpsertDetalle(ctx, tx, det); err != nil {
				return err
			}

			if _, err := s.interes.CalcularInteresMora(ctx, tx, condominioID, unidad, cobro, periodo, hoy); err != nil {
				return fmt.Errorf("cierre: interés unidad %s: %w", unidad.Codigo, err)
			}

			cobro.RecalcularSaldo()
			if err := s.cobroRepo.Save(ctx, tx, cobro); err != nil {
				return err
			}
			cobros = append(cobros, *cobro)
		}

		// 8. Recargos de anexo para todo el condominio.
		if _, err := s.anexo.AplicarRecargosAnexo(ctx, tx, condominioID, periodo, hoy); err != nil {
			return fmt.Errorf("cierre: recargos de anexo: %w", err)
		}

		// 9. Invariante: un cierre vacío aborta la transacción completa.
		if len(cobros) == 0 {
			return ErrCierreSinCobros
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Reload headers: annex surcharges mutated totals after the per-unit loop.
	finales, err := s.cobroRepo.ListByCondominioPeriodo(ctx, condominioID, periodo)
	if err != nil {
		log.Error().Err(err).Str("periodo", periodo).Msg("cierre: fallo al recargar cobros generados")
		finales = cobros
	}

	// 10. Auditoría del lote (best-effort, fuera de la transacción).
	s.auditoria.Registrar(ctx, "Cobro", model.EntidadIDMasivo, "create", actor, map[string]interface{}{
		"periodo": periodo,
		"count":   len(finales),
	})

	// 11. Notificaciones: administradores + residentes/propietarios por unidad.
	s.notificarCierre(ctx, condominioID, periodo, finales)

	s.cacheUltimoPeriodo(ctx, condominioID, periodo)

	log.Info().
		Str("condominio_id", condominioID.String()).
		Str("periodo", periodo).
		Int("cobros", len(finales)).
		Msg("cierre mensual generado")
	return finales, nil
}

func (s *cierreService) ListarCierre(ctx context.Context, condominioID uuid.UUID, periodo string) ([]model.Cobro, error) {
	if err := ValidarPeriodo(periodo); err != nil {
		return nil, err
	}
	return s.cobroRepo.ListByCondominioPeriodo(ctx, condominioID, periodo)
}

func (s *cierreService) notificarCierre(ctx context.Context, condominioID uuid.UUID, periodo string, cobros []model.Cobro) {
	admins, err := s.usuarioRepo.ListAdministradores(ctx, condominioID)
	if err != nil {
		log.Error().Err(err).Msg("cierre: fallo al resolver administradores")
	}
	for _, admin := range admins {
		dest := admin.Username
		if admin.Email != nil {
			dest = *admin.Email
		}
		s.notificaciones.Enviar(ctx, dest,
			fmt.Sprintf("Cierre %s generado", periodo),
			fmt.Sprintf("Se generó el cierre del periodo %s con %d unidades.", periodo, len(cobros)))
	}

	for _, cobro := range cobros {
		destinatarios, err := s.personaRepo.FindDestinatarios(ctx, cobro.UnidadID)
		if err != nil {
			log.Error().Err(err).Str("unidad_id", cobro.UnidadID.String()).Msg("cierre: fallo al resolver destinatarios")
			continue
		}
		codigo := cobro.UnidadID.String()
		if cobro.Unidad != nil {
			codigo = cobro.Unidad.Codigo
		}
		for _, p := range destinatarios {
			dest := p.Nombres + " " + p.Apellidos
			if p.Email != nil {
				dest = *p.Email
			}
			s.notificaciones.Enviar(ctx, dest,
				fmt.Sprintf("Gasto común %s — unidad %s", periodo, codigo),
				fmt.Sprintf("Su gasto común del periodo %s fue emitido. Saldo: $%s.", periodo, cobro.Saldo.StringFixed(0)))
		}
	}
}

// ── Periodo sugerido ──────────────────────────────────────────────────────────
// The last closed period is cached in Redis so the UI suggestion survives
// restarts without a dedicated table. Cache misses fall back to the calendar.

func cierreCacheKey(condominioID uuid.UUID) string {
	return "cierre:ultimo_periodo:" + condominioID.String()
}

func (s *cierreService) cacheUltimoPeriodo(ctx context.Context, condominioID uuid.UUID, periodo string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, cierreCacheKey(condominioID), periodo, 0).Err(); err != nil {
		log.Error().Err(err).Str("periodo", periodo).Msg("cierre: fallo al cachear último periodo")
	}
}

func (s *cierreService) PeriodoSugerido(ctx context.Context, condominioID uuid.UUID) (string, error) {
	ultimo := ""
	if s.rdb != nil {
		if v, err := s.rdb.Get(ctx, cierreCacheKey(condominioID)).Result(); err == nil {
			ultimo = v
		}
	}
	return SiguientePeriodo(ultimo, time.Now())
}
