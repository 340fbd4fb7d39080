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

var (
	ErrPagoMontoInvalido = errors.New("el monto del pago debe ser mayor a cero")
	ErrPagoNoEncontrado  = errors.New("pago no encontrado")
)

type PagoService interface {
	// RegistrarPago creates the payment and allocates it FIFO across the
	// unit's outstanding charges, oldest debt first. Any remainder beyond the
	// total outstanding stays unapplied on the payment itself.
	RegistrarPago(ctx context.Context, unidadID uuid.UUID, monto decimal.Decimal, metodo string, fecha time.Time, nota *string, actor *string) (*model.Pago, error)
	// RevertirPago creates a negative adjustment payment undoing every
	// application of the original. The original row is never mutated.
	RevertirPago(ctx context.Context, pagoID uuid.UUID, actor *string) (*model.Pago, error)
	ListarPorUnidad(ctx context.Context, unidadID uuid.UUID) ([]model.Pago, error)
}

type pagoService struct {
	repo           repository.PagoRepository
	cobroRepo      repository.CobroRepository
	personaRepo    repository.PersonaRepository
	auditoria      AuditoriaService
	notificaciones NotificacionService
}

func NewPagoService(
	repo repository.PagoRepository,
	cobroRepo repository.CobroRepository,
	personaRepo repository.PersonaRepository,
	auditoria AuditoriaService,
	notificaciones NotificacionService,
) PagoService {
	return &pagoService{
		repo:           repo,
		cobroRepo:      cobroRepo,
		personaRepo:    personaRepo,
		auditoria:      auditoria,
		notificaciones: notificaciones,
	}
}

func (s *pagoService) RegistrarPago(ctx context.Context, unidadID uuid.UUID, monto decimal.Decimal, metodo string, fecha time.Time, nota *string, actor *string) (*model.Pago, error) {
	if !monto.IsPositive() {
		return nil, ErrPagoMontoInvalido
	}

	pago := &model.Pago{
		UnidadID:  unidadID,
		Monto:     monto,
		Metodo:    metodo,
		FechaPago: fecha,
		Periodo:   PeriodoDeFecha(fecha),
		Tipo:      model.PagoNormal,
		Nota:      nota,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, pago); err != nil {
			return fmt.Errorf("pago: crear registro: %w", err)
		}

		// Asignación FIFO: deuda más antigua primero. El orden
		// (fecha_emision, id) ASC es contrato de corrección.
		pendientes, err := s.cobroRepo.ListPendientesFIFO(ctx, tx, unidadID)
		if err != nil {
			return err
		}

		restante := monto
		for i := range pendientes {
			if !restante.IsPositive() {
				break
			}
			cobro := &pendientes[i]

			aplicado := decimal.Min(restante, cobro.Saldo)
			cobro.MontoPagado = cobro.MontoPagado.Add(aplicado)
			cobro.RecalcularSaldo()
			if cobro.Saldo.IsZero() {
				cobro.Estado = model.CobroPagado
			}
			if err := s.cobroRepo.Save(ctx, tx, cobro); err != nil {
				return err
			}

			apl := &model.PagoAplicacion{
				PagoID:        pago.ID,
				CobroID:       cobro.ID,
				MontoAplicado: aplicado,
			}
			if err := s.repo.CreateAplicacion(ctx, tx, apl); err != nil {
				return err
			}
			pago.Aplicaciones = append(pago.Aplicaciones, *apl)

			restante = restante.Sub(aplicado)
		}

		if restante.IsPositive() {
			// Sobrepago: el excedente queda sin aplicar sobre el pago mismo.
			log.Warn().
				Str("pago_id", pago.ID.String()).
				Str("excedente", restante.StringFixed(0)).
				Msg("pago excede la deuda pendiente — excedente sin aplicar")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditoria.Registrar(ctx, "Pago", pago.ID.String(), "create", actor, map[string]interface{}{
		"unidad_id":    unidadID.String(),
		"monto":        monto.StringFixed(0),
		"aplicaciones": len(pago.Aplicaciones),
	})
	s.notificarPago(ctx, unidadID, monto)

	return pago, nil
}

func (s *pagoService) RevertirPago(ctx context.Context, pagoID uuid.UUID, actor *string) (*model.Pago, error) {
	original, err := s.repo.FindByID(ctx, pagoID)
	if err != nil {
		return nil, ErrPagoNoEncontrado
	}
	if original.Tipo == model.PagoAjuste {
		return nil, errors.New("no se puede revertir un pago de ajuste")
	}

	ref := original.ID.String()
	nota := fmt.Sprintf("Reverso del pago %s", ref)
	reverso := &model.Pago{
		UnidadID:   original.UnidadID,
		Monto:      original.Monto.Neg(),
		Metodo:     original.Metodo,
		FechaPago:  time.Now(),
		Periodo:    original.Periodo,
		Tipo:       model.PagoAjuste,
		RefExterna: &ref,
		Nota:       &nota,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, reverso); err != nil {
			return fmt.Errorf("pago: crear reverso: %w", err)
		}

		for _, apl := range original.Aplicaciones {
			cobro, err := s.cobroRepo.FindByIDTx(ctx, tx, apl.CobroID)
			if err != nil {
				return err
			}
			cobro.MontoPagado = cobro.MontoPagado.Sub(apl.MontoAplicado)
			cobro.RecalcularSaldo()
			if cobro.Saldo.IsPositive() {
				cobro.Estado = model.CobroPendiente
			}
			if err := s.cobroRepo.Save(ctx, tx, cobro); err != nil {
				return err
			}

			espejo := &model.PagoAplicacion{
				PagoID:        reverso.ID,
				CobroID:       apl.CobroID,
				MontoAplicado: apl.MontoAplicado.Neg(),
			}
			if err := s.repo.CreateAplicacion(ctx, tx, espejo); err != nil {
				return err
			}
			reverso.Aplicaciones = append(reverso.Aplicaciones, *espejo)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditoria.Registrar(ctx, "Pago", reverso.ID.String(), "reverse", actor, map[string]interface{}{
		"pago_original": original.ID.String(),
		"monto":         reverso.Monto.StringFixed(0),
	})

	log.Info().
		Str("pago_original", original.ID.String()).
		Str("reverso", reverso.ID.String()).
		Msg("pago revertido")
	return reverso, nil
}

func (s *pagoService) ListarPorUnidad(ctx context.Context, unidadID uuid.UUID) ([]model.Pago, error) {
	return s.repo.ListByUnidad(ctx, unidadID)
}

func (s *pagoService) notificarPago(ctx context.Context, unidadID uuid.UUID, monto decimal.Decimal) {
	destinatarios, err := s.personaRepo.FindDestinatarios(ctx, unidadID)
	if err != nil {
		log.Error().Err(err).Str("unidad_id", unidadID.String()).Msg("pago: fallo al resolver destinatarios")
		return
	}
	for _, p := range destinatarios {
		dest := p.Nombres + " " + p.Apellidos
		if p.Email != nil {
			dest = *p.Email
		}
		s.notificaciones.Enviar(ctx, dest,
			"Pago recibido",
			fmt.Sprintf("Se registró un pago de $%s para su unidad.", monto.StringFixed(0)))
	}
}
