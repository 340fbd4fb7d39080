package service

import (
	"context"
	"encoding/json"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/rs/zerolog/log"
)

type AuditoriaService interface {
	// Registrar appends an audit entry. Best-effort: failures are logged and
	// swallowed so they never roll back the surrounding financial transaction.
	Registrar(ctx context.Context, entidad, entidadID, accion string, actor *string, detalle map[string]interface{})
}

type auditoriaService struct {
	repo repository.AuditoriaRepository
}

func NewAuditoriaService(repo repository.AuditoriaRepository) AuditoriaService {
	return &auditoriaService{repo: repo}
}

func (s *auditoriaService) Registrar(ctx context.Context, entidad, entidadID, accion string, actor *string, detalle map[string]interface{}) {
	raw, err := json.Marshal(detalle)
	if err != nil {
		log.Error().Err(err).Str("entidad", entidad).Msg("auditoria: detalle no serializable")
		raw = []byte("{}")
	}

	entry := &model.RegistroAuditoria{
		Entidad:   entidad,
		EntidadID: entidadID,
		Accion:    accion,
		Actor:     actor,
		Detalle:   string(raw),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("entidad", entidad).
			Str("accion", accion).
			Msg("auditoria: fallo al registrar — se continúa sin abortar")
	}
}
