package service

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"
	"github.com/GaboTNSINF/CondoGestion/internal/worker"

	"github.com/rs/zerolog/log"
)

type NotificacionService interface {
	// Enviar persists the notification and queues its delivery. Best-effort:
	// a persistence or queue failure is logged and swallowed so notification
	// problems never surface as errors on the financial operation that
	// triggered them.
	Enviar(ctx context.Context, destinatario, titulo, mensaje string)
}

type notificacionService struct {
	repo       repository.NotificacionRepository
	dispatcher *worker.Dispatcher
}

func NewNotificacionService(repo repository.NotificacionRepository, dispatcher *worker.Dispatcher) NotificacionService {
	return &notificacionService{repo: repo, dispatcher: dispatcher}
}

func (s *notificacionService) Enviar(ctx context.Context, destinatario, titulo, mensaje string) {
	n := &model.Notificacion{
		Destinatario: destinatario,
		Titulo:       titulo,
		Mensaje:      mensaje,
		Estado:       model.NotifPendiente,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("destinatario", destinatario).Msg("notificacion: fallo al persistir")
		return
	}

	if s.dispatcher == nil {
		return
	}
	payload := worker.NotificacionJobPayload{NotificacionID: n.ID.String()}
	if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
		log.Error().Err(err).Str("notificacion_id", n.ID.String()).Msg("notificacion: fallo al encolar — quedará para el retry cron")
	}
}
