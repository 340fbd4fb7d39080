package worker

// notificacion_worker.go
// Processes notification-delivery jobs from QueueNotificacion: loads the
// Notificacion row and emails it to the recipient via SMTP. Delivery is
// best-effort; failures schedule a retry (exponential backoff) and, past
// maxEntregaIntentos, land in the DLQ.

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/infra"
	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEntregaIntentos = 5

// NotificacionJobPayload is the job envelope sent to QueueNotificacion.
type NotificacionJobPayload struct {
	NotificacionID string `json:"notificacion_id"`
}

type NotificacionWorker struct {
	repo   repository.NotificacionRepository
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewNotificacionWorker(repo repository.NotificacionRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *NotificacionWorker {
	return &NotificacionWorker{repo: repo, mailer: mailer, cb: cb, rdb: rdb}
}

// Process delivers one notification by email.
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.NotificacionID)
	if err != nil {
		log.Error().Str("id", payload.NotificacionID).Msg("notificacion_worker: invalid notificacion_id")
		return
	}

	notif, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id.String()).Msg("notificacion_worker: notificacion not found")
		return
	}
	if notif.Estado == model.NotifEnviada {
		return
	}

	// Recipients without an email address stay as in-app records only.
	if !strings.Contains(notif.Destinatario, "@") {
		notif.Estado = model.NotifEnviada
		_ = w.repo.Update(ctx, notif)
		return
	}

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendNotificacion(notif.Destinatario, notif.Titulo, notif.Mensaje)
	})
	if sendErr == nil {
		notif.Estado = model.NotifEnviada
		notif.NextRetryAt = nil
		notif.LastError = nil
		if err := w.repo.Update(ctx, notif); err != nil {
			log.Error().Err(err).Msg("notificacion_worker: failed to mark as sent")
		}
		log.Info().Str("to", notif.Destinatario).Msg("notificacion_worker: enviada")
		return
	}

	notif.Estado = model.NotifError
	notif.RetryCount++
	msg := sendErr.Error()
	notif.LastError = &msg

	if notif.RetryCount >= maxEntregaIntentos {
		notif.NextRetryAt = nil
		SendToDLQ(ctx, w.rdb, QueueNotificacion, "notificacion", raw, msg, notif.RetryCount)
	} else {
		// backoff: 1m, 2m, 4m, 8m…
		next := time.Now().Add(time.Minute << (notif.RetryCount - 1))
		notif.NextRetryAt = &next
	}

	if err := w.repo.Update(ctx, notif); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: failed to record delivery failure")
	}
	log.Error().Err(sendErr).Str("to", notif.Destinatario).Int("attempt", notif.RetryCount).
		Msg("notificacion_worker: fallo de entrega")
}
