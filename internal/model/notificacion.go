package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de una notificación.
const (
	NotifPendiente = "pendiente"
	NotifEnviada   = "enviada"
	NotifError     = "error"
)

// Notificacion is a fire-and-forget record created as a side effect of cierre
// and payment events. Email delivery happens asynchronously in the worker pool;
// failed deliveries are retried by the retry cron.
type Notificacion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Destinatario string    `gorm:"not null"`
	Titulo       string    `gorm:"not null"`
	Mensaje      string    `gorm:"type:text;not null"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// Retry fields — used by retry_cron to re-attempt failed deliveries
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Notificacion) TableName() string { return "notificaciones" }
