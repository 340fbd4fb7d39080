package model

import (
	"time"

	"github.com/google/uuid"
)

// EntidadIDMasivo is the sentinel entity id used for bulk audit entries
// (ej: one entry summarizing a whole cierre batch).
const EntidadIDMasivo = "masivo"

// RegistroAuditoria is an append-only audit entry. Never updated or deleted.
// Writes are best-effort: a failure here must not abort the surrounding
// financial transaction.
type RegistroAuditoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Entidad   string    `gorm:"type:varchar(40);index;not null"`
	EntidadID string    `gorm:"type:varchar(40);index;not null"`
	Accion    string    `gorm:"type:varchar(20);not null"`
	Actor     *string
	Detalle   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (RegistroAuditoria) TableName() string { return "registros_auditoria" }
