package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"gorm.io/gorm"
)

type AuditoriaRepository interface {
	Create(ctx context.Context, entry *model.RegistroAuditoria) error
	List(ctx context.Context, entidad string, limit int) ([]model.RegistroAuditoria, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) Create(ctx context.Context, entry *model.RegistroAuditoria) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditoriaRepo) List(ctx context.Context, entidad string, limit int) ([]model.RegistroAuditoria, error) {
	if limit < 1 {
		limit = 100
	}
	var entries []model.RegistroAuditoria
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if entidad != "" {
		q = q.Where("entidad = ?", entidad)
	}
	err := q.Find(&entries).Error
	return entries, err
}
