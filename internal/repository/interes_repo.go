package repository

import (
	"context"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteresRepository interface {
	// FindReglaVigente resolves the interest rule active for (condominio,
	// segmento) at the given date. Segment-specific rules win over the
	// condominium-wide (segmento NULL) fallback.
	FindReglaVigente(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, segmentoID *uuid.UUID, fecha time.Time) (*model.InteresRegla, error)
	Create(ctx context.Context, regla *model.InteresRegla) error
}

type interesRepo struct{ db *gorm.DB }

func NewInteresRepository(db *gorm.DB) InteresRepository { return &interesRepo{db: db} }

func (r *interesRepo) FindReglaVigente(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, segmentoID *uuid.UUID, fecha time.Time) (*model.InteresRegla, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	q := db.WithContext(ctx).
		Where("condominio_id = ?", condominioID).
		Where("vigente_desde <= ?", fecha).
		Where("vigente_hasta IS NULL OR vigente_hasta >= ?", fecha)
	if segmentoID != nil {
		q = q.Where("segmento_id = ? OR segmento_id IS NULL", *segmentoID).
			Order("segmento_id NULLS LAST")
	} else {
		q = q.Where("segmento_id IS NULL")
	}
	var regla model.InteresRegla
	if err := q.Order("vigente_desde DESC").First(&regla).Error; err != nil {
		return nil, err
	}
	return &regla, nil
}

func (r *interesRepo) Create(ctx context.Context, regla *model.InteresRegla) error {
	return r.db.WithContext(ctx).Create(regla).Error
}
