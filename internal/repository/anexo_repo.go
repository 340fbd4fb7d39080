package repository

import (
	"context"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnexoRepository interface {
	// ListReglasVigentes returns annex rules active at the given date.
	ListReglasVigentes(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, fecha time.Time) ([]model.AnexoRegla, error)
	Create(ctx context.Context, regla *model.AnexoRegla) error
}

type anexoRepo struct{ db *gorm.DB }

func NewAnexoRepository(db *gorm.DB) AnexoRepository { return &anexoRepo{db: db} }

func (r *anexoRepo) ListReglasVigentes(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, fecha time.Time) ([]model.AnexoRegla, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var reglas []model.AnexoRegla
	err := db.WithContext(ctx).
		Where("condominio_id = ?", condominioID).
		Where("vigente_desde <= ?", fecha).
		Where("vigente_hasta IS NULL OR vigente_hasta >= ?", fecha).
		Find(&reglas).Error
	return reglas, err
}

func (r *anexoRepo) Create(ctx context.Context, regla *model.AnexoRegla) error {
	return r.db.WithContext(ctx).Create(regla).Error
}
