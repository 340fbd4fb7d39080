package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnidadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Unidad, error)
	// ListByCondominio returns all active units of a condominium (via grupo).
	ListByCondominio(ctx context.Context, condominioID uuid.UUID) ([]model.Unidad, error)
	// ListAnexoCobrables returns annex-billable units, optionally filtered by subtype.
	ListAnexoCobrables(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, subtipoID *uuid.UUID) ([]model.Unidad, error)
	Create(ctx context.Context, u *model.Unidad) error
}

type unidadRepo struct{ db *gorm.DB }

func NewUnidadRepository(db *gorm.DB) UnidadRepository { return &unidadRepo{db: db} }

func (r *unidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Unidad, error) {
	var u model.Unidad
	err := r.db.WithContext(ctx).Preload("Grupo").First(&u, "id = ?", id).Error
	return &u, err
}

func (r *unidadRepo) ListByCondominio(ctx context.Context, condominioID uuid.UUID) ([]model.Unidad, error) {
	var unidades []model.Unidad
	err := r.db.WithContext(ctx).
		Joins("JOIN grupos ON grupos.id = unidades.grupo_id").
		Where("grupos.condominio_id = ? AND unidades.activa", condominioID).
		Find(&unidades).Error
	return unidades, err
}

func (r *unidadRepo) ListAnexoCobrables(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, subtipoID *uuid.UUID) ([]model.Unidad, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	q := db.WithContext(ctx).
		Joins("JOIN grupos ON grupos.id = unidades.grupo_id").
		Where("grupos.condominio_id = ? AND unidades.activa AND unidades.anexo_cobrable", condominioID)
	if subtipoID != nil {
		q = q.Where("unidades.id_viv_subtipo = ?", *subtipoID)
	}
	var unidades []model.Unidad
	err := q.Find(&unidades).Error
	return unidades, err
}

func (r *unidadRepo) Create(ctx context.Context, u *model.Unidad) error {
	return r.db.WithContext(ctx).Create(u).Error
}
