package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProrrateoRepository interface {
	FindReglaByID(ctx context.Context, id uuid.UUID) (*model.ProrrateoRegla, error)
	// FindReglaOrdinaria returns the current ordinary rule of a condominium.
	FindReglaOrdinaria(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID) (*model.ProrrateoRegla, error)
	CreateRegla(ctx context.Context, tx *gorm.DB, regla *model.ProrrateoRegla) error
	GetOrCreateConcepto(ctx context.Context, tx *gorm.DB, codigo, nombre string) (*model.CatConceptoCargo, error)

	DeleteFactores(ctx context.Context, tx *gorm.DB, reglaID uuid.UUID) error
	BulkCreateFactores(ctx context.Context, tx *gorm.DB, factores []model.ProrrateoFactorUnidad) error
	ListFactores(ctx context.Context, tx *gorm.DB, reglaID uuid.UUID) ([]model.ProrrateoFactorUnidad, error)
	CountFactores(ctx context.Context, tx *gorm.DB, reglaID uuid.UUID) (int64, error)
}

type prorrateoRepo struct{ db *gorm.DB }

func NewProrrateoRepository(db *gorm.DB) ProrrateoRepository { return &prorrateoRepo{db: db} }

func (r *prorrateoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *prorrateoRepo) FindReglaByID(ctx context.Context, id uuid.UUID) (*model.ProrrateoRegla, error) {
	var regla model.ProrrateoRegla
	err := r.db.WithContext(ctx).Preload("Concepto").First(&regla, "id = ?", id).Error
	return &regla, err
}

func (r *prorrateoRepo) FindReglaOrdinaria(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID) (*model.ProrrateoRegla, error) {
	var regla model.ProrrateoRegla
	err := r.conn(tx).WithContext(ctx).
		Where("condominio_id = ? AND tipo = ?", condominioID, model.ProrrateoOrdinario).
		Order("vigente_desde DESC").
		First(&regla).Error
	if err != nil {
		return nil, err
	}
	return &regla, nil
}

func (r *prorrateoRepo) CreateRegla(ctx context.Context, tx *gorm.DB, regla *model.ProrrateoRegla) error {
	return r.conn(tx).WithContext(ctx).Create(regla).Error
}

func (r *prorrateoRepo) GetOrCreateConcepto(ctx context.Context, tx *gorm.DB, codigo, nombre string) (*model.CatConceptoCargo, error) {
	var concepto model.CatConceptoCargo
	err := r.conn(tx).WithContext(ctx).
		Where(model.CatConceptoCargo{Codigo: codigo}).
		Attrs(model.CatConceptoCargo{Nombre: nombre}).
		FirstOrCreate(&concepto).Error
	return &concepto, err
}

func (r *prorrateoRepo) DeleteFactores(ctx context.Context, tx *gorm.DB, reglaID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("regla_id = ?", reglaID).
		Delete(&model.ProrrateoFactorUnidad{}).Error
}

func (r *prorrateoRepo) BulkCreateFactores(ctx context.Context, tx *gorm.DB, factores []model.ProrrateoFactorUnidad) error {
	if len(factores) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).Create(&factores).Error
}

func (r *prorrateoRepo) ListFactores(ctx context.Context, tx *gorm.DB, reglaID uuid.UUID) ([]model.ProrrateoFactorUnidad, error) {
	var factores []model.ProrrateoFactorUnidad
	err := r.conn(tx).WithContext(ctx).
		Where("regla_id = ?", reglaID).
		Find(&factores).Error
	return factores, err
}

func (r *prorrateoRepo) CountFactores(ctx context.Context, tx *gorm.DB, reglaID uuid.UUID) (int64, error) {
	var n int64
	err := r.conn(tx).WithContext(ctx).Model(&model.ProrrateoFactorUnidad{}).
		Where("regla_id = ?", reglaID).
		Count(&n).Error
	return n, err
}
