package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	DB() *gorm.DB

	Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	CreateAplicacion(ctx context.Context, tx *gorm.DB, a *model.PagoAplicacion) error
	ListByUnidad(ctx context.Context, unidadID uuid.UUID) ([]model.Pago, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *pagoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return r.conn(tx).WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).Preload("Aplicaciones").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pagoRepo) CreateAplicacion(ctx context.Context, tx *gorm.DB, a *model.PagoAplicacion) error {
	return r.conn(tx).WithContext(ctx).Create(a).Error
}

func (r *pagoRepo) ListByUnidad(ctx context.Context, unidadID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Preload("Aplicaciones").
		Where("unidad_id = ?", unidadID).
		Order("fecha_pago DESC").
		Find(&pagos).Error
	return pagos, err
}
