package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FondoRepository interface {
	// GetOrCreateParam lazily creates the condominium's bylaw parameters with
	// the given default surcharge percentage on first access.
	GetOrCreateParam(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, defaultPct decimal.Decimal) (*model.ParamReglamento, error)
	// UpsertMovimiento writes-or-overwrites the movement keyed
	// (condominio, periodo, tipo).
	UpsertMovimiento(ctx context.Context, tx *gorm.DB, mov *model.FondoReservaMovimiento) error
	CountMovimientos(ctx context.Context, condominioID uuid.UUID, periodo string) (int64, error)
}

type fondoRepo struct{ db *gorm.DB }

func NewFondoRepository(db *gorm.DB) FondoRepository { return &fondoRepo{db: db} }

func (r *fondoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *fondoRepo) GetOrCreateParam(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, defaultPct decimal.Decimal) (*model.ParamReglamento, error) {
	var param model.ParamReglamento
	err := r.conn(tx).WithContext(ctx).
		Where(model.ParamReglamento{CondominioID: condominioID}).
		Attrs(model.ParamReglamento{RecargoFondoReservaPct: defaultPct}).
		FirstOrCreate(&param).Error
	return &param, err
}

func (r *fondoRepo) UpsertMovimiento(ctx context.Context, tx *gorm.DB, mov *model.FondoReservaMovimiento) error {
	db := r.conn(tx).WithContext(ctx)
	var existing model.FondoReservaMovimiento
	err := db.Where("condominio_id = ? AND periodo = ? AND tipo = ?",
		mov.CondominioID, mov.Periodo, mov.Tipo).
		First(&existing).Error
	if err == nil {
		existing.Monto = mov.Monto
		*mov = existing
		return db.Save(&existing).Error
	}
	return db.Create(mov).Error
}

func (r *fondoRepo) CountMovimientos(ctx context.Context, condominioID uuid.UUID, periodo string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FondoReservaMovimiento{}).
		Where("condominio_id = ? AND periodo = ?", condominioID, periodo).
		Count(&n).Error
	return n, err
}
