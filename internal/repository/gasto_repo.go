package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	List(ctx context.Context, condominioID uuid.UUID, periodo string) ([]model.Gasto, error)
	// SumByPeriodo totals all expenses of (condominio, periodo). Zero when none.
	SumByPeriodo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string) (decimal.Decimal, error)
	GetOrCreateCategoria(ctx context.Context, nombre string) (*model.GastoCategoria, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) List(ctx context.Context, condominioID uuid.UUID, periodo string) ([]model.Gasto, error) {
	var gastos []model.Gasto
	q := r.db.WithContext(ctx).
		Preload("Categoria").Preload("Proveedor").
		Where("condominio_id = ?", condominioID)
	if periodo != "" {
		q = q.Where("periodo = ?", periodo)
	}
	err := q.Order("fecha_emision DESC").Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) SumByPeriodo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string) (decimal.Decimal, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Model(&model.Gasto{}).
		Select("SUM(total)").
		Where("condominio_id = ? AND periodo = ?", condominioID, periodo).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *gastoRepo) GetOrCreateCategoria(ctx context.Context, nombre string) (*model.GastoCategoria, error) {
	var cat model.GastoCategoria
	err := r.db.WithContext(ctx).
		Where(model.GastoCategoria{Nombre: nombre}).
		FirstOrCreate(&cat).Error
	return &cat, err
}
