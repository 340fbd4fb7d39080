package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CondominioRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Condominio, error)
	List(ctx context.Context) ([]model.Condominio, error)
	Create(ctx context.Context, c *model.Condominio) error
}

type condominioRepo struct{ db *gorm.DB }

func NewCondominioRepository(db *gorm.DB) CondominioRepository { return &condominioRepo{db: db} }

func (r *condominioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Condominio, error) {
	var c model.Condominio
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *condominioRepo) List(ctx context.Context) ([]model.Condominio, error) {
	var condos []model.Condominio
	err := r.db.WithContext(ctx).Order("nombre").Find(&condos).Error
	return condos, err
}

func (r *condominioRepo) Create(ctx context.Context, c *model.Condominio) error {
	return r.db.WithContext(ctx).Create(c).Error
}
