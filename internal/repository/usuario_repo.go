package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	Create(ctx context.Context, u *model.Usuario) error
	Update(ctx context.Context, u *model.Usuario) error
	List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error)
	// ListAdministradores returns active administrators scoped to the
	// condominium (plus the unscoped ones).
	ListAdministradores(ctx context.Context, condominioID uuid.UUID) ([]model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("username = ? AND activo", username).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var usuarios []model.Usuario
	q := r.db.WithContext(ctx).Order("username")
	if !incluirInactivos {
		q = q.Where("activo")
	}
	err := q.Find(&usuarios).Error
	return usuarios, err
}

func (r *usuarioRepo) ListAdministradores(ctx context.Context, condominioID uuid.UUID) ([]model.Usuario, error) {
	var admins []model.Usuario
	err := r.db.WithContext(ctx).
		Where("rol = ? AND activo", "administrador").
		Where("condominio_id = ? OR condominio_id IS NULL", condominioID).
		Find(&admins).Error
	return admins, err
}
