package repository

import (
	"context"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PersonaRepository interface {
	// FindDestinatarios resolves notification targets for a unit: current
	// residents first; when the unit has none, current owners.
	FindDestinatarios(ctx context.Context, unidadID uuid.UUID) ([]model.Persona, error)
	CreatePersona(ctx context.Context, p *model.Persona) error
	CreateOcupacion(ctx context.Context, o *model.Ocupacion) error
}

type personaRepo struct{ db *gorm.DB }

func NewPersonaRepository(db *gorm.DB) PersonaRepository { return &personaRepo{db: db} }

func (r *personaRepo) FindDestinatarios(ctx context.Context, unidadID uuid.UUID) ([]model.Persona, error) {
	residentes, err := r.ocupantesPorRol(ctx, unidadID, model.OcupacionResidente)
	if err != nil {
		return nil, err
	}
	if len(residentes) > 0 {
		return residentes, nil
	}
	return r.ocupantesPorRol(ctx, unidadID, model.OcupacionPropietario)
}

func (r *personaRepo) ocupantesPorRol(ctx context.Context, unidadID uuid.UUID, rol string) ([]model.Persona, error) {
	now := time.Now()
	var personas []model.Persona
	err := r.db.WithContext(ctx).
		Joins("JOIN ocupaciones ON ocupaciones.persona_id = personas.id").
		Where("ocupaciones.unidad_id = ? AND ocupaciones.rol = ?", unidadID, rol).
		Where("ocupaciones.vigente_desde <= ?", now).
		Where("ocupaciones.vigente_hasta IS NULL OR ocupaciones.vigente_hasta >= ?", now).
		Find(&personas).Error
	return personas, err
}

func (r *personaRepo) CreatePersona(ctx context.Context, p *model.Persona) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personaRepo) CreateOcupacion(ctx context.Context, o *model.Ocupacion) error {
	return r.db.WithContext(ctx).Create(o).Error
}
