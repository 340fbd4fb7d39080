package repository

import (
	"context"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CobroRepository interface {
	DB() *gorm.DB // exposes the DB for transaction creation in service layer

	// FindOrCreate loads the cobro keyed (unidad, periodo, tipo) or initializes
	// a fresh pending one inside the transaction.
	FindOrCreate(ctx context.Context, tx *gorm.DB, unidadID uuid.UUID, periodo, tipo string) (*model.Cobro, error)
	Save(ctx context.Context, tx *gorm.DB, cobro *model.Cobro) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cobro, error)
	// FindByIDTx reads the bare header inside the given transaction.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cobro, error)
	// ListPendientesFIFO returns the unit's outstanding charges (saldo > 0)
	// ordered ascending by (fecha_emision, id). The order is a correctness
	// contract for FIFO payment allocation, not an incidental one.
	ListPendientesFIFO(ctx context.Context, tx *gorm.DB, unidadID uuid.UUID) ([]model.Cobro, error)
	// ListAnterioresConSaldo returns prior-period charges with positive balance.
	ListAnterioresConSaldo(ctx context.Context, tx *gorm.DB, unidadID uuid.UUID, periodo string) ([]model.Cobro, error)
	ListByCondominioPeriodo(ctx context.Context, condominioID uuid.UUID, periodo string) ([]model.Cobro, error)
	ListByUnidad(ctx context.Context, unidadID uuid.UUID) ([]model.Cobro, error)

	// UpsertDetalle writes-or-overwrites a detail line keyed by
	// (cobro, tipo_linea) or (cobro, tipo_linea, unidad_cargo).
	UpsertDetalle(ctx context.Context, tx *gorm.DB, det *model.CobroDetalle) error
	CreateDetalle(ctx context.Context, tx *gorm.DB, det *model.CobroDetalle) error
	// DeleteDetalleTipo removes the cobro's detail lines of the given type.
	DeleteDetalleTipo(ctx context.Context, tx *gorm.DB, cobroID uuid.UUID, tipoLinea string) error
	CountDetalles(ctx context.Context, cobroID uuid.UUID) (int64, error)

	UpsertUnidadCargo(ctx context.Context, tx *gorm.DB, cargo *model.UnidadCargo) error
	CreateUnidadCargo(ctx context.Context, tx *gorm.DB, cargo *model.UnidadCargo) error
	// ListCargosAnexo returns the auto-generated annex UnidadCargos of the
	// period, so callers can back their amounts out of the charge headers
	// before purging.
	ListCargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, conceptoID uuid.UUID) ([]model.UnidadCargo, error)
	// PurgeCargosAnexo deletes all auto-generated annex UnidadCargos of the
	// period and their linked detail lines.
	PurgeCargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, conceptoID uuid.UUID) error
}

type cobroRepo struct{ db *gorm.DB }

func NewCobroRepository(db *gorm.DB) CobroRepository { return &cobroRepo{db: db} }

func (r *cobroRepo) DB() *gorm.DB { return r.db }

func (r *cobroRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *cobroRepo) FindOrCreate(ctx context.Context, tx *gorm.DB, unidadID uuid.UUID, periodo, tipo string) (*model.Cobro, error) {
	var cobro model.Cobro
	err := r.conn(tx).WithContext(ctx).
		Where(model.Cobro{UnidadID: unidadID, Periodo: periodo, Tipo: tipo}).
		FirstOrCreate(&cobro).Error
	return &cobro, err
}

func (r *cobroRepo) Save(ctx context.Context, tx *gorm.DB, cobro *model.Cobro) error {
	return r.conn(tx).WithContext(ctx).Save(cobro).Error
}

func (r *cobroRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cobro, error) {
	var cobro model.Cobro
	err := r.db.WithContext(ctx).Preload("Detalles").Preload("Unidad").First(&cobro, "id = ?", id).Error
	return &cobro, err
}

func (r *cobroRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Cobro, error) {
	var cobro model.Cobro
	err := r.conn(tx).WithContext(ctx).First(&cobro, "id = ?", id).Error
	return &cobro, err
}

func (r *cobroRepo) ListPendientesFIFO(ctx context.Context, tx *gorm.DB, unidadID uuid.UUID) ([]model.Cobro, error) {
	var cobros []model.Cobro
	err := r.conn(tx).WithContext(ctx).
		Where("unidad_id = ? AND saldo > 0", unidadID).
		Order("fecha_emision ASC, id ASC").
		Find(&cobros).Error
	return cobros, err
}

func (r *cobroRepo) ListAnterioresConSaldo(ctx context.Context, tx *gorm.DB, unidadID uuid.UUID, periodo string) ([]model.Cobro, error) {
	var cobros []model.Cobro
	err := r.conn(tx).WithContext(ctx).
		Where("unidad_id = ? AND periodo < ? AND saldo > 0", unidadID, periodo).
		Find(&cobros).Error
	return cobros, err
}

func (r *cobroRepo) ListByCondominioPeriodo(ctx context.Context, condominioID uuid.UUID, periodo string) ([]model.Cobro, error) {
	var cobros []model.Cobro
	err := r.db.WithContext(ctx).
		Preload("Unidad").Preload("Detalles").
		Joins("JOIN unidades ON unidades.id = cobros.unidad_id").
		Joins("JOIN grupos ON grupos.id = unidades.grupo_id").
		Where("grupos.condominio_id = ? AND cobros.periodo = ?", condominioID, periodo).
		Order("unidades.codigo").
		Find(&cobros).Error
	return cobros, err
}

func (r *cobroRepo) ListByUnidad(ctx context.Context, unidadID uuid.UUID) ([]model.Cobro, error) {
	var cobros []model.Cobro
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("unidad_id = ?", unidadID).
		Order("periodo DESC").
		Find(&cobros).Error
	return cobros, err
}

func (r *cobroRepo) UpsertDetalle(ctx context.Context, tx *gorm.DB, det *model.CobroDetalle) error {
	db := r.conn(tx).WithContext(ctx)
	q := db.Where("cobro_id = ? AND tipo_linea = ?", det.CobroID, det.TipoLinea)
	if det.UnidadCargoID != nil {
		q = q.Where("unidad_cargo_id = ?", *det.UnidadCargoID)
	}
	var existing model.CobroDetalle
	if err := q.First(&existing).Error; err == nil {
		existing.Glosa = det.Glosa
		existing.Monto = det.Monto
		existing.UnidadCargoID = det.UnidadCargoID
		*det = existing
		return db.Save(&existing).Error
	}
	return db.Create(det).Error
}

func (r *cobroRepo) CreateDetalle(ctx context.Context, tx *gorm.DB, det *model.CobroDetalle) error {
	return r.conn(tx).WithContext(ctx).Create(det).Error
}

func (r *cobroRepo) DeleteDetalleTipo(ctx context.Context, tx *gorm.DB, cobroID uuid.UUID, tipoLinea string) error {
	return r.conn(tx).WithContext(ctx).
		Where("cobro_id = ? AND tipo_linea = ?", cobroID, tipoLinea).
		Delete(&model.CobroDetalle{}).Error
}

func (r *cobroRepo) CountDetalles(ctx context.Context, cobroID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CobroDetalle{}).
		Where("cobro_id = ?", cobroID).
		Count(&n).Error
	return n, err
}

func (r *cobroRepo) UpsertUnidadCargo(ctx context.Context, tx *gorm.DB, cargo *model.UnidadCargo) error {
	db := r.conn(tx).WithContext(ctx)
	var existing model.UnidadCargo
	err := db.Where("unidad_id = ? AND periodo = ? AND concepto_id = ? AND tipo = ?",
		cargo.UnidadID, cargo.Periodo, cargo.ConceptoID, cargo.Tipo).
		First(&existing).Error
	if err == nil {
		existing.Monto = cargo.Monto
		existing.Detalle = cargo.Detalle
		*cargo = existing
		return db.Save(&existing).Error
	}
	return db.Create(cargo).Error
}

func (r *cobroRepo) CreateUnidadCargo(ctx context.Context, tx *gorm.DB, cargo *model.UnidadCargo) error {
	return r.conn(tx).WithContext(ctx).Create(cargo).Error
}

func (r *cobroRepo) ListCargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, conceptoID uuid.UUID) ([]model.UnidadCargo, error) {
	var cargos []model.UnidadCargo
	err := r.conn(tx).WithContext(ctx).
		Joins("JOIN unidades ON unidades.id = unidad_cargos.unidad_id").
		Joins("JOIN grupos ON grupos.id = unidades.grupo_id").
		Where("grupos.condominio_id = ? AND unidad_cargos.periodo = ? AND unidad_cargos.concepto_id = ? AND unidad_cargos.tipo = ?",
			condominioID, periodo, conceptoID, model.CargoExtra).
		Find(&cargos).Error
	return cargos, err
}

func (r *cobroRepo) PurgeCargosAnexo(ctx context.Context, tx *gorm.DB, condominioID uuid.UUID, periodo string, conceptoID uuid.UUID) error {
	db := r.conn(tx).WithContext(ctx)

	var cargoIDs []uuid.UUID
	err := db.Model(&model.UnidadCargo{}).
		Joins("JOIN unidades ON unidades.id = unidad_cargos.unidad_id").
		Joins("JOIN grupos ON grupos.id = unidades.grupo_id").
		Where("grupos.condominio_id = ? AND unidad_cargos.periodo = ? AND unidad_cargos.concepto_id = ? AND unidad_cargos.tipo = ?",
			condominioID, periodo, conceptoID, model.CargoExtra).
		Pluck("unidad_cargos.id", &cargoIDs).Error
	if err != nil || len(cargoIDs) == 0 {
		return err
	}

	if err := db.Where("unidad_cargo_id IN ?", cargoIDs).Delete(&model.CobroDetalle{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", cargoIDs).Delete(&model.UnidadCargo{}).Error
}
