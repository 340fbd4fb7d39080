package infra

import (
	"fmt"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes, CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Also used by the integration tests
// against a throwaway container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Condominio{},
		&model.Grupo{},
		&model.CatSegmento{},
		&model.CatViviendaSubtipo{},
		&model.Unidad{},
		&model.GastoCategoria{},
		&model.Proveedor{},
		&model.Gasto{},
		&model.CatConceptoCargo{},
		&model.ProrrateoRegla{},
		&model.ProrrateoFactorUnidad{},
		&model.Cobro{},
		&model.CobroDetalle{},
		&model.UnidadCargo{},
		&model.InteresRegla{},
		&model.ParamReglamento{},
		&model.FondoReservaMovimiento{},
		&model.AnexoRegla{},
		&model.Pago{},
		&model.PagoAplicacion{},
		&model.RegistroAuditoria{},
		&model.Notificacion{},
		&model.Persona{},
		&model.Ocupacion{},
		&model.Usuario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement uses IF NOT EXISTS / DO NOTHING semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// partial index for the notification retry cron query
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notificaciones_pending_retry') THEN
		    CREATE INDEX idx_notificaciones_pending_retry
		        ON notificaciones (next_retry_at)
		        WHERE estado = 'error' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
		// FIFO allocation scans by unit over outstanding charges
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cobros_unidad_saldo') THEN
		    CREATE INDEX idx_cobros_unidad_saldo
		        ON cobros (unidad_id, fecha_emision, id)
		        WHERE saldo > 0;
		  END IF;
		END $$`,
		// payments must never be stored with amount zero
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pagos_monto_no_cero') THEN
		    ALTER TABLE pagos ADD CONSTRAINT chk_pagos_monto_no_cero CHECK (monto <> 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
