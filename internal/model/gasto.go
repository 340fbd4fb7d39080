package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GastoCategoria catalogs expense categories (mantención, aseo, seguridad…).
type GastoCategoria struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"uniqueIndex;not null"`
}

// Proveedor is an expense supplier.
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	RutBase     *int
	RutDV       *string   `gorm:"type:varchar(1);column:rut_dv"`
	Email       *string
	Telefono    *string
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

// Gasto is a period expense of a condominium. Total is derived (Neto + IVA) and
// is treated read-only once computed. Gastos are consumed, never mutated, by the
// cierre mensual.
type Gasto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CondominioID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Periodo      string          `gorm:"type:varchar(6);index;not null"` // YYYYMM
	CategoriaID  uuid.UUID       `gorm:"type:uuid;not null"`
	ProveedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	Neto         decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	IVA          decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0;column:iva"`
	Total        decimal.Decimal `gorm:"type:decimal(14,0);not null"`
	Glosa        *string
	FechaEmision time.Time       `gorm:"not null"`
	CreatedAt    time.Time

	Categoria *GastoCategoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
}
