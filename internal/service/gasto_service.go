package service

import (
	"context"
	"errors"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/dto"
	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GastoService interface {
	CrearGasto(ctx context.Context, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	ListarGastos(ctx context.Context, condominioID uuid.UUID, periodo string) (*dto.GastoListResponse, error)
}

type gastoService struct {
	repo repository.GastoRepository
}

func NewGastoService(repo repository.GastoRepository) GastoService {
	return &gastoService{repo: repo}
}

// categoriaDefault receives expenses registered without one.
const categoriaDefault = "General"

func (s *gastoService) CrearGasto(ctx context.Context, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	if !req.Neto.IsPositive() {
		return nil, errors.New("el neto del gasto debe ser mayor a cero")
	}
	if req.IVA.IsNegative() {
		return nil, errors.New("el IVA no puede ser negativo")
	}
	if err := ValidarPeriodo(req.Periodo); err != nil {
		return nil, err
	}

	condominioID, err := uuid.Parse(req.CondominioID)
	if err != nil {
		return nil, errors.New("condominio_id inválido")
	}

	var categoriaID uuid.UUID
	switch {
	case req.CategoriaID != nil:
		categoriaID, err = uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, errors.New("categoria_id inválido")
		}
	default:
		nombre := categoriaDefault
		if req.Categoria != nil && *req.Categoria != "" {
			nombre = *req.Categoria
		}
		cat, err := s.repo.GetOrCreateCategoria(ctx, nombre)
		if err != nil {
			return nil, err
		}
		categoriaID = cat.ID
	}

	var proveedorID *uuid.UUID
	if req.ProveedorID != nil {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, errors.New("proveedor_id inválido")
		}
		proveedorID = &pid
	}

	fechaEmision := time.Now()
	if req.FechaEmision != "" {
		fechaEmision, err = time.Parse("2006-01-02", req.FechaEmision)
		if err != nil {
			return nil, errors.New("fecha_emision inválida")
		}
	}

	glosa := req.Glosa
	gasto := &model.Gasto{
		CondominioID: condominioID,
		Periodo:      req.Periodo,
		CategoriaID:  categoriaID,
		ProveedorID:  proveedorID,
		Neto:         req.Neto.Round(0),
		IVA:          req.IVA.Round(0),
		Total:        req.Neto.Add(req.IVA).Round(0),
		Glosa:        &glosa,
		FechaEmision: fechaEmision,
	}
	if err := s.repo.Create(ctx, gasto); err != nil {
		return nil, err
	}
	resp := gastoToResponse(gasto)
	return &resp, nil
}

func (s *gastoService) ListarGastos(ctx context.Context, condominioID uuid.UUID, periodo string) (*dto.GastoListResponse, error) {
	if periodo != "" {
		if err := ValidarPeriodo(periodo); err != nil {
			return nil, err
		}
	}
	gastos, err := s.repo.List(ctx, condominioID, periodo)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	data := make([]dto.GastoResponse, len(gastos))
	for i := range gastos {
		data[i] = gastoToResponse(&gastos[i])
		total = total.Add(gastos[i].Total)
	}
	return &dto.GastoListResponse{Data: data, Total: total}, nil
}

func gastoToResponse(g *model.Gasto) dto.GastoResponse {
	resp := dto.GastoResponse{
		ID:           g.ID.String(),
		CondominioID: g.CondominioID.String(),
		Periodo:      g.Periodo,
		FechaEmision: g.FechaEmision.Format("2006-01-02"),
		Neto:         g.Neto,
		IVA:          g.IVA,
		Total:        g.Total,
	}
	if g.Glosa != nil {
		resp.Glosa = *g.Glosa
	}
	if g.Categoria != nil {
		resp.Categoria = &g.Categoria.Nombre
	}
	if g.Proveedor != nil {
		resp.Proveedor = &g.Proveedor.RazonSocial
	}
	return resp
}
