package handler

import (
	"net/http"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/apierror"
	"github.com/GaboTNSINF/CondoGestion/internal/dto"
	"github.com/GaboTNSINF/CondoGestion/internal/middleware"
	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar pago
// @Description  Crea el pago y lo asigna FIFO sobre los cobros pendientes de la unidad, deuda más antigua primero. El sobrepago queda sin aplicar.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarPagoRequest true "Datos del pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pagos [post]
func (h *PagosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	unidadID, err := uuid.Parse(req.UnidadID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("unidad_id invalido"))
		return
	}

	fecha := time.Now()
	if req.Fecha != "" {
		fecha, err = time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida"))
			return
		}
	}

	var actor *string
	if claims := middleware.GetClaims(c); claims != nil {
		actor = &claims.Username
	}

	pago, err := h.svc.RegistrarPago(c.Request.Context(), unidadID, req.Monto, req.Metodo, fecha, req.Nota, actor)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, pagoToResponse(pago))
}

// Revertir godoc
// @Summary      Revertir pago
// @Description  Crea un pago de ajuste negativo que deshace cada aplicación del original. El pago original nunca se modifica.
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pago original"
// @Success      201 {object} dto.PagoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pagos/{id}/revertir [post]
func (h *PagosHandler) Revertir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}

	var actor *string
	if claims := middleware.GetClaims(c); claims != nil {
		actor = &claims.Username
	}

	reverso, err := h.svc.RevertirPago(c.Request.Context(), id, actor)
	if err != nil {
		status := http.StatusBadRequest
		if err == service.ErrPagoNoEncontrado {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, pagoToResponse(reverso))
}

// ListarPorUnidad godoc
// @Summary      Listar pagos de una unidad
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la unidad"
// @Success      200 {array} dto.PagoResponse
// @Router       /v1/unidades/{id}/pagos [get]
func (h *PagosHandler) ListarPorUnidad(c *gin.Context) {
	unidadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	pagos, err := h.svc.ListarPorUnidad(c.Request.Context(), unidadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pagos"))
		return
	}
	resp := make([]dto.PagoResponse, len(pagos))
	for i := range pagos {
		resp[i] = pagoToResponse(&pagos[i])
	}
	c.JSON(http.StatusOK, resp)
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	aplicado := decimal.Zero
	apls := make([]dto.PagoAplicacionResponse, len(p.Aplicaciones))
	for i, a := range p.Aplicaciones {
		apls[i] = dto.PagoAplicacionResponse{
			CobroID:       a.CobroID.String(),
			MontoAplicado: a.MontoAplicado,
		}
		aplicado = aplicado.Add(a.MontoAplicado)
	}
	return dto.PagoResponse{
		ID:           p.ID.String(),
		UnidadID:     p.UnidadID.String(),
		Monto:        p.Monto,
		Metodo:       p.Metodo,
		FechaPago:    p.FechaPago.Format("2006-01-02"),
		Periodo:      p.Periodo,
		Tipo:         p.Tipo,
		RefExterna:   p.RefExterna,
		Nota:         p.Nota,
		Aplicaciones: apls,
		SinAplicar:   p.Monto.Sub(aplicado),
	}
}
