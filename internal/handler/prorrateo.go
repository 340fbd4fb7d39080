package handler

import (
	"net/http"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/apierror"
	"github.com/GaboTNSINF/CondoGestion/internal/dto"
	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProrrateoHandler struct{ svc service.ProrrateoService }

func NewProrrateoHandler(svc service.ProrrateoService) *ProrrateoHandler {
	return &ProrrateoHandler{svc: svc}
}

// CrearRegla godoc
// @Summary      Crear regla de prorrateo
// @Tags         prorrateo
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearReglaRequest true "Datos de la regla"
// @Success      201  {object} dto.ReglaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/prorrateo/reglas [post]
func (h *ProrrateoHandler) CrearRegla(c *gin.Context) {
	var req dto.CrearReglaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	condominioID, err := uuid.Parse(req.CondominioID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("condominio_id invalido"))
		return
	}
	vigenteDesde, err := time.Parse("2006-01-02", req.VigenteDesde)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("vigente_desde invalida"))
		return
	}

	regla, err := h.svc.CrearRegla(c.Request.Context(), condominioID, req.Tipo, req.Criterio, vigenteDesde, req.Descripcion)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, reglaToResponse(regla))
}

// CalcularFactores godoc
// @Summary      Recalcular factores de una regla
// @Description  Purga y recalcula los factores por unidad según el criterio de la regla. Idempotente.
// @Tags         prorrateo
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la regla"
// @Success      200 {object} dto.CalcularFactoresResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/prorrateo/reglas/{id}/factores [post]
func (h *ProrrateoHandler) CalcularFactores(c *gin.Context) {
	reglaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	generados, err := h.svc.CalcularFactores(c.Request.Context(), reglaID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.CalcularFactoresResponse{ReglaID: reglaID.String(), Generados: generados})
}

// ListarFactores godoc
// @Summary      Listar factores de una regla
// @Tags         prorrateo
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la regla"
// @Success      200 {array} dto.FactorUnidadResponse
// @Router       /v1/prorrateo/reglas/{id}/factores [get]
func (h *ProrrateoHandler) ListarFactores(c *gin.Context) {
	reglaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	factores, err := h.svc.ListarFactores(c.Request.Context(), reglaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar factores"))
		return
	}
	resp := make([]dto.FactorUnidadResponse, len(factores))
	for i, f := range factores {
		resp[i] = dto.FactorUnidadResponse{UnidadID: f.UnidadID.String(), Factor: f.Factor}
	}
	c.JSON(http.StatusOK, resp)
}

func reglaToResponse(r *model.ProrrateoRegla) dto.ReglaResponse {
	return dto.ReglaResponse{
		ID:           r.ID.String(),
		CondominioID: r.CondominioID.String(),
		Tipo:         r.Tipo,
		Criterio:     r.Criterio,
		VigenteDesde: r.VigenteDesde.Format("2006-01-02"),
		Descripcion:  r.Descripcion,
	}
}
