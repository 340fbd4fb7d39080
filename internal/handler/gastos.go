package handler

import (
	"net/http"

	"github.com/GaboTNSINF/CondoGestion/internal/apierror"
	"github.com/GaboTNSINF/CondoGestion/internal/dto"
	"github.com/GaboTNSINF/CondoGestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler { return &GastosHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar gasto
// @Tags         gastos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearGastoRequest true "Datos del gasto"
// @Success      201  {object} dto.GastoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/gastos [post]
func (h *GastosHandler) Crear(c *gin.Context) {
	var req dto.CrearGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearGasto(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPorCondominio godoc
// @Summary      Listar gastos de un condominio
// @Tags         gastos
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string true  "UUID del condominio"
// @Param        periodo query string false "Periodo YYYYMM"
// @Success      200 {object} dto.GastoListResponse
// @Router       /v1/condominios/{id}/gastos [get]
func (h *GastosHandler) ListarPorCondominio(c *gin.Context) {
	condominioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarGastos(c.Request.Context(), condominioID, c.Query("periodo"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
