package handler

import (
	"net/http"

	"github.com/GaboTNSINF/CondoGestion/internal/apierror"
	"github.com/GaboTNSINF/CondoGestion/internal/dto"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UnidadesHandler struct {
	unidadRepo repository.UnidadRepository
	cobroRepo  repository.CobroRepository
}

func NewUnidadesHandler(unidadRepo repository.UnidadRepository, cobroRepo repository.CobroRepository) *UnidadesHandler {
	return &UnidadesHandler{unidadRepo: unidadRepo, cobroRepo: cobroRepo}
}

// ListarCobros godoc
// @Summary      Estado de cuenta de una unidad
// @Description  Retorna todos los cobros de la unidad con sus líneas de detalle, ordenados por periodo descendente.
// @Tags         unidades
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la unidad"
// @Success      200 {array} dto.CobroResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/unidades/{id}/cobros [get]
func (h *UnidadesHandler) ListarCobros(c *gin.Context) {
	unidadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if _, err := h.unidadRepo.FindByID(c.Request.Context(), unidadID); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Unidad no encontrada"))
		return
	}

	cobros, err := h.cobroRepo.ListByUnidad(c.Request.Context(), unidadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cobros"))
		return
	}
	resp := make([]dto.CobroResponse, len(cobros))
	for i := range cobros {
		resp[i] = cobroToResponse(&cobros[i])
	}
	c.JSON(http.StatusOK, resp)
}
