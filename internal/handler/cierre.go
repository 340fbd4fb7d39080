package handler

import (
	"net/http"

	"github.com/GaboTNSINF/CondoGestion/internal/apierror"
	"github.com/GaboTNSINF/CondoGestion/internal/dto"
	"github.com/GaboTNSINF/CondoGestion/internal/infra"
	"github.com/GaboTNSINF/CondoGestion/internal/middleware"
	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"
	"github.com/GaboTNSINF/CondoGestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CierreHandler struct {
	svc            service.CierreService
	condominioRepo repository.CondominioRepository
	pdfStoragePath string
}

func NewCierreHandler(svc service.CierreService, condominioRepo repository.CondominioRepository, pdfStoragePath string) *CierreHandler {
	return &CierreHandler{svc: svc, condominioRepo: condominioRepo, pdfStoragePath: pdfStoragePath}
}

// Generar godoc
// @Summary      Generar cierre mensual
// @Description  Corre el cierre del periodo: prorratea gastos + fondo de reserva entre unidades, calcula interés por mora y recargos de anexo. Transaccional e idempotente por periodo.
// @Tags         cierre
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del condominio"
// @Param        body body dto.GenerarCierreRequest true "Periodo YYYYMM"
// @Success      201  {object} dto.CierreResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/condominios/{id}/cierre [post]
func (h *CierreHandler) Generar(c *gin.Context) {
	condominioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.GenerarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}

	var actor *string
	if claims := middleware.GetClaims(c); claims != nil {
		actor = &claims.Username
	}

	cobros, err := h.svc.GenerarCierreMensual(c.Request.Context(), condominioID, req.Periodo, actor)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, cierreToResponse(req.Periodo, cobros))
}

// Listar godoc
// @Summary      Consultar cierre
// @Tags         cierre
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string true "UUID del condominio"
// @Param        periodo query string true "Periodo YYYYMM"
// @Success      200 {object} dto.CierreResponse
// @Router       /v1/condominios/{id}/cierre [get]
func (h *CierreHandler) Listar(c *gin.Context) {
	condominioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	periodo := c.Query("periodo")

	cobros, err := h.svc.ListarCierre(c.Request.Context(), condominioID, periodo)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cierreToResponse(periodo, cobros))
}

// ExportarPDF godoc
// @Summary      Exportar cierre en PDF
// @Tags         cierre
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id      path  string true "UUID del condominio"
// @Param        periodo query string true "Periodo YYYYMM"
// @Success      200 {file} binary
// @Router       /v1/condominios/{id}/cierre/pdf [get]
func (h *CierreHandler) ExportarPDF(c *gin.Context) {
	condominioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	periodo := c.Query("periodo")

	condominio, err := h.condominioRepo.FindByID(c.Request.Context(), condominioID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Condominio no encontrado"))
		return
	}
	cobros, err := h.svc.ListarCierre(c.Request.Context(), condominioID, periodo)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if len(cobros) == 0 {
		c.JSON(http.StatusNotFound, apierror.New("No hay cobros para el periodo"))
		return
	}

	path, err := infra.GenerateCierrePDF(condominio, periodo, cobros, h.pdfStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el PDF"))
		return
	}
	c.FileAttachment(path, "cierre_"+periodo+".pdf")
}

// PeriodoSugerido godoc
// @Summary      Periodo sugerido para el próximo cierre
// @Tags         cierre
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del condominio"
// @Success      200 {object} dto.PeriodoSugeridoResponse
// @Router       /v1/condominios/{id}/periodo-sugerido [get]
func (h *CierreHandler) PeriodoSugerido(c *gin.Context) {
	condominioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	periodo, err := h.svc.PeriodoSugerido(c.Request.Context(), condominioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el periodo"))
		return
	}
	c.JSON(http.StatusOK, dto.PeriodoSugeridoResponse{Periodo: periodo})
}

func cierreToResponse(periodo string, cobros []model.Cobro) dto.CierreResponse {
	resp := dto.CierreResponse{Periodo: periodo, Cobros: make([]dto.CobroResponse, len(cobros)), TotalSaldo: decimal.Zero}
	for i := range cobros {
		resp.Cobros[i] = cobroToResponse(&cobros[i])
		resp.TotalSaldo = resp.TotalSaldo.Add(cobros[i].Saldo)
	}
	return resp
}

func cobroToResponse(cobro *model.Cobro) dto.CobroResponse {
	out := dto.CobroResponse{
		ID:              cobro.ID.String(),
		UnidadID:        cobro.UnidadID.String(),
		Periodo:         cobro.Periodo,
		Tipo:            cobro.Tipo,
		Estado:          cobro.Estado,
		MontoCargos:     cobro.MontoCargos,
		MontoInteres:    cobro.MontoInteres,
		MontoDescuentos: cobro.MontoDescuentos,
		MontoPagado:     cobro.MontoPagado,
		Saldo:           cobro.Saldo,
		FechaEmision:    cobro.FechaEmision.Format("2006-01-02"),
	}
	if cobro.Unidad != nil {
		out.UnidadCodigo = cobro.Unidad.Codigo
	}
	for _, d := range cobro.Detalles {
		out.Detalles = append(out.Detalles, dto.CobroDetalleResponse{
			TipoLinea: d.TipoLinea,
			Glosa:     d.Glosa,
			Monto:     d.Monto,
		})
	}
	return out
}
