package infra

// pdf.go — Settlement report generation using go-pdf/fpdf.
// Produces an A4 portrait report with one row per unit charge of the period:
// unit code, cargos, interés, pagado and saldo, plus column totals.
// The output file is saved to storagePath/cierre_{condominio}_{periodo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateCierrePDF renders the charges of a (condominio, periodo) settlement.
// Returns the absolute path to the generated file.
func GenerateCierrePDF(condominio *model.Condominio, periodo string, cobros []model.Cobro, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s_%s.pdf", condominio.ID, periodo)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Cierre Mensual de Gastos Comunes", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, condominio.Nombre, "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Periodo %s — emitido %s", periodo, time.Now().Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	colUnidad := contentW * 0.24
	colMonto := contentW * 0.19

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colUnidad, 7, "Unidad", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colMonto, 7, "Cargos", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colMonto, 7, "Interés", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colMonto, 7, "Pagado", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colMonto, 7, "Saldo", "B", 1, "R", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	totCargos, totInteres, totPagado, totSaldo := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero

	pdf.SetFont("Helvetica", "", 9)
	for _, c := range cobros {
		codigo := c.UnidadID.String()[:8]
		if c.Unidad != nil {
			codigo = c.Unidad.Codigo
		}
		pdf.CellFormat(colUnidad, 6, codigo, "", 0, "L", false, 0, "")
		pdf.CellFormat(colMonto, 6, "$"+c.MontoCargos.StringFixed(0), "", 0, "R", false, 0, "")
		pdf.CellFormat(colMonto, 6, "$"+c.MontoInteres.StringFixed(0), "", 0, "R", false, 0, "")
		pdf.CellFormat(colMonto, 6, "$"+c.MontoPagado.StringFixed(0), "", 0, "R", false, 0, "")
		pdf.CellFormat(colMonto, 6, "$"+c.Saldo.StringFixed(0), "", 1, "R", false, 0, "")

		totCargos = totCargos.Add(c.MontoCargos)
		totInteres = totInteres.Add(c.MontoInteres)
		totPagado = totPagado.Add(c.MontoPagado)
		totSaldo = totSaldo.Add(c.Saldo)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colUnidad, 7, fmt.Sprintf("TOTAL (%d unidades)", len(cobros)), "T", 0, "L", false, 0, "")
	pdf.CellFormat(colMonto, 7, "$"+totCargos.StringFixed(0), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colMonto, 7, "$"+totInteres.StringFixed(0), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colMonto, 7, "$"+totPagado.StringFixed(0), "T", 0, "R", false, 0, "")
	pdf.CellFormat(colMonto, 7, "$"+totSaldo.StringFixed(0), "T", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
