package service

import (
	"fmt"
	"time"
)

// Period helpers. A period is a calendar month identifier "YYYYMM" scoping
// gastos, cobros and pagos. All functions are pure: the caller supplies any
// reference date, so nothing here couples to the wall clock.

// ValidarPeriodo rejects anything that is not a plausible YYYYMM.
func ValidarPeriodo(periodo string) error {
	if len(periodo) != 6 {
		return fmt.Errorf("periodo %q inválido: se espera formato YYYYMM", periodo)
	}
	if _, err := time.Parse("200601", periodo); err != nil {
		return fmt.Errorf("periodo %q inválido: %w", periodo, err)
	}
	return nil
}

// PeriodoDeFecha derives the period a date belongs to.
func PeriodoDeFecha(fecha time.Time) string {
	return fecha.Format("200601")
}

// SiguientePeriodo returns the month after ultimoCerrado. When no period has
// been closed yet (empty input), it falls back to the month of hoy.
func SiguientePeriodo(ultimoCerrado string, hoy time.Time) (string, error) {
	if ultimoCerrado == "" {
		return PeriodoDeFecha(hoy), nil
	}
	t, err := time.Parse("200601", ultimoCerrado)
	if err != nil {
		return "", fmt.Errorf("periodo %q inválido: %w", ultimoCerrado, err)
	}
	return t.AddDate(0, 1, 0).Format("200601"), nil
}
