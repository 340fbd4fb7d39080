package service

import (
	"context"
	"testing"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagoFixture struct {
	svc       PagoService
	pagoRepo  *stubPagoRepo
	cobroRepo *stubCobroRepo
	auditRepo *stubAuditoriaRepo
}

func nuevoPagoFixture() *pagoFixture {
	pagoRepo := newStubPagoRepo()
	cobroRepo := newStubCobroRepo()
	auditRepo := &stubAuditoriaRepo{}
	notif := NewNotificacionService(&stubNotificacionRepo{}, nil)
	svc := NewPagoService(pagoRepo, cobroRepo, &stubPersonaRepo{}, NewAuditoriaService(auditRepo), notif)
	return &pagoFixture{svc: svc, pagoRepo: pagoRepo, cobroRepo: cobroRepo, auditRepo: auditRepo}
}

func (f *pagoFixture) conCobro(unidadID uuid.UUID, periodo string, saldo int64, emision time.Time) *model.Cobro {
	c := &model.Cobro{
		ID:           uuid.New(),
		UnidadID:     unidadID,
		Periodo:      periodo,
		Tipo:         "mensual",
		Estado:       model.CobroPendiente,
		MontoCargos:  decimal.NewFromInt(saldo),
		Saldo:        decimal.NewFromInt(saldo),
		FechaEmision: emision,
	}
	f.cobroRepo.cobros[c.ID] = c
	return c
}

func TestRegistrarPagoMontoNoPositivo(t *testing.T) {
	f := nuevoPagoFixture()

	_, err := f.svc.RegistrarPago(context.Background(), uuid.New(), decimal.NewFromInt(-5000), "efectivo", time.Now(), nil, nil)
	assert.ErrorIs(t, err, ErrPagoMontoInvalido)

	_, err = f.svc.RegistrarPago(context.Background(), uuid.New(), decimal.Zero, "efectivo", time.Now(), nil, nil)
	assert.ErrorIs(t, err, ErrPagoMontoInvalido)

	// El rechazo ocurre antes de cualquier escritura.
	assert.Empty(t, f.pagoRepo.pagos)
	assert.Empty(t, f.auditRepo.entries)
}

func TestRegistrarPagoParcial(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()
	cobro := f.conCobro(unidadID, "202501", 8000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(5000), "transferencia", time.Now(), nil, nil)
	require.NoError(t, err)
	require.Len(t, pago.Aplicaciones, 1)
	assert.True(t, pago.Aplicaciones[0].MontoAplicado.Equal(decimal.NewFromInt(5000)))

	actualizado := f.cobroRepo.cobros[cobro.ID]
	assert.True(t, actualizado.Saldo.Equal(decimal.NewFromInt(3000)), "saldo %s", actualizado.Saldo)
	assert.Equal(t, model.CobroPendiente, actualizado.Estado)
}

func TestRegistrarPagoFIFOCubreVariosCobros(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()
	viejo := f.conCobro(unidadID, "202412", 10000, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	nuevo := f.conCobro(unidadID, "202501", 10000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(15000), "efectivo", time.Now(), nil, nil)
	require.NoError(t, err)
	require.Len(t, pago.Aplicaciones, 2)

	// La deuda más antigua se extingue primero y completa.
	assert.Equal(t, viejo.ID, pago.Aplicaciones[0].CobroID)
	assert.True(t, pago.Aplicaciones[0].MontoAplicado.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, nuevo.ID, pago.Aplicaciones[1].CobroID)
	assert.True(t, pago.Aplicaciones[1].MontoAplicado.Equal(decimal.NewFromInt(5000)))

	assert.Equal(t, model.CobroPagado, f.cobroRepo.cobros[viejo.ID].Estado)
	assert.True(t, f.cobroRepo.cobros[viejo.ID].Saldo.IsZero())
	assert.Equal(t, model.CobroPendiente, f.cobroRepo.cobros[nuevo.ID].Estado)
	assert.True(t, f.cobroRepo.cobros[nuevo.ID].Saldo.Equal(decimal.NewFromInt(5000)))
}

func TestRegistrarPagoFIFOMismaFechaDesempataPorID(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()
	emision := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	primero := f.conCobro(unidadID, "202501", 10000, emision)
	segundo := f.conCobro(unidadID, "202501", 10000, emision)
	segundo.Tipo = "extraordinario"
	delete(f.cobroRepo.cobros, primero.ID)
	delete(f.cobroRepo.cobros, segundo.ID)
	primero.ID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	segundo.ID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	f.cobroRepo.cobros[primero.ID] = primero
	f.cobroRepo.cobros[segundo.ID] = segundo

	// Con fecha de emisión idéntica el orden lo da el id ascendente.
	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(4000), "efectivo", time.Now(), nil, nil)
	require.NoError(t, err)
	require.Len(t, pago.Aplicaciones, 1)
	assert.Equal(t, primero.ID, pago.Aplicaciones[0].CobroID)
	assert.True(t, f.cobroRepo.cobros[primero.ID].Saldo.Equal(decimal.NewFromInt(6000)))
	assert.True(t, f.cobroRepo.cobros[segundo.ID].Saldo.Equal(decimal.NewFromInt(10000)))
}

func TestRegistrarPagoSinDeudaQuedaSinAplicar(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()

	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(20000), "efectivo", time.Now(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pago.Aplicaciones)
	assert.Len(t, f.pagoRepo.pagos, 1)
}

func TestRegistrarPagoSobrepago(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()
	cobro := f.conCobro(unidadID, "202501", 8000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(10000), "tarjeta", time.Now(), nil, nil)
	require.NoError(t, err)
	require.Len(t, pago.Aplicaciones, 1)

	// Solo se aplica hasta el saldo; el cobro nunca queda negativo.
	assert.True(t, pago.Aplicaciones[0].MontoAplicado.Equal(decimal.NewFromInt(8000)))
	assert.True(t, f.cobroRepo.cobros[cobro.ID].Saldo.IsZero())
	assert.Equal(t, model.CobroPagado, f.cobroRepo.cobros[cobro.ID].Estado)
}

func TestRevertirPago(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()
	cobro := f.conCobro(unidadID, "202501", 8000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(8000), "efectivo", time.Now(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.CobroPagado, f.cobroRepo.cobros[cobro.ID].Estado)

	reverso, err := f.svc.RevertirPago(context.Background(), pago.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, model.PagoAjuste, reverso.Tipo)
	assert.True(t, reverso.Monto.Equal(decimal.NewFromInt(-8000)))
	require.NotNil(t, reverso.RefExterna)
	assert.Equal(t, pago.ID.String(), *reverso.RefExterna)
	require.Len(t, reverso.Aplicaciones, 1)
	assert.True(t, reverso.Aplicaciones[0].MontoAplicado.Equal(decimal.NewFromInt(-8000)))

	// El cobro vuelve a estar pendiente con el saldo restituido.
	restituido := f.cobroRepo.cobros[cobro.ID]
	assert.True(t, restituido.Saldo.Equal(decimal.NewFromInt(8000)))
	assert.Equal(t, model.CobroPendiente, restituido.Estado)

	// El pago original sigue intacto.
	original, err := f.pagoRepo.FindByID(context.Background(), pago.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PagoNormal, original.Tipo)
	assert.True(t, original.Monto.Equal(decimal.NewFromInt(8000)))
}

func TestRevertirPagoAjusteRechazado(t *testing.T) {
	f := nuevoPagoFixture()
	unidadID := uuid.New()
	f.conCobro(unidadID, "202501", 5000, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))

	pago, err := f.svc.RegistrarPago(context.Background(), unidadID, decimal.NewFromInt(5000), "efectivo", time.Now(), nil, nil)
	require.NoError(t, err)

	reverso, err := f.svc.RevertirPago(context.Background(), pago.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.RevertirPago(context.Background(), reverso.ID, nil)
	assert.Error(t, err)
}

func TestRevertirPagoInexistente(t *testing.T) {
	f := nuevoPagoFixture()
	_, err := f.svc.RevertirPago(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrPagoNoEncontrado)
}
