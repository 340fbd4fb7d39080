//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Scenarios:
//   - Full billing cycle: gasto → cierre mensual → pago FIFO → reverso
//   - Cierre re-run idempotency
//   - Periodo sugerido after a close
//   - PDF export of a generated cierre

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/config"
	"github.com/GaboTNSINF/CondoGestion/internal/infra"
	"github.com/GaboTNSINF/CondoGestion/internal/model"
	"github.com/GaboTNSINF/CondoGestion/internal/router"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server       *httptest.Server
	token        string // admin JWT
	db           *gorm.DB
	condominioID uuid.UUID
	unidadA      uuid.UUID
	unidadB      uuid.UUID
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("condogestion_test"),
		tcPostgres.WithUsername("condogestion"),
		tcPostgres.WithPassword("condogestion"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                   8000,
		Env:                    "test",
		JWTSecret:              "test-secret-key",
		JWTExpirationHours:     8,
		JWTRefreshHours:        24,
		DatabaseURL:            pgURL,
		RedisURL:               rdURL,
		WorkerPoolSize:         1,
		PDFStoragePath:         t.TempDir(),
		FondoReservaPctDefault: 5,
		AnexoRecargoMonto:      15000,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	env := &testEnv{db: db}
	env.seed(t)

	r := router.New(cfg, db, rdb)
	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin@e2e.test", "password": "condogestion"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)
	env.token = loginBody.AccessToken

	return env
}

// seed creates a two-unit condominium (50% each, unit B annex-billable),
// a 12% arrears rule and the admin user.
func (e *testEnv) seed(t *testing.T) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("condogestion"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "admin@e2e.test"
	require.NoError(t, e.db.Create(&model.Usuario{
		Username:     "admin@e2e.test",
		Nombre:       "Admin E2E",
		Email:        &email,
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}).Error)

	condominio := &model.Condominio{Nombre: "Condominio E2E"}
	require.NoError(t, e.db.Create(condominio).Error)
	e.condominioID = condominio.ID

	grupo := &model.Grupo{CondominioID: condominio.ID, Nombre: "Torre Única", Tipo: "torre"}
	require.NoError(t, e.db.Create(grupo).Error)

	medio := decimal.RequireFromString("0.5")
	unidadA := &model.Unidad{GrupoID: grupo.ID, Codigo: "A-01", CoefProp: medio, Activa: true}
	require.NoError(t, e.db.Create(unidadA).Error)
	e.unidadA = unidadA.ID

	unidadB := &model.Unidad{GrupoID: grupo.ID, Codigo: "A-02", CoefProp: medio, AnexoCobrable: true, Activa: true}
	require.NoError(t, e.db.Create(unidadB).Error)
	e.unidadB = unidadB.ID

	require.NoError(t, e.db.Create(&model.InteresRegla{
		CondominioID: condominio.ID,
		TasaAnualPct: decimal.NewFromInt(12),
		VigenteDesde: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
}

func (e *testEnv) crearGasto(t *testing.T, periodo string, neto int64) {
	t.Helper()
	resp := do(t, e.server, "POST", "/v1/gastos",
		jsonBody(t, map[string]any{
			"condominio_id": e.condominioID.String(),
			"glosa":         "Gastos generales del periodo",
			"periodo":       periodo,
			"neto":          neto,
			"iva":           0,
		}),
		e.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

type detalleJSON struct {
	TipoLinea string          `json:"tipo_linea"`
	Monto     decimal.Decimal `json:"monto"`
}

type cobroJSON struct {
	ID           string          `json:"id"`
	UnidadID     string          `json:"unidad_id"`
	Estado       string          `json:"estado"`
	MontoCargos  decimal.Decimal `json:"monto_cargos"`
	MontoInteres decimal.Decimal `json:"monto_interes"`
	Saldo        decimal.Decimal `json:"saldo"`
	Detalles     []detalleJSON   `json:"detalles"`
}

type cierreBody struct {
	Periodo    string          `json:"periodo"`
	Cobros     []cobroJSON     `json:"cobros"`
	TotalSaldo decimal.Decimal `json:"total_saldo"`
}

func (e *testEnv) generarCierre(t *testing.T, periodo string) cierreBody {
	t.Helper()
	resp := do(t, e.server, "POST", fmt.Sprintf("/v1/condominios/%s/cierre", e.condominioID),
		jsonBody(t, map[string]string{"periodo": periodo}), e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body cierreBody
	decodeJSON(t, resp, &body)
	return body
}

func (b cierreBody) cobroDe(t *testing.T, unidadID uuid.UUID) *cobroJSON {
	t.Helper()
	for i := range b.Cobros {
		if b.Cobros[i].UnidadID == unidadID.String() {
			return &b.Cobros[i]
		}
	}
	t.Fatalf("no hay cobro para la unidad %s", unidadID)
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCierreYPago(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Gasto del periodo: $1.000.000.
	env.crearGasto(t, "202501", 1000000)

	// 2. Cierre mensual: + 5% fondo de reserva = $1.050.000, mitad por unidad.
	cierre := env.generarCierre(t, "202501")
	require.Len(t, cierre.Cobros, 2)

	a := cierre.cobroDe(t, env.unidadA)
	assert.True(t, a.MontoCargos.Equal(decimal.NewFromInt(525000)), "cargos A %s", a.MontoCargos)
	assert.Equal(t, "pendiente", a.Estado)

	// 3. Pago exacto de la unidad A.
	pagoResp := do(t, env.server, "POST", "/v1/pagos",
		jsonBody(t, map[string]any{
			"unidad_id": env.unidadA.String(),
			"monto":     525000,
			"metodo":    "transferencia",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, pagoResp.StatusCode)
	var pago struct {
		ID           string `json:"id"`
		Tipo         string `json:"tipo"`
		Aplicaciones []struct {
			CobroID       string          `json:"cobro_id"`
			MontoAplicado decimal.Decimal `json:"monto_aplicado"`
		} `json:"aplicaciones"`
		SinAplicar decimal.Decimal `json:"sin_aplicar"`
	}
	decodeJSON(t, pagoResp, &pago)
	require.Len(t, pago.Aplicaciones, 1)
	assert.Equal(t, a.ID, pago.Aplicaciones[0].CobroID)
	assert.True(t, pago.SinAplicar.IsZero())

	// 4. El estado de cuenta de la unidad refleja el pago.
	cobrosResp := do(t, env.server, "GET", fmt.Sprintf("/v1/unidades/%s/cobros", env.unidadA), nil, env.token)
	require.Equal(t, http.StatusOK, cobrosResp.StatusCode)
	var cobros []struct {
		Estado string          `json:"estado"`
		Saldo  decimal.Decimal `json:"saldo"`
	}
	decodeJSON(t, cobrosResp, &cobros)
	require.Len(t, cobros, 1)
	assert.Equal(t, "pagado", cobros[0].Estado)
	assert.True(t, cobros[0].Saldo.IsZero())

	// 5. Reverso del pago: el cobro vuelve a pendiente con su saldo.
	revResp := do(t, env.server, "POST", fmt.Sprintf("/v1/pagos/%s/revertir", pago.ID), jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusCreated, revResp.StatusCode)
	var reverso struct {
		Tipo  string          `json:"tipo"`
		Monto decimal.Decimal `json:"monto"`
	}
	decodeJSON(t, revResp, &reverso)
	assert.Equal(t, "ajuste", reverso.Tipo)
	assert.True(t, reverso.Monto.Equal(decimal.NewFromInt(-525000)))

	cobrosResp = do(t, env.server, "GET", fmt.Sprintf("/v1/unidades/%s/cobros", env.unidadA), nil, env.token)
	decodeJSON(t, cobrosResp, &cobros)
	require.Len(t, cobros, 1)
	assert.Equal(t, "pendiente", cobros[0].Estado)
	assert.True(t, cobros[0].Saldo.Equal(decimal.NewFromInt(525000)))
}

func TestE2E_CierreReRunIdempotente(t *testing.T) {
	env := setupTestEnv(t)

	require.NoError(t, env.db.Create(&model.AnexoRegla{
		CondominioID: env.condominioID,
		AnexoTipo:    "estacionamiento",
		VigenteDesde: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	env.crearGasto(t, "202501", 1000000)

	primero := env.generarCierre(t, "202501")
	segundo := env.generarCierre(t, "202501")
	require.Len(t, segundo.Cobros, 2)

	// El re-run sobreescribe en vez de duplicar: mismos montos y la unidad
	// anexo-cobrable conserva exactamente dos líneas de detalle.
	b1 := primero.cobroDe(t, env.unidadB)
	b2 := segundo.cobroDe(t, env.unidadB)
	assert.True(t, b1.MontoCargos.Equal(b2.MontoCargos), "%s vs %s", b1.MontoCargos, b2.MontoCargos)
	assert.True(t, b2.MontoCargos.Equal(decimal.NewFromInt(540000)))
	assert.Len(t, b2.Detalles, 2)
}

func TestE2E_InteresMoraEnSegundoCierre(t *testing.T) {
	env := setupTestEnv(t)

	env.crearGasto(t, "202501", 1000000)
	env.generarCierre(t, "202501")

	// Nadie paga enero; febrero arrastra interés del 1% mensual.
	env.crearGasto(t, "202502", 1000000)
	febrero := env.generarCierre(t, "202502")

	a := febrero.cobroDe(t, env.unidadA)
	// 525.000 de deuda × (12%/12) = 5.250.
	assert.True(t, a.MontoInteres.Equal(decimal.NewFromInt(5250)), "interes %s", a.MontoInteres)
	assert.True(t, a.Saldo.Equal(decimal.NewFromInt(530250)), "saldo %s", a.Saldo)
}

func TestE2E_PeriodoSugerido(t *testing.T) {
	env := setupTestEnv(t)

	env.crearGasto(t, "202501", 500000)
	env.generarCierre(t, "202501")

	resp := do(t, env.server, "GET", fmt.Sprintf("/v1/condominios/%s/periodo-sugerido", env.condominioID), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Periodo string `json:"periodo"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "202502", body.Periodo)
}

func TestE2E_ExportarPDF(t *testing.T) {
	env := setupTestEnv(t)

	env.crearGasto(t, "202501", 500000)
	env.generarCierre(t, "202501")

	resp := do(t, env.server, "GET",
		fmt.Sprintf("/v1/condominios/%s/cierre/pdf?periodo=202501", env.condominioID), nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "la descarga debe ser un PDF")
}

func TestE2E_CierreSinUnidadesFalla(t *testing.T) {
	env := setupTestEnv(t)

	vacio := &model.Condominio{Nombre: "Condominio Vacío"}
	require.NoError(t, env.db.Create(vacio).Error)

	resp := do(t, env.server, "POST", fmt.Sprintf("/v1/condominios/%s/cierre", vacio.ID),
		jsonBody(t, map[string]string{"periodo": "202501"}), env.token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Nada quedó persistido: ni cobros ni movimientos de fondo de reserva.
	var nCobros, nMovs int64
	require.NoError(t, env.db.Model(&model.Cobro{}).Count(&nCobros).Error)
	require.NoError(t, env.db.Model(&model.FondoReservaMovimiento{}).
		Where("condominio_id = ?", vacio.ID).Count(&nMovs).Error)
	assert.Zero(t, nCobros)
	assert.Zero(t, nMovs)
}
