package router

import (
	"time"

	"github.com/GaboTNSINF/CondoGestion/internal/config"
	"github.com/GaboTNSINF/CondoGestion/internal/handler"
	"github.com/GaboTNSINF/CondoGestion/internal/middleware"
	"github.com/GaboTNSINF/CondoGestion/internal/repository"
	"github.com/GaboTNSINF/CondoGestion/internal/service"
	"github.com/GaboTNSINF/CondoGestion/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	condominioRepo := repository.NewCondominioRepository(db)
	unidadRepo := repository.NewUnidadRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	prorrateoRepo := repository.NewProrrateoRepository(db)
	cobroRepo := repository.NewCobroRepository(db)
	interesRepo := repository.NewInteresRepository(db)
	fondoRepo := repository.NewFondoRepository(db)
	anexoRepo := repository.NewAnexoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)
	personaRepo := repository.NewPersonaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	gastoSvc := service.NewGastoService(gastoRepo)
	prorrateoSvc := service.NewProrrateoService(prorrateoRepo, unidadRepo)
	fondoSvc := service.NewFondoService(fondoRepo, decimal.NewFromFloat(cfg.FondoReservaPctDefault))
	interesSvc := service.NewInteresService(interesRepo, cobroRepo)
	anexoSvc := service.NewAnexoService(anexoRepo, unidadRepo, cobroRepo, prorrateoRepo, decimal.NewFromInt(cfg.AnexoRecargoMonto))
	auditoriaSvc := service.NewAuditoriaService(auditoriaRepo)
	notificacionSvc := service.NewNotificacionService(notificacionRepo, dispatcher)

	cierreSvc := service.NewCierreService(
		cobroRepo, gastoRepo, unidadRepo, prorrateoRepo, usuarioRepo, personaRepo,
		prorrateoSvc, fondoSvc, interesSvc, anexoSvc, auditoriaSvc, notificacionSvc, rdb,
	)
	pagoSvc := service.NewPagoService(pagoRepo, cobroRepo, personaRepo, auditoriaSvc, notificacionSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	cierreH := handler.NewCierreHandler(cierreSvc, condominioRepo, cfg.PDFStoragePath)
	pagosH := handler.NewPagosHandler(pagoSvc)
	gastosH := handler.NewGastosHandler(gastoSvc)
	prorrateoH := handler.NewProrrateoHandler(prorrateoSvc)
	unidadesH := handler.NewUnidadesHandler(unidadRepo, cobroRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Cierre mensual — administrador only
		v1.POST("/condominios/:id/cierre", middleware.RequireRole("administrador"), cierreH.Generar)
		v1.GET("/condominios/:id/cierre", middleware.RequireRole("operador", "administrador"), cierreH.Listar)
		v1.GET("/condominios/:id/cierre/pdf", middleware.RequireRole("operador", "administrador"), cierreH.ExportarPDF)
		v1.GET("/condominios/:id/periodo-sugerido", middleware.RequireRole("operador", "administrador"), cierreH.PeriodoSugerido)

		// Gastos
		v1.POST("/gastos", middleware.RequireRole("operador", "administrador"), gastosH.Crear)
		v1.GET("/condominios/:id/gastos", middleware.RequireRole("operador", "administrador"), gastosH.ListarPorCondominio)

		// Pagos
		v1.POST("/pagos", middleware.RequireRole("operador", "administrador"), pagosH.Registrar)
		v1.POST("/pagos/:id/revertir", middleware.RequireRole("administrador"), pagosH.Revertir)

		// Unidades — estado de cuenta
		v1.GET("/unidades/:id/cobros", middleware.RequireRole("operador", "administrador"), unidadesH.ListarCobros)
		v1.GET("/unidades/:id/pagos", middleware.RequireRole("operador", "administrador"), pagosH.ListarPorUnidad)

		// Prorrateo — administrador only
		prorrateo := v1.Group("/prorrateo", middleware.RequireRole("administrador"))
		{
			prorrateo.POST("/reglas", prorrateoH.CrearRegla)
			prorrateo.POST("/reglas/:id/factores", prorrateoH.CalcularFactores)
			prorrateo.GET("/reglas/:id/factores", prorrateoH.ListarFactores)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
