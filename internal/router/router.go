package router

import (
	"interfaz/internal/cache"
	"interfaz/internal/config"
	"interfaz/internal/handler"
	"interfaz/internal/middleware"
	"interfaz/internal/model"
	"interfaz/internal/realtime"
	"interfaz/internal/repository"
	"interfaz/internal/service"
	"interfaz/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil: caching, rate limits and mail jobs then degrade to
// in-process or no-op behaviour.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())

	// ── Infrastructure ───────────────────────────────────────────────────────
	hub := realtime.NewHub()
	productoCache := cache.NewProductoCache(rdb, cfg.ProductCacheTTL)
	// Worker dispatcher: injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	alertas := service.NewAlertaStock(dispatcher, cfg.AlertEmail)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	rolRepo := repository.NewRolRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	cambioRepo := repository.NewCambioInventarioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	reporteRepo := repository.NewReporteStockBajoRepository(db)
	consultaRepo := repository.NewConsultaRepository(db)
	almacenamientoRepo := repository.NewAlmacenamientoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, rolRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo, productoCache, hub, alertas)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, movimientoStockRepo, cajaRepo, productoCache, hub, alertas)
	inventarioSvc := service.NewInventarioService(productoRepo, cambioRepo, movimientoStockRepo, productoCache, hub, alertas)
	reporteSvc := service.NewReporteService(reporteRepo, productoRepo, alertas)
	cajaSvc := service.NewCajaService(cajaRepo)
	compraSvc := service.NewCompraService(compraRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	consultaSvc := service.NewConsultaService(consultaRepo)
	almacenamientoSvc := service.NewAlmacenamientoService(almacenamientoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	consultasH := handler.NewConsultasHandler(consultaSvc)
	almacenamientoH := handler.NewAlmacenamientoHandler(almacenamientoSvc)

	todos := []string{model.RolGerente, model.RolEncargado, model.RolCajero}
	staff := []string{model.RolGerente, model.RolEncargado}

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.RateLimiter(rdb, middleware.LoginLimite), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Token checked by the handler itself (query param or header)
	r.GET("/v1/ws/stock", handler.StockWS(hub, cfg.JWTSecret))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW, middleware.RateLimiter(rdb, middleware.APILimite))
	{
		v1.GET("/auth/me", authH.Me)

		// Productos: everybody reads, staff writes
		v1.GET("/productos", middleware.RequireRole(todos...), productosH.Listar)
		v1.GET("/productos/stock-bajo", middleware.RequireRole(todos...), productosH.StockBajo)
		v1.GET("/productos/:id", middleware.RequireRole(todos...), productosH.ObtenerPorID)
		prods := v1.Group("/productos", middleware.RequireRole(staff...))
		{
			prods.POST("", productosH.Crear)
			prods.PATCH("/:id", productosH.Actualizar)
			prods.DELETE("/:id", middleware.RequireRole(model.RolGerente), productosH.Eliminar)
		}

		ventas := v1.Group("/ventas", middleware.RequireRole(todos...))
		{
			ventas.POST("", ventasH.Registrar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.ObtenerPorID)
			ventas.GET("/:id/ticket", ventasH.Ticket)
		}

		inv := v1.Group("/inventario", middleware.RequireRole(staff...))
		{
			inv.POST("/cambios", inventarioH.RegistrarCambio)
			inv.GET("/cambios", inventarioH.ListarCambios)
			inv.GET("/auditoria", inventarioH.ListarAuditoria)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
		}

		reportes := v1.Group("/reportes-stock")
		{
			reportes.POST("", middleware.RequireRole(todos...), reportesH.Crear)
			reportes.GET("", middleware.RequireRole(staff...), reportesH.Listar)
			reportes.POST("/:id/resolver", middleware.RequireRole(staff...), reportesH.Resolver)
		}

		caja := v1.Group("/caja", middleware.RequireRole(todos...))
		{
			caja.POST("/movimientos", cajaH.RegistrarMovimiento)
			caja.GET("/movimientos", cajaH.Listar)
			caja.GET("/resumen", middleware.RequireRole(staff...), cajaH.Resumen)
		}

		compras := v1.Group("/compras", middleware.RequireRole(staff...))
		{
			compras.POST("", comprasH.Crear)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.ObtenerPorID)
			compras.POST("/:id/aprobar", middleware.RequireRole(model.RolGerente), comprasH.Aprobar)
			compras.POST("/:id/rechazar", middleware.RequireRole(model.RolGerente), comprasH.Rechazar)
		}

		pedidos := v1.Group("/pedidos", middleware.RequireRole(todos...))
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.ObtenerPorID)
			pedidos.PATCH("/:id/estado", pedidosH.ActualizarEstado)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole(staff...))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.RolGerente))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PATCH("/:id", usuariosH.Actualizar)
		}
		v1.GET("/roles", middleware.RequireRole(model.RolGerente), usuariosH.ListarRoles)

		// Per-user storage and queries: any authenticated user, scoped to self
		alm := v1.Group("/almacenamiento")
		{
			alm.GET("", almacenamientoH.Listar)
			alm.GET("/:clave", almacenamientoH.Obtener)
			alm.PUT("/:clave", almacenamientoH.Guardar)
			alm.DELETE("/:clave", almacenamientoH.Eliminar)
		}

		consultas := v1.Group("/consultas")
		{
			consultas.POST("", consultasH.Crear)
			consultas.GET("", consultasH.Listar)
			consultas.PATCH("/:id/estado", middleware.RequireRole(model.RolGerente), consultasH.ActualizarEstado)
		}
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
