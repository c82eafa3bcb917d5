package router

import (
	"time"

	"github.com/MiguelAngelEc/preciosSoley/internal/config"
	"github.com/MiguelAngelEc/preciosSoley/internal/handler"
	"github.com/MiguelAngelEc/preciosSoley/internal/middleware"
	"github.com/MiguelAngelEc/preciosSoley/internal/repository"
	"github.com/MiguelAngelEc/preciosSoley/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
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
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	materialRepo := repository.NewMaterialRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	egresoRepo := repository.NewEgresoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cache := service.NewPrecioCache(rdb)
	materialSvc := service.NewMaterialService(materialRepo, cache)
	productoSvc := service.NewProductoService(productoRepo, materialRepo, cache)
	inventarioSvc := service.NewInventarioService(inventarioRepo, movimientoRepo, egresoRepo, productoRepo)
	egresoSvc := service.NewEgresoService(egresoRepo, inventarioRepo, movimientoRepo, productoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	materialesH := handler.NewMaterialesHandler(materialSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	egresosH := handler.NewEgresosHandler(egresoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		materiales := v1.Group("/materiales")
		{
			materiales.POST("", materialesH.Crear)
			materiales.GET("", materialesH.Listar)
			materiales.GET("/:id", materialesH.Obtener)
			materiales.PUT("/:id", materialesH.Actualizar)
			materiales.DELETE("/:id", materialesH.Eliminar)
			materiales.POST("/:id/costo", materialesH.CalcularCosto)
		}

		productos := v1.Group("/products")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/costos-totales", productosH.CostosTotales)
			productos.GET("/:id", productosH.Obtener)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
			productos.POST("/:id/duplicar", productosH.Duplicar)
			productos.GET("/:id/calculadora", productosH.Calculadora)
			productos.GET("/:id/precios", productosH.ConsultaPrecios)
		}

		inventario := v1.Group("/inventario")
		{
			inventario.POST("", inventarioH.CrearLote)
			inventario.GET("", inventarioH.Listar)
			inventario.GET("/resumen", inventarioH.Resumen)
			inventario.GET("/bajo-stock", inventarioH.BajoStock)
			inventario.GET("/producto/:product_id", inventarioH.PorProducto)
			inventario.GET("/reporte/diario", inventarioH.ReporteDiario)
			inventario.GET("/reporte/periodo", inventarioH.ReportePeriodo)
			inventario.GET("/:id", inventarioH.Obtener)
			inventario.PUT("/:id", inventarioH.Actualizar)
			inventario.DELETE("/:id", inventarioH.Eliminar)
			inventario.POST("/:id/movimientos", inventarioH.RegistrarMovimiento)
			inventario.GET("/:id/movimientos", inventarioH.ListarMovimientos)
			inventario.GET("/:id/egresos", egresosH.ListarPorInventario)
		}

		egresos := v1.Group("/egresos")
		{
			egresos.POST("", egresosH.Registrar)
			egresos.GET("/reporte", egresosH.Reporte)
			egresos.GET("/:id", egresosH.Obtener)
			egresos.PUT("/:id", egresosH.Actualizar)
			egresos.DELETE("/:id", egresosH.Eliminar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
