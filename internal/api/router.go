package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"vitrine/config"
	"vitrine/internal/mw"
	"vitrine/internal/session"
)

// NewRouter creates and configures the view-layer router.
func NewRouter(cfg *config.ServerConfig, h *Handler) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)

	// Public storefront. Only the anonymous, read-only views are cached.
	loja := api.Group("/loja")
	{
		loja.GET("/home", caching, h.GetHome)
		loja.GET("/categorias", caching, h.GetCategoryOptions)
		loja.GET("/produtos", h.GetProducts)
		loja.POST("/produtos/filtros", h.SetProductFilters)
		loja.GET("/produtos/:id", h.GetProductDetail)
	}

	sessao := api.Group("/sessao")
	{
		sessao.GET("", h.GetSession)
		sessao.POST("/login", h.Login)
		sessao.POST("/logout", h.Logout)
		sessao.POST("/registro", h.Register)
	}

	cliente := api.Group("/cliente")
	cliente.Use(h.RequireRole(""))
	{
		cliente.POST("/reservas", h.CreateReservation)
		cliente.GET("/reservas", h.MyReservations)
		cliente.PUT("/reservas/:id/cancelar", h.CancelReservation)
		cliente.GET("/notificacoes", h.GetNotifications)
		cliente.POST("/notificacoes/confirmar", h.AcknowledgeNotifications)
	}

	admin := api.Group("/admin")
	admin.Use(h.RequireRole(session.RoleAdmin))
	{
		admin.GET("/produtos", h.GetManageProducts)
		admin.POST("/produtos/filtros", h.SetManageProductFilters)
		admin.POST("/produtos", h.CreateProduct)
		admin.PUT("/produtos/:id", h.UpdateProduct)
		admin.PUT("/produtos/:id/ativar", h.ActivateProduct)
		admin.PUT("/produtos/:id/inativar", h.DeactivateProduct)

		admin.GET("/categorias", h.GetManageCategories)
		admin.POST("/categorias/filtros", h.SetManageCategoryFilters)
		admin.GET("/categorias/opcoes", h.GetManageCategoryOptions)
		admin.GET("/categorias/:id", h.GetCategoryDetail)
		admin.POST("/categorias", h.CreateCategory)
		admin.PUT("/categorias/:id", h.UpdateCategory)
		admin.PUT("/categorias/:id/ativar", h.ActivateCategory)
		admin.PUT("/categorias/:id/inativar", h.DeactivateCategory)

		admin.GET("/reservas", h.AdminReservations)
		admin.PUT("/reservas/:id", h.AdminUpdateReservation)
	}

	return r
}
