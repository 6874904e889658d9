package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"bakeshop/internal/infra/config"
	"bakeshop/internal/infra/obs"
)

type AvailabilityHTTP interface {
	Check(c *gin.Context)
	Dates(c *gin.Context)
}

type OrderHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
}

type CatalogHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
}

type PromoHTTP interface {
	Validate(c *gin.Context)
}

type WalletHTTP interface {
	Balance(c *gin.Context)
	Trial(c *gin.Context)
	Debit(c *gin.Context)
}

type AuthHTTP interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

type AdminHTTP interface {
	ListBlockedDates(c *gin.Context)
	BlockDate(c *gin.Context)
	UnblockDate(c *gin.Context)
	ListOrders(c *gin.Context)
	ConfirmOrder(c *gin.Context)
	CancelOrder(c *gin.Context)
	RescheduleOrder(c *gin.Context)
	CreateProduct(c *gin.Context)
	UpdateProduct(c *gin.Context)
	ArchiveProduct(c *gin.Context)
	UploadProductPhoto(c *gin.Context)
	ListPromos(c *gin.Context)
	CreatePromo(c *gin.Context)
	DeletePromo(c *gin.Context)
}

type Handlers struct {
	Availability   AvailabilityHTTP
	Order          OrderHTTP
	Catalog        CatalogHTTP
	Promo          PromoHTTP
	Wallet         WalletHTTP
	Auth           AuthHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := NewRouter(obsMW, health, h)
	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

// NewRouter builds the route tree without the listener so tests can drive
// it through httptest.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		api.GET("/availability/check", h.Availability.Check)
		api.GET("/availability/dates", h.Availability.Dates)
	}
	if h.Order != nil {
		api.POST("/orders", h.Order.Create)
		api.GET("/orders/:id", h.Order.Get)
	}
	if h.Catalog != nil {
		api.GET("/products", h.Catalog.List)
		api.GET("/products/:id", h.Catalog.Get)
	}
	if h.Promo != nil {
		api.POST("/promos/validate", h.Promo.Validate)
	}
	if h.Wallet != nil {
		walletGroup := api.Group("/wallet")
		walletGroup.GET("/:customer_id", h.Wallet.Balance)
		walletGroup.POST("/:customer_id/trial", h.Wallet.Trial)
		walletGroup.POST("/:customer_id/debit", h.Wallet.Debit)
	}
	if h.Auth != nil {
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
	}
	if h.Admin != nil {
		adminGroup := api.Group("/admin")
		adminGroup.GET("/blocked-dates", h.Admin.ListBlockedDates)
		adminGroup.POST("/blocked-dates", h.Admin.BlockDate)
		adminGroup.DELETE("/blocked-dates", h.Admin.UnblockDate)
		adminGroup.GET("/orders", h.Admin.ListOrders)
		adminGroup.POST("/orders/:id/confirm", h.Admin.ConfirmOrder)
		adminGroup.POST("/orders/:id/cancel", h.Admin.CancelOrder)
		adminGroup.POST("/orders/:id/reschedule", h.Admin.RescheduleOrder)
		adminGroup.POST("/products", h.Admin.CreateProduct)
		adminGroup.PUT("/products/:id", h.Admin.UpdateProduct)
		adminGroup.POST("/products/:id/archive", h.Admin.ArchiveProduct)
		adminGroup.POST("/products/:id/photo", h.Admin.UploadProductPhoto)
		adminGroup.GET("/promos", h.Admin.ListPromos)
		adminGroup.POST("/promos", h.Admin.CreatePromo)
		adminGroup.DELETE("/promos/:code", h.Admin.DeletePromo)
	}

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
