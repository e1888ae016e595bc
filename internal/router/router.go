package router

import (
	"time"

	"github.com/Verone2021/Verone-V1-sub003/internal/config"
	"github.com/Verone2021/Verone-V1-sub003/internal/handler"
	"github.com/Verone2021/Verone-V1-sub003/internal/infra"
	"github.com/Verone2021/Verone-V1-sub003/internal/middleware"
	"github.com/Verone2021/Verone-V1-sub003/internal/repository"
	"github.com/Verone2021/Verone-V1-sub003/internal/service"
	"github.com/Verone2021/Verone-V1-sub003/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, media *infra.MediaStore) *gin.Engine {
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
	userRepo := repository.NewUserRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	sampleOrderRepo := repository.NewSampleOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	sampleSvc := service.NewSampleService(sampleOrderRepo, dispatcher)
	draftSvc := service.NewDraftService(draftRepo, sampleOrderRepo, sampleSvc, media, dispatcher)
	promotionSvc := service.NewPromotionService(draftRepo, productRepo, decimal.NewFromInt(int64(cfg.DefaultMarginPct)))
	productSvc := service.NewProductService(productRepo, rdb)
	supplierSvc := service.NewSupplierService(supplierRepo)
	categorySvc := service.NewCategoryService(categoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	draftsH := handler.NewDraftsHandler(draftSvc)
	promotionH := handler.NewPromotionHandler(promotionSvc)
	samplesH := handler.NewSampleOrdersHandler(sampleSvc)
	productsH := handler.NewProductsHandler(productSvc)
	pricingH := handler.NewPricingHandler()
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, media.Breaker()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Catalogue check — no auth required, redis-cached
	r.GET("/v1/catalogue/:sku", productsH.LookupBySKU)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: acheteur, approbateur, admin — declared per-endpoint
		anyRole := middleware.RequireRole(service.RoleBuyer, service.RoleApprover, service.RoleAdmin)

		drafts := v1.Group("/drafts", anyRole)
		{
			drafts.POST("", draftsH.Create)
			drafts.GET("", draftsH.List)
			drafts.GET("/:id", draftsH.GetByID)
			drafts.PATCH("/:id", draftsH.Update)
			drafts.GET("/:id/completeness", draftsH.Completeness)
			drafts.POST("/:id/validate-sourcing", draftsH.ValidateSourcing)
			drafts.POST("/:id/request-sample", draftsH.RequestSample)
			drafts.POST("/:id/promote", promotionH.Promote)

			drafts.POST("/:id/images", draftsH.AddImage)
			drafts.PATCH("/:id/images/:imageId/primary", draftsH.SetPrimaryImage)
			drafts.DELETE("/:id/images/:imageId", draftsH.DeleteImage)
		}

		// Bulk sample validation — approbateur decision recorded from the lab
		v1.POST("/samples/validation",
			middleware.RequireRole(service.RoleApprover, service.RoleAdmin),
			draftsH.RecordSampleValidation)

		orders := v1.Group("/sample-orders", anyRole)
		{
			orders.GET("", samplesH.List)
			orders.GET("/:id", samplesH.GetByID)
			orders.POST("/:id/submit", samplesH.Submit)
			orders.POST("/:id/approve",
				middleware.RequireRole(service.RoleApprover, service.RoleAdmin),
				samplesH.Approve)
			orders.POST("/:id/delivered", samplesH.MarkDelivered)
		}

		v1.POST("/pricing/preview", anyRole, pricingH.Preview)

		products := v1.Group("/products", anyRole)
		{
			products.GET("", productsH.List)
			products.GET("/:id", productsH.GetByID)
			products.GET("/:id/price-snapshots", productsH.PriceSnapshots)
		}

		// Suppliers — admin can write, all authenticated can read
		v1.GET("/suppliers", anyRole, suppliersH.List)
		v1.GET("/suppliers/:id", anyRole, suppliersH.GetByID)
		suppliers := v1.Group("/suppliers", middleware.RequireRole(service.RoleAdmin))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		// Categories — admin can write, all authenticated can read
		v1.GET("/categories", anyRole, categoriesH.List)
		categories := v1.Group("/categories", middleware.RequireRole(service.RoleAdmin))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}

		users := v1.Group("/users", middleware.RequireRole(service.RoleAdmin))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	return r
}
