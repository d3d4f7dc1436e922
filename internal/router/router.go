package router

import (
	"github.com/gin-gonic/gin"

	"taxdesk/internal/domain"
	"taxdesk/internal/handler"
	"taxdesk/internal/middleware"
	"taxdesk/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	filingH *handler.FilingHandler,
	permissionH *handler.PermissionHandler,
	onBehalfH *handler.OnBehalfHandler,
	clientH *handler.ClientHandler,
	userH *handler.UserHandler,
	tenantH *handler.TenantHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	reviewerOnly := middleware.RequireRole(domain.RoleAdmin, domain.RoleSystemAdmin)

	// Filing lifecycle
	filings := protected.Group("/tax-filings")
	filings.POST("", filingH.Create)
	filings.GET("", filingH.List)
	filings.GET("/export", filingH.Export)
	filings.GET("/:id", filingH.GetByID)
	filings.PUT("/:id", filingH.Update)
	filings.DELETE("/:id", reviewerOnly, filingH.Delete)
	filings.GET("/:id/validate", filingH.Validate)
	filings.POST("/:id/submit", filingH.Submit)
	filings.POST("/:id/review", reviewerOnly, filingH.Review)
	filings.POST("/:id/transmit", reviewerOnly, filingH.Transmit)
	filings.POST("/:id/authority-status", filingH.AuthorityStatus)
	filings.GET("/:id/schedules", filingH.ListSchedules)
	filings.POST("/:id/schedules", filingH.SaveSchedules)
	filings.POST("/:id/attachments", filingH.UploadAttachment)
	filings.GET("/:id/attachments", filingH.ListAttachments)

	attachments := protected.Group("/attachments")
	attachments.GET("/:id/download-url", filingH.AttachmentDownloadURL)
	attachments.DELETE("/:id", filingH.DeleteAttachment)

	// Delegation grants
	permissions := protected.Group("/permissions")
	permissions.POST("", reviewerOnly, permissionH.Grant)
	permissions.GET("/expiring", reviewerOnly, permissionH.ListExpiring)
	permissions.GET("/:id", permissionH.GetByID)
	permissions.DELETE("/:id", reviewerOnly, permissionH.Revoke)

	protected.GET("/associates/:id/permissions", permissionH.ListForAssociate)

	// On-behalf action log
	actions := protected.Group("/on-behalf-actions")
	actions.GET("", onBehalfH.List)
	actions.GET("/counts", reviewerOnly, onBehalfH.Counts)

	// Client registry
	clients := protected.Group("/clients")
	clients.POST("", reviewerOnly, clientH.Create)
	clients.GET("", clientH.List)
	clients.GET("/:id", clientH.GetByID)
	clients.PUT("/:id", reviewerOnly, clientH.Update)
	clients.DELETE("/:id", reviewerOnly, clientH.Delete)

	// User management (tenant-scoped)
	users := protected.Group("/users")
	users.POST("", reviewerOnly, userH.Create)
	users.GET("", reviewerOnly, userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id", userH.Update)
	users.DELETE("/:id", reviewerOnly, userH.Delete)

	// Admin routes - tenant provisioning
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.GET("/tenants/:id", tenantH.GetByID)
	admin.POST("/tenants", middleware.RequireRole(domain.RoleSystemAdmin), tenantH.Create)
	admin.GET("/tenants", middleware.RequireRole(domain.RoleSystemAdmin), tenantH.List)
	admin.PUT("/tenants/:id", middleware.RequireRole(domain.RoleSystemAdmin), tenantH.Update)

	return r
}
