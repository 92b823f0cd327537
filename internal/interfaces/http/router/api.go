package router

import (
	"github.com/gin-gonic/gin"
	"github.com/partnerpro/product-manager/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Product   *handler.ProductHandler
	Dashboard *handler.DashboardHandler
	Export    *handler.ExportHandler
	AI        *handler.AIHandler
	Auth      *handler.AuthHandler
	System    *handler.SystemHandler
}

// ProductRoutes builds /products. Static segments are registered before /:id.
func ProductRoutes(h *handler.ProductHandler) *DomainGroup {
	return NewDomainGroup("/products").
		GET("", h.List).
		POST("", h.Create).
		POST("/filter", h.Filter).
		POST("/search", h.Search).
		GET("/sorted", h.ListSorted).
		GET("/category/:category", h.ListByCategory).
		GET("/export/csv", h.ExportCSV).
		GET("/export/pdf", h.ExportPDF).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// DashboardRoutes builds /dashboard
func DashboardRoutes(h *handler.DashboardHandler) *DomainGroup {
	return NewDomainGroup("/dashboard").
		GET("", h.Summary)
}

// ExportRoutes builds /export
func ExportRoutes(h *handler.ExportHandler) *DomainGroup {
	return NewDomainGroup("/export").
		GET("/products/csv", h.ProductsCSV).
		GET("/products/pdf", h.ProductsPDF).
		GET("/dashboard/pdf", h.DashboardPDF)
}

// AIRoutes builds /ai. middleware runs only for these routes.
func AIRoutes(h *handler.AIHandler, middleware ...gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("/ai").
		Use(middleware...).
		POST("/report", h.Report).
		POST("/query", h.SmartQuery).
		POST("/chat", h.Chat).
		POST("/chat/visual", h.ChatVisual).
		POST("/chat/clear", h.ClearChat).
		GET("/charts/:kind", h.Chart).
		GET("/sessions", h.ActiveSessions).
		DELETE("/sessions", h.ClearAllSessions)
}

// AuthRoutes builds /auth
func AuthRoutes(h *handler.AuthHandler) *DomainGroup {
	return NewDomainGroup("/auth").
		POST("/register", h.Register).
		POST("/login", h.Login)
}

// SystemRoutes builds /system
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}

// RegisterAPI registers every API domain group on r. aiMiddleware is applied
// to the assistant routes only.
func RegisterAPI(r *Router, h Handlers, aiMiddleware ...gin.HandlerFunc) *Router {
	return r.Register(ProductRoutes(h.Product)).
		Register(DashboardRoutes(h.Dashboard)).
		Register(ExportRoutes(h.Export)).
		Register(AIRoutes(h.AI, aiMiddleware...)).
		Register(AuthRoutes(h.Auth)).
		Register(SystemRoutes(h.System))
}
