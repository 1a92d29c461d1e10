package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursekit/coursekit/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Pages     *PageHandler
	Builder   *BuilderHandler
	Revisions *RevisionHandler
	Terms     *TermHandler
	Templates *TemplateHandler
	Assets    *AssetHandler
	Render    *RenderHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.POST("/pages", deps.Pages.Create)
	authGroup.GET("/pages", deps.Pages.List)
	authGroup.GET("/pages/:id", deps.Pages.Get)
	authGroup.PUT("/pages/:id", deps.Pages.Update)
	authGroup.DELETE("/pages/:id", deps.Pages.Delete)
	authGroup.PUT("/pages/:id/terms", deps.Pages.AssignTerms)

	authGroup.PUT("/pages/:id/builder/enable", deps.Builder.Enable)
	authGroup.GET("/pages/:id/builder", deps.Builder.Get)
	authGroup.GET("/pages/:id/builder/preview", deps.Builder.Preview)
	authGroup.POST("/pages/:id/builder/sections", deps.Builder.AddSection)
	authGroup.DELETE("/pages/:id/builder/sections/:sectionId", deps.Builder.DeleteSection)
	authGroup.POST("/pages/:id/builder/widgets", deps.Builder.AddWidget)
	authGroup.DELETE("/pages/:id/builder/widgets/:widgetId", deps.Builder.DeleteWidget)
	authGroup.GET("/pages/:id/builder/widgets/:widgetId/form", deps.Builder.WidgetForm)
	authGroup.PUT("/pages/:id/builder/widgets/:widgetId/settings", deps.Builder.UpdateWidgetSettings)
	authGroup.PUT("/pages/:id/builder/columns/:columnId/order", deps.Builder.ReorderWidgets)
	authGroup.POST("/pages/:id/builder/template", deps.Builder.ApplyTemplate)

	saveGroup := authGroup.Group("")
	saveGroup.Use(middleware.RateLimit(500 * time.Millisecond))
	saveGroup.PUT("/pages/:id/builder", deps.Builder.Save)

	authGroup.GET("/pages/:id/revisions", deps.Revisions.List)
	authGroup.GET("/pages/:id/revisions/:revision", deps.Revisions.Get)
	authGroup.POST("/pages/:id/revisions/:revision/restore", deps.Revisions.Restore)

	authGroup.POST("/terms", deps.Terms.Create)
	authGroup.GET("/terms", deps.Terms.List)
	authGroup.DELETE("/terms/:id", deps.Terms.Delete)

	authGroup.POST("/templates", deps.Templates.Create)
	authGroup.GET("/templates", deps.Templates.List)
	authGroup.DELETE("/templates/:id", deps.Templates.Delete)

	authGroup.POST("/assets/upload", deps.Assets.Upload)

	api.GET("/public/pages/:slug", deps.Render.GetBySlug)
	api.GET("/assets/:key", deps.Assets.Get)
}
