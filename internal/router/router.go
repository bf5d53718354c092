// Package router builds the Echo instance: global middleware, the system
// routes and the /api/defectInfo group.
package router

import (
	"github.com/deppfellow/defect-service/internal/handler"
	"github.com/deppfellow/defect-service/internal/middleware"
	"github.com/deppfellow/defect-service/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id must exist before tracing and the
	// request logger read it, and Recover has to wrap the handlers.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api", middlewares.RateLimit.Limit())
	registerDefectRoutes(api, h, middlewares.Auth)

	return router
}

// registerDefectRoutes mounts the defect gateway. Authentication is
// optional at this layer; the service decides which operations need a
// session.
func registerDefectRoutes(api *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	defects := api.Group("/defectInfo", auth.Authenticate)

	defects.POST("/update", h.Defect.UpdateDefect())
	defects.POST("/search", h.Defect.SearchDefects())
	defects.POST("/search/MyDefectInfoVOList", h.Defect.ListMyDefects())
	defects.GET("/stats", h.Defect.Stats())
}
