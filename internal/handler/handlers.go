// Package handler is the HTTP layer. Each handler binds and validates the
// request body, calls the service layer and wraps the result in the
// response envelope; errors go back to Echo's error handler.
package handler

import (
	"github.com/deppfellow/defect-service/internal/server"
	"github.com/deppfellow/defect-service/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Defect  *DefectHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Defect:  NewDefectHandler(s, services.Defect),
	}
}
