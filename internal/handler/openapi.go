package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/defect-service/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIUIPath is the page served at /docs. It loads static/openapi.json.
const OpenAPIUIPath = "static/openapi.html"

type OpenAPIHandler struct {
	Handler
	uiPath string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		uiPath:  OpenAPIUIPath,
	}
}

// ServeOpenAPIUI serves the docs page uncached so that edits show up
// without a hard reload.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := os.ReadFile(h.uiPath)
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTML(http.StatusOK, string(page))
}
