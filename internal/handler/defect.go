package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/defect-service/internal/model/defect"
	"github.com/deppfellow/defect-service/internal/server"
	"github.com/labstack/echo/v4"
)

// DefectGateway is the service behind the /api/defectInfo routes.
type DefectGateway interface {
	UpdateDefect(ctx context.Context, req *defect.UpdateDefectRequest) (bool, error)
	SearchDefects(ctx context.Context, req *defect.QueryDefectRequest) ([]defect.DefectInfoVO, error)
	ListMyDefects(ctx context.Context) ([]defect.DefectInfoVO, error)
	DefectStats(ctx context.Context) (*defect.DefectStatsVO, error)
}

type DefectHandler struct {
	Handler
	defects DefectGateway
}

func NewDefectHandler(s *server.Server, defects DefectGateway) *DefectHandler {
	return &DefectHandler{
		Handler: NewHandler(s),
		defects: defects,
	}
}

// UpdateDefect serves POST /api/defectInfo/update.
func (h *DefectHandler) UpdateDefect() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *defect.UpdateDefectRequest) (bool, error) {
		return h.defects.UpdateDefect(c.Request().Context(), req)
	}, http.StatusOK, func() *defect.UpdateDefectRequest { return &defect.UpdateDefectRequest{} })
}

// SearchDefects serves POST /api/defectInfo/search. The service checks the
// session and the owner before it validates the filter.
func (h *DefectHandler) SearchDefects() echo.HandlerFunc {
	return HandleSessionFirst(h.Handler, func(c echo.Context, req *defect.QueryDefectRequest) ([]defect.DefectInfoVO, error) {
		return h.defects.SearchDefects(c.Request().Context(), req)
	}, http.StatusOK, func() *defect.QueryDefectRequest { return &defect.QueryDefectRequest{} })
}

// ListMyDefects serves POST /api/defectInfo/search/MyDefectInfoVOList.
// The body, if any, is ignored.
func (h *DefectHandler) ListMyDefects() echo.HandlerFunc {
	return HandleSessionFirst(h.Handler, func(c echo.Context, _ *defect.MyDefectsRequest) ([]defect.DefectInfoVO, error) {
		return h.defects.ListMyDefects(c.Request().Context())
	}, http.StatusOK, newMyDefectsRequest)
}

func (h *DefectHandler) Stats() echo.HandlerFunc {
	return HandleSessionFirst(h.Handler, func(c echo.Context, _ *defect.MyDefectsRequest) (*defect.DefectStatsVO, error) {
		return h.defects.DefectStats(c.Request().Context())
	}, http.StatusOK, newMyDefectsRequest)
}

func newMyDefectsRequest() *defect.MyDefectsRequest { return &defect.MyDefectsRequest{} }
