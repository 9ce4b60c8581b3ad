package reportrouter

import (
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-report/adapters/reportapi"
	"github.com/goliatone/go-report/report"
)

// Config configures the go-router adapter.
type Config = reportapi.Config

// Handler exposes the report routes for go-router.
type Handler struct {
	controller *reportapi.Controller
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: reportapi.NewController(cfg)}
}

// RegisterRoutes registers routes on a compatible go-router router. The
// opposite method of every route is registered too so the controller can
// answer 405 instead of the router's 404.
func (h *Handler) RegisterRoutes(router any) {
	r, ok := router.(routeRegistrar)
	if !ok {
		return
	}

	r.Get(reportapi.PathIndex, h.Handle)
	r.Post(reportapi.PathIndex, h.Handle)
	for _, path := range []string{reportapi.PathPreview, reportapi.PathGeneratePDF} {
		r.Post(path, h.Handle)
		r.Get(path, h.Handle)
	}
}

// Handle executes the shared report workflow.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		reportapi.WriteError(routerResponse{ctx: c}, report.NewError(report.KindInternal, "handler is nil", nil))
		return nil
	}
	h.controller.Serve(routerRequest{ctx: c}, routerResponse{ctx: c})
	return nil
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
