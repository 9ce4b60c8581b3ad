package query

import (
	"context"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-report/report"
)

// IndexPageHandler renders the submission form.
type IndexPageHandler struct {
	Service report.Service
}

func NewIndexPageHandler(svc report.Service) *IndexPageHandler {
	return &IndexPageHandler{Service: svc}
}

func (h *IndexPageHandler) Query(ctx context.Context, msg IndexPage) ([]byte, error) {
	_ = msg
	if h == nil || h.Service == nil {
		return nil, errors.New("report service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Index(ctx)
}
