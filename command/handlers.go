package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-report/query"
	"github.com/goliatone/go-report/report"
)

// PreviewReportHandler handles preview requests.
type PreviewReportHandler struct {
	Service report.Service
}

func NewPreviewReportHandler(svc report.Service) *PreviewReportHandler {
	return &PreviewReportHandler{Service: svc}
}

func (h *PreviewReportHandler) Execute(ctx context.Context, msg PreviewReport) error {
	if h == nil || h.Service == nil {
		return errors.New("report service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	doc, err := h.Service.Preview(ctx, msg.Form)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = doc
	}
	if res := gcmd.ResultFromContext[report.Document](ctx); res != nil {
		res.Store(doc)
	}
	return nil
}

// GenerateReportHandler handles PDF generation requests.
type GenerateReportHandler struct {
	Service report.Service
}

func NewGenerateReportHandler(svc report.Service) *GenerateReportHandler {
	return &GenerateReportHandler{Service: svc}
}

func (h *GenerateReportHandler) Execute(ctx context.Context, msg GenerateReport) error {
	if h == nil || h.Service == nil {
		return errors.New("report service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	doc, err := h.Service.GeneratePDF(ctx, msg.Form)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = doc
	}
	if res := gcmd.ResultFromContext[report.PDFDocument](ctx); res != nil {
		res.Store(doc)
	}
	return nil
}

// RegisterHandlers wires the report commands and the index query to the
// go-command dispatcher and, when reg is set, registers the commands.
func RegisterHandlers(reg *gcmd.Registry, svc report.Service) ([]dispatcher.Subscription, error) {
	if svc == nil {
		return nil, errors.New("report service is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}

	preview := NewPreviewReportHandler(svc)
	generate := NewGenerateReportHandler(svc)
	index := query.NewIndexPageHandler(svc)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(preview),
		dispatcher.SubscribeCommand(generate),
		dispatcher.SubscribeQuery(index),
	}

	if reg != nil {
		for _, handler := range []any{preview, generate} {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}
	return subscriptions, nil
}
