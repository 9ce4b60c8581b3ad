package reportrouter

import (
	"context"
	"net/url"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-report/adapters/reportapi"
	"github.com/goliatone/go-report/report"
)

var (
	_ reportapi.Request  = routerRequest{}
	_ reportapi.Response = routerResponse{}
)

type routerRequest struct {
	ctx router.Context
}

func (req routerRequest) Context() context.Context {
	if req.ctx == nil {
		return context.Background()
	}
	return req.ctx.Context()
}

func (req routerRequest) Method() string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Method()
}

func (req routerRequest) Path() string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Path()
}

func (req routerRequest) Header(name string) string {
	if req.ctx == nil {
		return ""
	}
	return req.ctx.Header(name)
}

// Form prefers the underlying *http.Request when the adapter exposes one and
// otherwise decodes the buffered body.
func (req routerRequest) Form(maxBytes int64) (url.Values, error) {
	if req.ctx == nil {
		return nil, report.NewError(report.KindInternal, "request is nil", nil)
	}
	if httpCtx, ok := router.AsHTTPContext(req.ctx); ok {
		if httpReq := httpCtx.Request(); httpReq != nil {
			return reportapi.ParseHTTPForm(httpCtx.Response(), httpReq, maxBytes)
		}
	}
	return reportapi.ParseFormBody(req.ctx.Header("Content-Type"), req.ctx.Body(), maxBytes)
}

type routerResponse struct {
	ctx router.Context
}

func (res routerResponse) SetHeader(name, value string) {
	if res.ctx == nil {
		return
	}
	res.ctx.SetHeader(name, value)
}

func (res routerResponse) WriteHeader(status int) {
	if res.ctx == nil {
		return
	}
	res.ctx.Status(status)
}

func (res routerResponse) Write(data []byte) (int, error) {
	if res.ctx == nil {
		return 0, nil
	}
	if err := res.ctx.Send(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (res routerResponse) WriteJSON(status int, payload any) error {
	if res.ctx == nil {
		return nil
	}
	return res.ctx.JSON(status, payload)
}
