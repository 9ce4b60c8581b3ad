package reportpdf

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/goliatone/go-report/report"
)

const defaultPDFScale = 1.0

var pdfLengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// Paper sizes in inches.
var paperSizes = map[string][2]float64{
	"A3":      {11.69, 16.54},
	"A4":      {8.27, 11.69},
	"A5":      {5.83, 8.27},
	"LETTER":  {8.5, 11},
	"LEGAL":   {8.5, 14},
	"TABLOID": {11, 17},
}

var lengthUnits = map[string]float64{
	"in": 1,
	"cm": 2.54,
	"mm": 25.4,
	"pt": 72,
	"px": 96,
}

// ChromiumEngine renders PDFs in tabs of a shared headless Chromium process.
// The browser starts on first use; call Close to stop it.
type ChromiumEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	DefaultPDF report.PDFOptions

	initOnce      sync.Once
	initErr       error
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Render loads the HTML into a fresh tab and prints it.
func (e *ChromiumEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if e == nil {
		return nil, report.NewError(report.KindInternal, "chromium engine is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.start(); err != nil {
		return nil, report.NewError(report.KindConversion, "chromium engine init failed", err)
	}

	options := mergePDFOptions(e.defaults(), req.Options)
	params, err := buildPrintToPDFParams(options)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(e.browserCtx)
	defer cancelTab()

	// The tab derives from the browser context, so request cancellation is
	// forwarded explicitly.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	runCtx := tabCtx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(tabCtx, e.Timeout)
		defer cancel()
	}

	var pdf []byte
	actions := make([]chromedp.Action, 0, 6)
	if options.ExternalAssetsPolicy == report.PDFExternalAssetsBlock {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs([]string{"http://*", "https://*"}),
		)
	}
	htmlInput := injectBaseURL(req.HTML, options.BaseURL)
	actions = append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(htmlInput)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, report.NewError(report.KindTimeout, "chromium pdf render timed out", err)
		}
		return nil, report.NewError(report.KindConversion, "chromium pdf render failed", err)
	}
	return pdf, nil
}

// Close stops the browser if it was started.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *ChromiumEngine) start() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorFlags(e.Args)...)

		var allocCtx context.Context
		allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(allocCtx)
		if e.browserCtx == nil {
			e.initErr = errors.New("chromium allocator unavailable")
			return
		}
		// Launch the browser now so start failures surface once.
		e.initErr = chromedp.Run(e.browserCtx)
	})
	return e.initErr
}

func (e *ChromiumEngine) defaults() report.PDFOptions {
	defaults := e.DefaultPDF
	if defaults.Scale == 0 {
		defaults.Scale = defaultPDFScale
	}
	if defaults.PrintBackground == nil {
		defaults.PrintBackground = boolPtr(true)
	}
	return defaults
}

func mergePDFOptions(base, override report.PDFOptions) report.PDFOptions {
	merged := base
	mergeString(&merged.PageSize, override.PageSize)
	mergeString(&merged.MarginTop, override.MarginTop)
	mergeString(&merged.MarginBottom, override.MarginBottom)
	mergeString(&merged.MarginLeft, override.MarginLeft)
	mergeString(&merged.MarginRight, override.MarginRight)
	mergeString(&merged.BaseURL, override.BaseURL)
	if override.Landscape != nil {
		merged.Landscape = override.Landscape
	}
	if override.PrintBackground != nil {
		merged.PrintBackground = override.PrintBackground
	}
	if override.PreferCSSPageSize != nil {
		merged.PreferCSSPageSize = override.PreferCSSPageSize
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.ExternalAssetsPolicy != report.PDFExternalAssetsUnspecified {
		merged.ExternalAssetsPolicy = override.ExternalAssetsPolicy
	}
	return merged
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func buildPrintToPDFParams(opts report.PDFOptions) (*page.PrintToPDFParams, error) {
	params := page.PrintToPDF()

	scale := opts.Scale
	if scale == 0 {
		scale = defaultPDFScale
	}
	if scale < 0.1 || scale > 2.0 {
		return nil, report.NewError(report.KindValidation, "pdf scale must be between 0.1 and 2.0", nil)
	}
	params = params.WithScale(scale)

	if opts.Landscape != nil {
		params = params.WithLandscape(*opts.Landscape)
	}
	if opts.PrintBackground != nil {
		params = params.WithPrintBackground(*opts.PrintBackground)
	}

	preferCSS := opts.PageSize == ""
	if opts.PreferCSSPageSize != nil {
		preferCSS = *opts.PreferCSSPageSize
	}
	if preferCSS {
		params = params.WithPreferCSSPageSize(true)
	}

	if opts.PageSize != "" {
		size, ok := paperSizes[strings.ToUpper(strings.TrimSpace(opts.PageSize))]
		if !ok {
			return nil, report.NewError(report.KindValidation, fmt.Sprintf("unsupported pdf page size: %s", opts.PageSize), nil)
		}
		params = params.WithPaperWidth(size[0]).WithPaperHeight(size[1])
	}

	margins := []struct {
		value string
		apply func(float64) *page.PrintToPDFParams
	}{
		{opts.MarginTop, func(v float64) *page.PrintToPDFParams { return params.WithMarginTop(v) }},
		{opts.MarginBottom, func(v float64) *page.PrintToPDFParams { return params.WithMarginBottom(v) }},
		{opts.MarginLeft, func(v float64) *page.PrintToPDFParams { return params.WithMarginLeft(v) }},
		{opts.MarginRight, func(v float64) *page.PrintToPDFParams { return params.WithMarginRight(v) }},
	}
	for _, margin := range margins {
		if margin.value == "" {
			continue
		}
		inches, err := parseLengthInches(margin.value)
		if err != nil {
			return nil, err
		}
		params = margin.apply(inches)
	}

	return params, nil
}

func parseLengthInches(value string) (float64, error) {
	matches := pdfLengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, report.NewError(report.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, report.NewError(report.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), err)
	}

	unit := strings.ToLower(matches[2])
	if unit == "" {
		unit = "in"
	}
	perInch, ok := lengthUnits[unit]
	if !ok {
		return 0, report.NewError(report.KindValidation, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
	return amount / perInch, nil
}

// injectBaseURL adds a <base> element so relative asset URLs resolve
// against baseURL. Documents that already declare one are left alone.
func injectBaseURL(htmlInput []byte, baseURL string) []byte {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return htmlInput
	}

	lower := strings.ToLower(string(htmlInput))
	if strings.Contains(lower, "<base") {
		return htmlInput
	}

	baseTag := fmt.Sprintf(`<base href="%s">`, html.EscapeString(baseURL))
	if pos := afterOpeningTag(lower, "<head"); pos >= 0 {
		return insertAt(htmlInput, pos, baseTag)
	}
	if pos := afterOpeningTag(lower, "<html"); pos >= 0 {
		return insertAt(htmlInput, pos, "<head>"+baseTag+"</head>")
	}
	return insertAt(htmlInput, 0, baseTag)
}

func afterOpeningTag(lower, tag string) int {
	start := strings.Index(lower, tag)
	if start < 0 {
		return -1
	}
	end := strings.Index(lower[start:], ">")
	if end < 0 {
		return -1
	}
	return start + end + 1
}

func insertAt(input []byte, pos int, fragment string) []byte {
	out := make([]byte, 0, len(input)+len(fragment))
	out = append(out, input[:pos]...)
	out = append(out, fragment...)
	return append(out, input[pos:]...)
}

func allocatorFlags(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}

func boolPtr(value bool) *bool {
	return &value
}
