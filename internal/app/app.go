package app

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	reporthttp "github.com/goliatone/go-report/adapters/http"
	reportlogrus "github.com/goliatone/go-report/adapters/logrus"
	reportpdf "github.com/goliatone/go-report/adapters/pdf"
	reportrouter "github.com/goliatone/go-report/adapters/router"
	reporttemplate "github.com/goliatone/go-report/adapters/template"
	"github.com/goliatone/go-report/command"
	"github.com/goliatone/go-report/internal/config"
	"github.com/goliatone/go-report/report"
)

// App holds the application dependencies.
type App struct {
	Config    config.Config
	Logger    reportlogrus.Logger
	Templates *reporttemplate.Engine
	Service   report.Service

	subscriptions []dispatcher.Subscription
	closeEngine   func() error
}

// New wires templates, the PDF engine, the report service and the command
// handlers. Logs go to out.
func New(cfg config.Config, out io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := reportlogrus.Wrap(reportlogrus.New(cfg.Log.Level, out))

	templateOpts := []reporttemplate.Option{
		reporttemplate.WithFS(report.TemplatesFS()),
		reporttemplate.WithReload(cfg.Templates.Reload),
	}
	if cfg.Templates.Dir != "" {
		templateOpts = append(templateOpts, reporttemplate.WithBaseDir(cfg.Templates.Dir))
	}
	templates, err := reporttemplate.New(templateOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}

	converter := reportpdf.Converter{
		Enabled:      cfg.PDF.Enabled,
		MaxHTMLBytes: cfg.PDF.MaxHTMLBytes,
	}
	closeEngine := func() error { return nil }
	if cfg.PDF.Enabled {
		engine, closeFn, err := reportpdf.NewEngine(cfg.EngineConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize pdf engine: %w", err)
		}
		converter.Engine = engine
		closeEngine = closeFn
		logger.Infof("pdf engine: %s", engineName(cfg.PDF.Engine))
	} else {
		logger.Infof("pdf generation disabled")
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	policy := cfg.Policy()
	if policy == report.PolicyRaw {
		logger.Warnf("content policy %q writes submitted markup into documents unescaped", policy)
	}

	service := report.NewService(report.ServiceConfig{
		Templates:   templates,
		Converter:   converter,
		Policy:      policy,
		PDF:         cfg.PDF.Options,
		Location:    location,
		Logger:      logger,
		MaxSections: cfg.Report.MaxSections,
	})

	subscriptions, err := command.RegisterHandlers(nil, service)
	if err != nil {
		_ = closeEngine()
		return nil, fmt.Errorf("failed to register report handlers: %w", err)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		Templates:     templates,
		Service:       service,
		subscriptions: subscriptions,
		closeEngine:   closeEngine,
	}, nil
}

func (a *App) controllerConfig() reporthttp.Config {
	return reporthttp.Config{
		Service:      a.Service,
		Logger:       a.Logger,
		IDGenerator:  uuid.NewString,
		MaxFormBytes: a.Config.Server.MaxFormBytes,
		MaxSections:  a.Config.Report.MaxSections,
	}
}

// HTTPHandler returns the net/http transport on a gorilla/mux router.
func (a *App) HTTPHandler() http.Handler {
	r := mux.NewRouter()
	reporthttp.NewHandler(a.controllerConfig()).RegisterMux(r)
	return r
}

// RouterHandler returns the go-router transport.
func (a *App) RouterHandler() *reportrouter.Handler {
	return reportrouter.NewHandler(a.controllerConfig())
}

// Close releases app resources.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	a.subscriptions = nil
	if a.closeEngine != nil {
		err := a.closeEngine()
		a.closeEngine = nil
		return err
	}
	return nil
}

func engineName(name string) string {
	if name == "" {
		return reportpdf.EngineChromium
	}
	return name
}
