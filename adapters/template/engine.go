package reporttemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-report/report"
)

// DefaultExtension is appended to template names without one.
const DefaultExtension = ".html"

// Option configures the Engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	globalData map[string]any
	reload     bool
}

// WithBaseDir loads templates from a directory on disk. Templates found there
// take precedence over the ones supplied through WithFS.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithReload parses templates on every execution instead of caching them.
func WithReload(enabled bool) Option {
	return func(cfg *config) {
		cfg.reload = enabled
	}
}

// Engine executes named pongo2 templates. Output is autoescaped; templates
// opt out per value with the safe filter.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
	reload    bool
}

var _ report.TemplateExecutor = (*Engine)(nil)

// New constructs an Engine. At least one of WithFS or WithBaseDir is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: DefaultExtension}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("reporttemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("reporttemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	set := pongo2.NewSet("report", loaders...)
	if len(cfg.globalData) > 0 {
		set.Globals.Update(pongo2.Context(cfg.globalData))
	}

	return &Engine{
		set:       set,
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
		reload:    cfg.reload,
	}, nil
}

// ExecuteTemplate renders the named template into w. Output is buffered, so
// nothing is written when execution fails.
func (e *Engine) ExecuteTemplate(w io.Writer, name string, data any) error {
	if e == nil || e.set == nil {
		return errors.New("reporttemplate: engine is nil")
	}
	path := e.templatePath(name)

	tmpl, err := e.lookup(path)
	if err != nil {
		return err
	}

	ctx, err := toContext(data)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return fmt.Errorf("reporttemplate: execute template %q: %w", path, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func (e *Engine) templatePath(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, e.ext) {
		return name
	}
	return name + e.ext
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	if e.reload {
		tmpl, err := e.set.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("reporttemplate: load template %q: %w", path, err)
		}
		return tmpl, nil
	}

	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reporttemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	case report.DocumentData:
		return pongo2.Context{"data": v.Context()}, nil
	default:
		return nil, fmt.Errorf("reporttemplate: unsupported template data %T", data)
	}
}
