package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	reportpdf "github.com/goliatone/go-report/adapters/pdf"
	"github.com/goliatone/go-report/report"
)

// Server adapters.
const (
	AdapterFiber = "fiber"
	AdapterHTTP  = "http"
)

// Config holds the report server and CLI configuration.
type Config struct {
	Server    ServerConfig   `yaml:"server"`
	Log       LogConfig      `yaml:"log"`
	Templates TemplateConfig `yaml:"templates"`
	Report    ReportConfig   `yaml:"report"`
	PDF       PDFConfig      `yaml:"pdf"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Adapter         string        `yaml:"adapter"`
	MaxFormBytes    int64         `yaml:"max_form_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     string        `yaml:"cors_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// TemplateConfig holds template engine settings. Dir, when set, overrides the
// embedded templates file by file.
type TemplateConfig struct {
	Dir    string `yaml:"dir"`
	Reload bool   `yaml:"reload"`
}

// ReportConfig holds document assembly settings.
type ReportConfig struct {
	ContentPolicy string `yaml:"content_policy"`
	Timezone      string `yaml:"timezone"`
	MaxSections   int    `yaml:"max_sections"`
}

// PDFConfig holds PDF engine settings.
type PDFConfig struct {
	Enabled         bool              `yaml:"enabled"`
	Engine          string            `yaml:"engine"`
	ChromiumPath    string            `yaml:"chromium_path"`
	ChromiumArgs    []string          `yaml:"chromium_args"`
	Headless        bool              `yaml:"headless"`
	WKHTMLTOPDFPath string            `yaml:"wkhtmltopdf_path"`
	WKHTMLTOPDFArgs []string          `yaml:"wkhtmltopdf_args"`
	Timeout         time.Duration     `yaml:"timeout"`
	MaxHTMLBytes    int64             `yaml:"max_html_bytes"`
	Options         report.PDFOptions `yaml:"options"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            "8080",
			Adapter:         AdapterFiber,
			MaxFormBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     "*",
		},
		Log: LogConfig{Level: "info"},
		Report: ReportConfig{
			ContentPolicy: string(report.DefaultContentPolicy),
			Timezone:      "Local",
			MaxSections:   50,
		},
		PDF: PDFConfig{
			Enabled:      true,
			Engine:       reportpdf.EngineChromium,
			Headless:     true,
			Timeout:      30 * time.Second,
			MaxHTMLBytes: reportpdf.DefaultMaxHTMLBytes,
			Options: report.PDFOptions{
				PageSize:             "A4",
				MarginTop:            "2cm",
				MarginBottom:         "2cm",
				MarginLeft:           "2cm",
				MarginRight:          "2cm",
				ExternalAssetsPolicy: report.PDFExternalAssetsBlock,
			},
		},
	}
}

// Load returns Defaults overlaid with the YAML file at path and then with the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, errors.CategoryExternal, "read config file failed").
				WithTextCode("CONFIG_FILE_READ")
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, errors.Wrap(err, errors.CategoryValidation, "config file invalid YAML").
				WithTextCode("CONFIG_FILE_INVALID")
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}
	env := func(key string) (string, bool) {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			return "", false
		}
		return strings.TrimSpace(value), true
	}

	var problems []string
	setBool := func(key string, dst *bool) {
		if value, ok := env(key); ok {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				problems = append(problems, key)
				return
			}
			*dst = parsed
		}
	}
	setInt := func(key string, dst *int) {
		if value, ok := env(key); ok {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				problems = append(problems, key)
				return
			}
			*dst = parsed
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if value, ok := env(key); ok {
			parsed, err := parseDuration(value)
			if err != nil {
				problems = append(problems, key)
				return
			}
			*dst = parsed
		}
	}
	setString := func(key string, dst *string) {
		if value, ok := env(key); ok {
			*dst = value
		}
	}

	setString("HOST", &c.Server.Host)
	setString("PORT", &c.Server.Port)
	setString("REPORT_SERVER_ADAPTER", &c.Server.Adapter)
	setString("REPORT_CORS_ORIGINS", &c.Server.CORSOrigins)
	if value, ok := env("REPORT_MAX_FORM_BYTES"); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			problems = append(problems, "REPORT_MAX_FORM_BYTES")
		} else {
			c.Server.MaxFormBytes = parsed
		}
	}
	setDuration("REPORT_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	setString("REPORT_LOG_LEVEL", &c.Log.Level)

	setString("REPORT_TEMPLATE_DIR", &c.Templates.Dir)
	setBool("REPORT_TEMPLATE_RELOAD", &c.Templates.Reload)

	setString("REPORT_CONTENT_POLICY", &c.Report.ContentPolicy)
	setString("REPORT_TIMEZONE", &c.Report.Timezone)
	setInt("REPORT_MAX_SECTIONS", &c.Report.MaxSections)

	setBool("REPORT_PDF_ENABLED", &c.PDF.Enabled)
	setString("REPORT_PDF_ENGINE", &c.PDF.Engine)
	setString("REPORT_PDF_CHROMIUM_PATH", &c.PDF.ChromiumPath)
	if value, ok := env("REPORT_PDF_CHROMIUM_ARGS"); ok {
		c.PDF.ChromiumArgs = splitCSV(value)
	}
	setBool("REPORT_PDF_HEADLESS", &c.PDF.Headless)
	setString("REPORT_PDF_WKHTMLTOPDF_PATH", &c.PDF.WKHTMLTOPDFPath)
	setDuration("REPORT_PDF_TIMEOUT", &c.PDF.Timeout)
	setString("REPORT_PDF_PAGE_SIZE", &c.PDF.Options.PageSize)
	setString("REPORT_PDF_MARGIN_TOP", &c.PDF.Options.MarginTop)
	setString("REPORT_PDF_MARGIN_BOTTOM", &c.PDF.Options.MarginBottom)
	setString("REPORT_PDF_MARGIN_LEFT", &c.PDF.Options.MarginLeft)
	setString("REPORT_PDF_MARGIN_RIGHT", &c.PDF.Options.MarginRight)
	setString("REPORT_PDF_BASE_URL", &c.PDF.Options.BaseURL)
	if value, ok := env("REPORT_PDF_EXTERNAL_ASSETS_POLICY"); ok {
		c.PDF.Options.ExternalAssetsPolicy = report.PDFExternalAssetsPolicy(strings.ToLower(value))
	}
	if value, ok := env("REPORT_PDF_PRINT_BACKGROUND"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			problems = append(problems, "REPORT_PDF_PRINT_BACKGROUND")
		} else {
			c.PDF.Options.PrintBackground = &parsed
		}
	}
	if value, ok := env("REPORT_PDF_LANDSCAPE"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			problems = append(problems, "REPORT_PDF_LANDSCAPE")
		} else {
			c.PDF.Options.Landscape = &parsed
		}
	}
	if value, ok := env("REPORT_PDF_SCALE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			problems = append(problems, "REPORT_PDF_SCALE")
		} else {
			c.PDF.Options.Scale = parsed
		}
	}

	if len(problems) > 0 {
		return errors.New(fmt.Sprintf("invalid environment values: %s", strings.Join(problems, ", ")), errors.CategoryValidation).
			WithTextCode("CONFIG_ENV_INVALID")
	}
	return nil
}

// Validate rejects unknown adapter, engine and policy names and unknown
// timezones.
func (c Config) Validate() error {
	switch strings.ToLower(c.Server.Adapter) {
	case AdapterFiber, AdapterHTTP:
	default:
		return invalid("server.adapter", c.Server.Adapter)
	}
	switch strings.ToLower(c.PDF.Engine) {
	case "", reportpdf.EngineChromium, reportpdf.EngineWKHTMLTOPDF:
	default:
		return invalid("pdf.engine", c.PDF.Engine)
	}
	switch c.PDF.Options.ExternalAssetsPolicy {
	case report.PDFExternalAssetsUnspecified, report.PDFExternalAssetsAllow, report.PDFExternalAssetsBlock:
	default:
		return invalid("pdf.options.external_assets_policy", string(c.PDF.Options.ExternalAssetsPolicy))
	}
	if _, err := report.ParseContentPolicy(c.Report.ContentPolicy); err != nil {
		return invalid("report.content_policy", c.Report.ContentPolicy)
	}
	if _, err := c.Location(); err != nil {
		return invalid("report.timezone", c.Report.Timezone)
	}
	if c.Report.MaxSections < 0 {
		return invalid("report.max_sections", strconv.Itoa(c.Report.MaxSections))
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Report.Timezone) {
	case "", "Local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Report.Timezone)
	}
}

// Policy resolves the configured content policy.
func (c Config) Policy() report.ContentPolicy {
	policy, err := report.ParseContentPolicy(c.Report.ContentPolicy)
	if err != nil {
		return report.DefaultContentPolicy
	}
	return policy
}

// EngineConfig maps the PDF settings onto the engine factory.
func (c Config) EngineConfig() reportpdf.EngineConfig {
	headless := c.PDF.Headless
	return reportpdf.EngineConfig{
		Name:            c.PDF.Engine,
		ChromiumPath:    c.PDF.ChromiumPath,
		ChromiumArgs:    c.PDF.ChromiumArgs,
		Headless:        &headless,
		WKHTMLTOPDFPath: c.PDF.WKHTMLTOPDFPath,
		WKHTMLTOPDFArgs: c.PDF.WKHTMLTOPDFArgs,
		Timeout:         c.PDF.Timeout,
		DefaultPDF:      c.PDF.Options,
	}
}

func invalid(field, value string) error {
	return errors.New(fmt.Sprintf("invalid %s: %q", field, value), errors.CategoryValidation).
		WithTextCode("CONFIG_INVALID")
}

// parseDuration accepts Go durations and bare seconds.
func parseDuration(value string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
