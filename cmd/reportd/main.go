package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-report/adapters/reportapi"
	"github.com/goliatone/go-report/internal/app"
	"github.com/goliatone/go-report/internal/config"
)

func main() {
	configPath := flag.String("config", os.Getenv("REPORT_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	application, err := app.New(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}
	defer application.Close()

	srv := buildServer(application)

	addr := cfg.Addr()
	go func() {
		application.Logger.Infof("starting %s server on http://%s", strings.ToLower(cfg.Server.Adapter), addr)
		if err := srv.Serve(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	application.Logger.Infof("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		application.Logger.Errorf("shutdown error: %v", err)
	}
}

type server interface {
	Serve(addr string) error
	Shutdown(ctx context.Context) error
}

func buildServer(a *app.App) server {
	if strings.ToLower(a.Config.Server.Adapter) == config.AdapterHTTP {
		return httpServer{srv: &http.Server{
			Handler:           a.HTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}}
	}

	srv := router.NewFiberAdapter(fiberAppInitializer(a.Config))
	a.RouterHandler().RegisterRoutes(srv.Router())
	return srv
}

func fiberAppInitializer(cfg config.Config) func(*fiber.App) *fiber.App {
	return func(*fiber.App) *fiber.App {
		fiberApp := fiber.New(fiber.Config{
			AppName:               "go-report",
			BodyLimit:             bodyLimit(cfg.Server.MaxFormBytes),
			DisableStartupMessage: true,
		})

		fiberApp.Use(recover.New())
		fiberApp.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
		}))
		fiberApp.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.CORSOrigins,
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Content-Type,X-Request-Id",
		}))

		return fiberApp
	}
}

// bodyLimit leaves fiber room for multipart framing so oversized forms reach
// the controller and get its 413 body.
func bodyLimit(maxFormBytes int64) int {
	if maxFormBytes <= 0 {
		maxFormBytes = reportapi.DefaultMaxFormBytes
	}
	return int(maxFormBytes) * 2
}

type httpServer struct {
	srv *http.Server
}

func (s httpServer) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

func (s httpServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
