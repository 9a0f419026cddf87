package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/caesium-cloud/relay/api/rest/bind"
	"github.com/caesium-cloud/relay/pkg/env"
	"github.com/caesium-cloud/relay/pkg/log"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	server   *echo.Echo
	serverMu sync.Mutex
)

// New builds relay's HTTP handler. HTTP metrics are registered with
// registerer.
func New(deps *bind.Dependencies, registerer prometheus.Registerer) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// health
	e.GET("/health", health(deps.DB))

	// metrics
	mw, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "relay",
		Registerer: registerer,
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}
	e.Use(mw)
	e.GET("/metrics", echoprometheus.NewHandler())

	// REST
	bind.All(e.Group("/v1"), deps)

	return e, nil
}

// Start launches relay's API and blocks until it stops.
func Start(ctx context.Context, deps *bind.Dependencies) error {
	e, err := New(deps, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	serverMu.Lock()
	server = e
	serverMu.Unlock()

	go func() {
		<-ctx.Done()
		if err := Shutdown(); err != nil {
			log.Error("api shutdown failure", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%v", env.Variables().Port)
	log.Info("api listening", "addr", addr)

	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully stops the API started by Start.
func Shutdown() error {
	serverMu.Lock()
	e := server
	server = nil
	serverMu.Unlock()

	if e == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.Variables().ShutdownTimeout)
	defer cancel()

	return e.Shutdown(ctx)
}
