// Package app wires configuration into the running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/config"
	"github.com/LanceSports/LanceSports-sub000/internal/infrastructure/scheduler"
	"github.com/LanceSports/LanceSports-sub000/internal/interfaces/httpapi"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"golang.org/x/sync/errgroup"
)

const (
	RefreshJobName  = "refresh-fixtures-by-date"
	shutdownTimeout = 30 * time.Second
)

type App struct {
	cfg       config.Config
	logger    *logging.Logger
	pipeline  *Pipeline
	scheduler *scheduler.Scheduler
	server    *http.Server
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	pipeline, err := NewPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	sched := scheduler.New(scheduler.Config{Location: cfg.RefreshTimezone}, logger)
	if cfg.RefreshEnabled {
		err := sched.Add(RefreshJobName, cfg.RefreshCron, func(ctx context.Context) error {
			report, err := pipeline.Refresh.Run(ctx)
			if err != nil {
				return err
			}
			for _, date := range report.Dates {
				if date.Error != "" {
					return fmt.Errorf("refresh %s: %s", date.Date, date.Error)
				}
			}
			return nil
		})
		if err != nil {
			_ = pipeline.Close(ctx)
			return nil, fmt.Errorf("register refresh job: %w", err)
		}
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Ingestion: pipeline.Ingestion,
		Fixtures:  pipeline.Fixtures,
		Standings: pipeline.Standings,
		Refresh:   pipeline.Refresh,
		Jobs:      sched,
		Health: []httpapi.HealthCheck{
			{Name: "provider_circuit", Status: func(context.Context) any { return string(pipeline.Provider.BreakerState()) }},
			{Name: "background_writer", Status: func(context.Context) any { return pipeline.Writer.Stats() }},
		},
		Logger: logger,
	})
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		pipeline:  pipeline,
		scheduler: sched,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
		},
	}, nil
}

// Run serves HTTP and the refresh schedule until ctx ends, then shuts down
// in order: stop accepting requests, stop the scheduler, drain background
// writes.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return a.shutdown()
	})

	return group.Wait()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.pipeline.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close pipeline: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	a.logger.Info("http server stopped")
	return nil
}
