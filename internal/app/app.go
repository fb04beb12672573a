package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"NewsPulse/internal/analytics"
	"NewsPulse/internal/config"
	"NewsPulse/internal/feed"
	"NewsPulse/internal/infrastructure/narrative"
	"NewsPulse/internal/logging"
	"NewsPulse/internal/server"
	"NewsPulse/internal/usecase"
)

// Application wires config to the pipeline, narrative client, and HTTP
// surface, and owns the server lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	srv    *server.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	cache := feed.NewCache(cfg.Fetch.CacheTTL)
	fetcher := feed.NewFetcher(
		&http.Client{Timeout: cfg.Fetch.Timeout},
		cache,
		cfg.Fetch.UserAgent,
	)

	extractor := analytics.NewTitleKeywords(cfg.Spikes.MinKeywordLength, cfg.Spikes.KeywordsPerTitle)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:   fetcher,
		Extractor: extractor,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	var selector *usecase.Selector
	if cfg.Narrative.Endpoint != "" {
		client := narrative.NewClient(cfg.Narrative)
		selector = usecase.NewSelector(client, cfg.Narrative.HorizonDays)
	}

	feeds := make([]usecase.FeedRef, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, usecase.FeedRef{Source: f.Source, URL: f.URL})
	}

	srv := server.New(server.Deps{
		Logger:    baseLogger.With("component", "server"),
		Pipeline:  pipeline,
		Selector:  selector,
		Feeds:     feeds,
		BinWidth:  time.Duration(cfg.Series.BinMinutes) * time.Minute,
		Threshold: cfg.Spikes.Threshold,
	})

	return &Application{cfg: cfg, logger: baseLogger, srv: srv}
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              a.cfg.Server.BindAddr,
		Handler:           a.srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", a.cfg.Server.BindAddr, "feeds", len(a.cfg.Feeds))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
