package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"salarypredict/config"
	qhttp "salarypredict/http"
	"salarypredict/logger"
	"salarypredict/ml"
	"salarypredict/monitoring"
	"salarypredict/predictor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	configPath := config.Locate(config.DefaultFile)
	cfg, found, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer log.Sync()
	if !found {
		log.Info("no config file found, using defaults", zap.String("path", configPath))
	}

	// 2. Load the model artifact; any failure here is fatal
	loader := ml.NewLoader(cfg.Model.ArtifactPath)
	model, err := loader.Load()
	if err != nil {
		log.Error("failed to load model artifact", zap.String("path", loader.Path()), zap.Error(err))
		return err
	}
	log.Info("model loaded",
		zap.String("path", loader.Path()),
		zap.String("type", model.Name()),
		zap.String("version", model.Version()),
		zap.Strings("features", model.FeatureNames()))

	metrics := monitoring.NewMetrics()
	metrics.SetModel(model.Name(), model.Version(), loader.Path())

	// 3. Bind the form schema to the model
	svc, err := predictor.NewService(model, predictor.StudentSchema(), predictor.Options{
		CacheSize: cfg.Cache.Size,
		Locale:    cfg.Display.Locale,
		Logger:    log,
		Metrics:   metrics,
	})
	if err != nil {
		log.Error("form schema does not match the model", zap.Error(err))
		return err
	}

	server, err := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, svc, metrics, log)
	if err != nil {
		return err
	}

	// 4. Serve until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return server.Stop()
	})

	if cfg.Model.WatchArtifact {
		watcher, err := ml.NewArtifactWatcher(loader.Path())
		if err != nil {
			log.Warn("artifact watcher disabled", zap.Error(err))
		} else {
			g.Go(func() error {
				return watcher.Run(ctx, func(e fsnotify.Event) {
					metrics.ArtifactChanged()
					log.Warn("model artifact changed on disk; restart to serve the new model",
						zap.String("path", e.Name), zap.String("op", e.Op.String()))
				}, func(err error) {
					log.Warn("artifact watcher error", zap.Error(err))
				})
			})
		}
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("exiting")
	return nil
}
