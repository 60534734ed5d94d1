package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inflecto-api/internal/assessment"
	"inflecto-api/internal/cache"
	"inflecto-api/internal/catalog"
	"inflecto-api/internal/config"
	"inflecto-api/internal/logging"
	"inflecto-api/internal/mail"
	"inflecto-api/internal/metrics"
	"inflecto-api/internal/repository"
	"inflecto-api/internal/service"
	"inflecto-api/internal/transport/rest"
	"inflecto-api/internal/transport/ws"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("question catalog loaded", "personas", len(cat.Personas()))

	mongoClient, err := connectMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())
	logger.Info("connected to MongoDB", "db", cfg.Mongo.Database)
	db := mongoClient.Database(cfg.Mongo.Database)

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	logger.Info("connected to Redis")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(reg)

	// Repositories and caches
	assessmentRepo := repository.NewAssessmentRepo(db)
	contactRepo := repository.NewContactRepo(db)
	blogRepo := repository.NewBlogRepo(db)
	results := cache.NewResultCache(rdb, cfg.Assessment.ResultTTL)

	// Services
	narrator, err := service.NewNarratorService(ctx, cfg.AI, logger)
	if err != nil {
		return err
	}
	defer narrator.Close()
	if cfg.AI.IsEnabled() {
		logger.Info("report narrator using Gemini", "model", cfg.AI.Model)
	} else {
		logger.Info("GEMINI_API_KEY not set, reports use the template narrator")
	}
	mailer := mail.New(cfg.Mail, logger)
	if !cfg.Mail.Enabled() {
		logger.Info("SMTP credentials not set, report emails are logged only")
	}

	reportSvc := service.NewReportService(assessmentRepo, narrator, mailer, cat, logger)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, results, reportSvc, cat, cfg.Assessment.ReportTimeout, logger)
	contactSvc := service.NewContactService(contactRepo)
	blogSvc := service.NewBlogService(blogRepo)

	// Socket
	hub := ws.NewHub()
	defer hub.Stop()
	machine := assessment.NewMachine(cat, assessment.WithScoreMaps(cfg.Assessment.ExposeScoreMap))
	wsHandler := ws.NewHandler(hub, machine, assessmentSvc, collector, logger, ws.Options{
		CloseGrace:      cfg.Assessment.CloseGrace,
		MaxMessageBytes: cfg.Assessment.MaxMessageBytes,
		AllowedOrigins:  splitList(cfg.CORS.AllowedOrigins),
	})

	router := rest.NewRouter(&rest.Container{
		Catalog:           cat,
		AssessmentService: assessmentSvc,
		ReportService:     reportSvc,
		ContactService:    contactSvc,
		BlogService:       blogSvc,
		WSHandler:         wsHandler,
		Metrics:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		CORS:              cfg.CORS,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Hijacked socket connections are not tracked by Shutdown.
		hub.CloseAll(websocket.CloseGoingAway, "server shutdown")
		err := srv.Shutdown(shutdownCtx)

		done := make(chan struct{})
		go func() {
			assessmentSvc.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			logger.Warn("report generation still running at shutdown")
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

func connectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.URI}
	if cfg.IsURL() {
		parsed, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URI: %w", err)
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	return rdb, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
