// Package app wires configuration, storage, domain services and the HTTP
// server into a runnable unit.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Carlonchito1001/dorado-travel/internal/domain/analytics"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/booking"
	"github.com/Carlonchito1001/dorado-travel/internal/domain/contact"
	"github.com/Carlonchito1001/dorado-travel/internal/handler"
	"github.com/Carlonchito1001/dorado-travel/internal/storage/postgres"
	"github.com/Carlonchito1001/dorado-travel/pkg/health"
	"github.com/Carlonchito1001/dorado-travel/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	// Repositories.
	bookingStore := postgres.NewBookingStore(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	apikeyRepo := postgres.NewAPIKeyRepository(pool)

	// Reservation code filter, warmed from the codes already issued so that
	// public lookups of junk codes never reach the database.
	codes := booking.NewCodeFilter(cfg.Booking.CodeFilterCapacity, cfg.Booking.CodeFilterFPR)
	issued, err := bookingStore.PublicCodes(ctx)
	if err != nil {
		return errors.Wrap(err, "load public codes")
	}
	codes.Seed(issued)
	lg.Info("Code filter warmed", zap.Int("codes", len(issued)))

	// Domain services.
	bookingSvc := booking.NewService(bookingStore, catalogRepo, codes, booking.Config{
		CartTTL: cfg.Booking.CartTTL,
	})
	analyticsSvc := analytics.NewService(analyticsRepo, bookingStore)
	contactSvc := contact.NewService(contactRepo)

	// HTTP handlers.
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	h := handler.NewHandler(lg, bookingSvc, catalogRepo, contentRepo, analyticsSvc, contactSvc, apikeyRepo)
	h.Register(engine)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", engine)

	instrumented := otelhttp.NewHandler(mux, "dorado-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-API-Key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.SetReady(true)

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
