// Package app wires the storefront together: configuration, storage, domain
// services, HTTP transport, and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/shopveda/storefront/internal/domain/coupon"
	"github.com/shopveda/storefront/internal/domain/order"
	"github.com/shopveda/storefront/internal/handler"
	"github.com/shopveda/storefront/internal/notify"
	"github.com/shopveda/storefront/internal/otp"
	"github.com/shopveda/storefront/internal/payment"
	"github.com/shopveda/storefront/internal/repository"
	"github.com/shopveda/storefront/internal/upload"
	"github.com/shopveda/storefront/pkg/health"
	"github.com/shopveda/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Redis for the OTP store.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddReadinessCheck("redis", 2*time.Second, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Repositories.
	productRepo := repository.NewProductRepository(pool)
	couponRepo := repository.NewCouponProvider(pool)
	orderRepo := repository.NewOrderRepository(pool)
	apikeyRepo := repository.NewAPIKeyRepository(pool)

	// Payment-proof uploads go to S3 when a bucket is configured.
	var uploader upload.Uploader = upload.Disabled{}
	if cfg.Upload.Bucket != "" {
		s3up, err := upload.NewS3Uploader(ctx, upload.S3Config{
			Region:          cfg.Upload.Region,
			Bucket:          cfg.Upload.Bucket,
			AccessKeyID:     cfg.Upload.AccessKeyID,
			SecretAccessKey: cfg.Upload.SecretAccessKey,
			KeyPrefix:       cfg.Upload.KeyPrefix,
			BaseURL:         cfg.Upload.BaseURL,
		})
		if err != nil {
			return errors.Wrap(err, "create s3 uploader")
		}
		uploader = s3up
	}

	// Background notification dispatcher.
	dispatcher := notify.NewDispatcher(notify.NewLogSender(lg), lg, cfg.Notify.QueueSize)
	dispatcher.Start(ctx, cfg.Notify.Workers)
	defer dispatcher.Close()

	// Domain services.
	couponValidator := coupon.NewProviderValidator(couponRepo)
	verifier := payment.NewHMACVerifier([]byte(cfg.GatewaySecret))
	orderService := order.NewService(
		productRepo, couponValidator, orderRepo,
		verifier, uploader, dispatcher,
		cfg.OperatorEmail,
	)
	otpStore := otp.NewStore(rdb, cfg.OTP.TTL)

	// HTTP handlers.
	security := handler.NewSecurity(apikeyRepo, []byte(cfg.APIKeyPepper))
	h := handler.NewHandler(
		handler.Config{ImageBaseURL: cfg.ImageBaseURL},
		productRepo,
		couponValidator,
		orderService,
		otpStore,
		dispatcher,
		security,
	)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	instrumented := otelhttp.NewHandler(mux, "storefront-api",
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
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
