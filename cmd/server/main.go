package main // Entry point package

import (
	"context"   // Shutdown deadline
	"errors"    // Distinguish a clean server close
	"io"        // Tee log output
	"log"       // Logging library
	"net/http"  // http.ErrServerClosed
	"os"        // Files and signals
	"os/signal" // Graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"github.com/joho/godotenv"                                // Optional .env loading
	"github.com/labstack/echo/v4"                             // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"           // Echo built-in middleware
	"github.com/prometheus/client_golang/prometheus"          // Default metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // /metrics handler

	"github.com/iliyamo/venue-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/venue-booking/internal/database"   // MySQL pool and migrations
	"github.com/iliyamo/venue-booking/internal/flash"      // Flash message stores
	"github.com/iliyamo/venue-booking/internal/handler"    // Page handlers
	"github.com/iliyamo/venue-booking/internal/middleware" // Rate limit and metrics
	"github.com/iliyamo/venue-booking/internal/queue"      // Event publisher
	"github.com/iliyamo/venue-booking/internal/repository" // SQL repositories
	"github.com/iliyamo/venue-booking/internal/router"     // Internal router setup
	"github.com/iliyamo/venue-booking/internal/service"    // Catalog service
	"github.com/iliyamo/venue-booking/internal/view"       // Template renderer
)

func main() {
	_ = godotenv.Load()  // A missing .env file is fine; the environment may be set directly
	cfg := config.Load() // Load environment config

	log.SetFlags(log.LstdFlags | log.Lshortfile) // time plus file:line on every line
	if !cfg.Debug {
		f, err := os.OpenFile("error.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open error.log: %v", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f)) // keep stderr and append to error.log
	}

	db, err := database.Open(database.Config{ // Connect to MySQL
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxOpen,
		ConnMaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(context.Background(), db); err != nil { // Apply pending schema files
			log.Fatalf("migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient() // nil when Redis is disabled or unreachable
	secure := cfg.Env == "prod"    // only send cookies over HTTPS in production
	var store flash.Store
	if rdb != nil {
		defer rdb.Close()
		store = flash.NewRedisStore(rdb, cfg.SessionSecret, secure)
		log.Printf("flash: using redis store")
	} else {
		store = flash.NewCookieStore(cfg.SessionSecret, secure)
		log.Printf("flash: redis unavailable, using signed cookies")
	}

	var opts []service.Option
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.AMQPURL))) // publish after each commit
	}
	catalog := service.NewCatalog(service.NewUnitOfWork(repository.NewStore(db)), opts...)

	renderer, err := view.New() // Parse the embedded templates once
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	e := echo.New() // Create Echo instance
	e.Debug = cfg.Debug
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = view.ErrorHandler(cfg.Debug) // 404/500 pages

	// Forms post _method=DELETE; rewrite the method before routing.
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	e.Use(echomw.Logger())  // Access log
	e.Use(echomw.Recover()) // Panics become 500 pages
	if cfg.MetricsEnabled {
		e.Use(middleware.NewMetrics(prometheus.DefaultRegisterer).Middleware())
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	if cfg.CSRFEnabled {
		e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
			TokenLookup:    "form:csrf_token",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   secure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)) // Throttle form submissions

	h := handler.NewHandler(catalog, store)
	h.Ping = db.PingContext     // /healthz reports the database too
	router.RegisterRoutes(e, h) // Register application routes

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
