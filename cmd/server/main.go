package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/config"
	"github.com/ymatsui/aical/internal/database"
	"github.com/ymatsui/aical/internal/handlers"
	"github.com/ymatsui/aical/internal/logger"
	"github.com/ymatsui/aical/internal/middleware"
	"github.com/ymatsui/aical/internal/queue"
	"github.com/ymatsui/aical/internal/scheduler"
	"github.com/ymatsui/aical/internal/services/calendar"
	"github.com/ymatsui/aical/internal/services/notify"
	"github.com/ymatsui/aical/internal/services/parser"
	"github.com/ymatsui/aical/internal/telemetry"
	"github.com/ymatsui/aical/internal/timeutil"
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("calendar_id", cfg.CalendarID),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "aical", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Working-hours calendar: Japanese public holidays plus any extra
	// configured closed days
	workingCalendar := timeutil.NewWorkingCalendar()
	if cfg.ClosedDaysFile != "" {
		if err := workingCalendar.LoadClosedDays(cfg.ClosedDaysFile); err != nil {
			zapLogger.Fatal("failed_to_load_closed_days", zap.Error(err))
		}
		zapLogger.Info("loaded_closed_days", zap.String("file", cfg.ClosedDaysFile))
	}
	policy := scheduler.NewRuleEvaluator(workingCalendar)

	// Google Calendar gateway
	gateway, err := calendar.NewGateway(context.Background(), calendar.Config{
		CredentialsFile:    cfg.GoogleCredentialsFile,
		CredentialsJSONB64: cfg.GoogleCredentialsJSONB64,
		TokenFile:          cfg.GoogleTokenFile,
		TokenJSONB64:       cfg.GoogleTokenJSONB64,
		RedirectURI:        cfg.GoogleRedirectURI,
		CalendarID:         cfg.CalendarID,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_initialize_calendar_gateway", zap.Error(err))
	}
	zapLogger.Info("calendar_gateway_initialized",
		zap.Bool("authenticated", gateway.IsAuthenticated()),
	)

	// LLM intent parser
	meetingParser := parser.NewMeetingParser(parser.Config{
		APIKey:       cfg.ParserAPIKey,
		BaseURL:      cfg.ParserBaseURL,
		Model:        cfg.ParserModel,
		TestAttendee: cfg.TestAttendeeEmail,
		DebugMode:    debugMode,
	}, policy, zapLogger)

	// SMTP mailer for meeting notifications
	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		UseTLS:   cfg.SMTPUseTLS,
	}, zapLogger)
	if !mailer.Enabled() {
		zapLogger.Warn("smtp_not_configured_notifications_disabled")
	}
	asyncDispatcher := notify.NewAsyncDispatcher(mailer, zapLogger)

	// RabbitMQ is optional: with it, notifications go through the durable
	// job queue and the worker; without it they are sent in-process
	var notifier scheduler.NotificationDispatcher = asyncDispatcher
	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		rabbitQueue, err := connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
		}
		jobQueue = rabbitQueue
		defer func() {
			if err := jobQueue.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		notifier = notify.NewQueueDispatcher(jobQueue, asyncDispatcher, zapLogger)
		zapLogger.Info("connected_to_rabbitmq")
	}

	// Postgres is optional and only used for the scheduling decision audit log
	var db *database.DB
	var serviceOpts []scheduler.ServiceOption
	if cfg.DatabaseURL != "" {
		db, err = database.New(cfg.DatabaseURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
			}
		}()
		if err := db.Migrate(context.Background()); err != nil {
			zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
		}
		serviceOpts = append(serviceOpts, scheduler.WithDecisionRecorder(database.NewDecisionRepository(db)))
		zapLogger.Info("connected_to_database")
	}

	// Scheduling pipeline
	reconciler := scheduler.NewReconciler(policy, zapLogger)
	conflicts := scheduler.NewConflictChecker(gateway)
	service := scheduler.NewService(meetingParser, reconciler, conflicts, gateway, notifier, zapLogger, serviceOpts...)

	// Handlers
	scheduleHandler := handlers.NewScheduleHandler(service, zapLogger)
	eventHandler := handlers.NewEventHandler(service, meetingParser, zapLogger)
	authHandler := handlers.NewAuthHandler(gateway, cfg.ReturnTokenB64InCallback, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, jobQueue, gateway)

	// Rate limiting: Redis-backed when configured, in-memory otherwise
	var rateLimitMW func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid_redis_url", zap.Error(err))
		}
		redisClient := redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		rateLimitMW, err = middleware.RateLimitRedis(redisClient, cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		zapLogger.Info("connected_to_redis")
	} else {
		rateLimitMW, err = middleware.RateLimit(cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
	}

	// Setup router
	r := mux.NewRouter()

	zapLogger.Info("setting_up_middleware")

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("aical"))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	// Scheduling routes, rate limited
	scheduleRouter := r.PathPrefix("/schedule").Subrouter()
	scheduleRouter.Use(rateLimitMW)
	scheduleRouter.HandleFunc("", scheduleHandler.Schedule).Methods("POST")

	eventsRouter := r.PathPrefix("/events").Subrouter()
	eventsRouter.Use(rateLimitMW)
	eventsRouter.HandleFunc("/{id}", eventHandler.Update).Methods("PUT")
	eventsRouter.HandleFunc("/{id}", eventHandler.Delete).Methods("DELETE")

	// OAuth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.Use(rateLimitMW)
	authRouter.HandleFunc("/google", authHandler.AuthURL).Methods("GET", "POST")
	authRouter.HandleFunc("/callback", authHandler.Callback).Methods("GET")
	authRouter.HandleFunc("/status", authHandler.Status).Methods("GET")

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectRabbitMQ retries the connection with exponential backoff to ride
// out broker startup delays.
func connectRabbitMQ(amqpURL string, zapLogger *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL, zapLogger)
		if err == nil {
			return jobQueue, nil
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}
