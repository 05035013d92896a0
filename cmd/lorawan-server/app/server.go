package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/pquerna/ffjson/ffjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lorawan-data-server/cmd/lorawan-server/app/options"
	"lorawan-data-server/internal/api/auth"
	"lorawan-data-server/internal/api/dashboard"
	"lorawan-data-server/internal/api/telemetry"
	"lorawan-data-server/internal/cache"
	db "lorawan-data-server/internal/database"
	log "lorawan-data-server/internal/logger"
	"lorawan-data-server/internal/publish"
	"lorawan-data-server/internal/views"
	"lorawan-data-server/internal/worker"
)

type Server struct {
	app       *fiber.App
	db        *gorm.DB
	storage   fiber.Storage
	publisher publish.Publisher
	worker    *worker.Worker
	logs      []io.Closer
	logger    *zap.Logger
}

func NewServer(opts *options.Options, logger *zap.Logger) (*Server, error) {
	dbConfig, err := db.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	sqlWriter, err := log.NewRotateWriter(*opts.SQLLog)
	if err != nil {
		return nil, fmt.Errorf("sql log: %w", err)
	}
	sqlLevel := gormlogger.Warn
	if *opts.Mode == log.ModeDebug {
		sqlLevel = gormlogger.Info
	}
	database, err := db.Connect(dbConfig, log.NewSQLLogger(sqlWriter, *opts.Mode), sqlLevel)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to %s: %w", dbConfig.Driver, err)
	}
	logger.Info("database ready", zap.String("driver", dbConfig.Driver))

	storage, err := cache.NewStorage(logger.Named("session"))
	if err != nil {
		return nil, fmt.Errorf("session storage: %w", err)
	}
	publisher, err := publish.New(logger.Named("mqtt"))
	if err != nil {
		return nil, fmt.Errorf("mqtt publisher: %w", err)
	}
	workerConfig, err := worker.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("worker config: %w", err)
	}
	publishWorker := worker.NewWorker(publisher, workerConfig, logger.Named("worker"))
	authConfig, err := auth.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("auth config: %w", err)
	}
	accessWriter, err := log.NewRotateWriter(*opts.AccessLog)
	if err != nil {
		return nil, fmt.Errorf("access log: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:     "LoRaWAN Data Server",
		Prefork:     false,
		JSONEncoder: ffjson.Marshal,
		JSONDecoder: ffjson.Unmarshal,
		Views:       views.NewEngine(),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	accessOutput := io.Writer(os.Stdout)
	if *opts.AccessLog != "" {
		accessOutput = io.MultiWriter(os.Stdout, accessWriter)
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] [${ip}:${port}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     accessOutput,
	}))
	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(etag.New())

	if *opts.Mode == log.ModeDebug {
		app.Use(pprof.New())
	}

	// auth
	authLogger := logger.Named("auth")
	credentials := authConfig.Users
	sessions := auth.NewSessionAuthenticator(auth.NewSessionStore(storage, authConfig.SessionTTL))
	authenticators := []auth.Authenticator{sessions}
	var tokens *auth.TokenAuthenticator
	if authConfig.JWTSecret != "" {
		tokens = auth.NewTokenAuthenticator(authConfig.JWTSecret, authConfig.JWTTTL, credentials)
		authenticators = append(authenticators, tokens)
	}
	auth.AuthRouter(app, sessions, tokens, credentials, authLogger)
	guard := auth.Require(auth.Any(authenticators...))

	// telemetry
	telemetryLogger := logger.Named("telemetry")
	telemetryRepository := telemetry.NewTelemetryRepository(database, dbConfig.Timeout)
	telemetryService := telemetry.NewTelemetryService(
		telemetryRepository,
		telemetry.NewNormalizer(time.Now),
		publishWorker,
		telemetryLogger)
	telemetry.TelemetryRouter(app, guard, telemetryService, telemetry.HandlerConfig{
		MaxLimit:     *opts.MaxLimit,
		ExportPrefix: *opts.ExportPrefix,
	}, telemetryLogger)

	// dashboard
	dashboard.DashboardRouter(app, guard, telemetryService, *opts.MaxLimit, logger.Named("dashboard"))

	app.Get("/monitor", guard, monitor.New(monitor.Config{Title: "LoRaWAN Data Server"}))

	app.Get("/swagger/*", swagger.Handler)

	app.All("*", func(c *fiber.Ctx) error {
		errorMessage := fmt.Sprintf("Route '%s' does not exist in this API!", c.OriginalURL())

		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"status":  "fail",
			"message": errorMessage,
		})
	})

	return &Server{
		app:       app,
		db:        database,
		storage:   storage,
		publisher: publisher,
		worker:    publishWorker,
		logs:      []io.Closer{accessWriter, sqlWriter, log.AppLog()},
		logger:    logger,
	}, nil
}

func (s *Server) Listen(port int, certFile, keyFile string) error {
	s.logger.Info("Starting LoRaWAN data server ...", zap.Int("port", port))

	address := fmt.Sprintf(":%d", port)
	if certFile != "" && keyFile != "" {
		return s.app.ListenTLS(address, certFile, keyFile)
	}
	return s.app.Listen(address)
}

// Shutdown drains in-flight requests before closing what they write to.
func (s *Server) Shutdown(parentCtx context.Context) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Minute)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.Close(s.db)
	})
	g.Go(func() error {
		return s.storage.Close()
	})
	g.Go(func() error {
		// the broker connection must outlive the queued records
		if err := s.worker.Stop(ctx); err != nil {
			return err
		}
		return s.publisher.Close()
	})
	g.Go(func() error {
		_ = s.logger.Sync()
		for _, l := range s.logs {
			if err := l.Close(); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}

func Run(opts *options.Options, logger *zap.Logger) error {
	server, err := NewServer(opts, logger)
	if err != nil {
		logger.Error("Unable to initialize server", zap.Error(err))
		return err
	}

	serverError := make(chan error, 1)
	go func() {
		if err := server.Listen(*opts.Port, *opts.CertFile, *opts.KeyFile); err != nil && err != http.ErrServerClosed {
			logger.Error("Listen failed", zap.Error(err))
			serverError <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown server ...")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("close server failed", zap.Error(err))
			return err
		}
	case err := <-serverError:
		return err
	}
	return nil
}
