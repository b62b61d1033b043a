package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"safety-training-service/internal/app"
	"safety-training-service/internal/auth"
	"safety-training-service/internal/certificate"
	"safety-training-service/internal/config"
	"safety-training-service/internal/infra/memory"
	"safety-training-service/internal/infra/postgres"
	"safety-training-service/internal/infra/rabbit"
	redisinfra "safety-training-service/internal/infra/redis"
	"safety-training-service/internal/logger"
	transport "safety-training-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the training server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	deps, cleanup, err := buildDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(deps, log),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting training service", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildDependencies wires the services onto Postgres, Redis and RabbitMQ when
// they are configured, and onto the in-memory sample data otherwise.
func buildDependencies(ctx context.Context, cfg config.Config, log *zap.Logger) (transport.Services, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (transport.Services, func(), error) {
		cleanup()
		return transport.Services{}, func() {}, err
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		if err := RunMigrations(ctx, cfg.Postgres.URL, log); err != nil {
			return fail(err)
		}
		p, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fail(err)
		}
		pool = p
		closers = append(closers, pool.Close)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var (
		loader   memory.QuestionLoader
		catalog  app.CatalogRepository
		users    app.UserRepository
		profiles app.ProfileRepository
		sinks    app.FanOutSink
	)
	if pool != nil {
		loader = postgres.NewQuestionLoader(pool)
		catalog = postgres.NewCatalogRepository(pool)
		repo := postgres.NewUserRepository(pool)
		users, profiles = repo, repo
		sinks = append(sinks, postgres.NewAttemptWriter(pool))
	} else {
		log.Warn("postgres not configured, serving the in-memory sample catalog")
		loader = memory.NewStaticQuestionLoader(memory.SampleQuizzes())
		catalog = memory.NewCatalog(memory.SampleCourses()...)
		store := memory.NewUserStore()
		users, profiles = store, store
		sinks = append(sinks, memory.NewAttemptLog())
	}

	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbit.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = publisher.Close() })
		sinks = append(sinks, publisher)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var (
		questions app.QuestionRepository
		attempts  app.AttemptRegistry
	)
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, quizTTL, log)
		attempts = redisinfra.NewAttemptRegistry(redisClient, config.TTLDuration(cfg.Redis.TTL, time.Hour))
	} else {
		questions = memory.NewQuestionRepository(loader, quizTTL)
		attempts = memory.NewAttemptRegistry()
	}

	pass, err := app.NewPassPolicy(cfg.Quiz.PassPolicy, cfg.Quiz.MinScore)
	if err != nil {
		return fail(err)
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.Env == "production" {
			return fail(fmt.Errorf("jwt secret must be set in production"))
		}
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using an ephemeral secret")
	}
	tokens, err := auth.NewTokenManager(secret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
	if err != nil {
		return fail(err)
	}

	loc, err := time.LoadLocation(cfg.Certificate.Timezone)
	if err != nil {
		return fail(fmt.Errorf("certificate timezone: %w", err))
	}

	quizzes := app.NewQuizService(attempts, questions, sinks, app.QuizOptions{Pass: pass, Logger: log})
	return transport.Services{
		Auth:    app.NewAuthService(users, tokens, log),
		Courses: app.NewCourseService(catalog),
		Quizzes: quizzes,
		Certificates: app.NewCertificateService(quizzes, profiles, catalog, certificate.NewRenderer(loc), app.CertificateOptions{
			DefaultStudentName: cfg.Certificate.DefaultStudentName,
			DefaultCourseTitle: cfg.Certificate.DefaultCourseTitle,
			Workload:           cfg.Certificate.Workload,
			Issuer:             cfg.Certificate.Issuer,
			Logger:             log,
		}),
	}, cleanup, nil
}
