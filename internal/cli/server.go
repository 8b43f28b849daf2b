package cli

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deerhacks-service/internal/app"
	"deerhacks-service/internal/config"
	"deerhacks-service/internal/domain"
	"deerhacks-service/internal/infra/memory"
	pgstore "deerhacks-service/internal/infra/postgres"
	redisstore "deerhacks-service/internal/infra/redis"
	"deerhacks-service/internal/points"
	transport "deerhacks-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the schedule and archetype server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var (
		events  app.EventStore       = memory.NewEventStore(sampleEvents()...)
		results app.ResultRepository = memory.NewResultStore()
		ledger  app.PointsStore      = memory.NewPointsStore()
	)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		events = pgstore.NewEventStore(pool)

		db := openBun(cfg.Postgres.URL)
		defer db.Close()
		results = pgstore.NewResultStore(db)
		ledger = pgstore.NewPointsStore(db)
	} else if redisClient != nil {
		results = redisstore.NewResultStore(redisClient)
		ledger = redisstore.NewPointsStore(redisClient)
	}

	signer, err := newSigner(cfg)
	if err != nil {
		return err
	}

	cacheTTL := config.TTLDuration(cfg.Schedule.CacheTTL, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	var eventRepo app.EventRepository
	var settings app.SettingsStore
	if redisClient != nil {
		eventRepo = redisstore.NewEventRepository(redisClient, events, cacheTTL)
		settings = redisstore.NewSettingsStore(redisClient)
	} else {
		eventRepo = memory.NewEventRepository(events, cacheTTL)
		settings = memory.NewSettingsStore()
	}

	scheduleSvc := app.NewScheduleService(events, eventRepo, settings, app.ScheduleOptions{
		Location:       loc,
		DefaultVisible: cfg.Schedule.Visible,
		Logger:         logger.Named("schedule"),
	})
	archetypeSvc := app.NewArchetypeService(results, logger.Named("archetype"))
	pointsSvc := app.NewPointsService(events, ledger, signer, app.PointsOptions{Logger: logger.Named("points")})

	mux := http.NewServeMux()
	transport.NewAPI(scheduleSvc, archetypeSvc, pointsSvc, logger.Named("http")).Register(mux)
	mux.HandleFunc("GET /ws/schedule", transport.NewWSHandler(scheduleSvc, logger.Named("ws")).ServeSchedule)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting deerhacks service", zap.String("addr", server.Addr), zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newSigner keys QR tokens from config. Without a configured secret tokens
// only verify on the instance that issued them.
func newSigner(cfg config.Config) (*points.Signer, error) {
	ttl := config.TTLDuration(cfg.Points.TokenTTL, points.DefaultTokenTTL)
	secret := []byte(cfg.Points.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		logger.Warn("points.token_secret not set, using a random per-process secret")
	}
	return points.NewSigner(secret, ttl)
}

// sampleEvents seeds the in-memory store when no database is configured.
func sampleEvents() []domain.Event {
	at := func(day, hour, minute int) time.Time {
		return time.Date(2025, time.February, day, hour, minute, 0, 0, time.UTC)
	}
	end := func(day, hour, minute int) *time.Time {
		t := at(day, hour, minute)
		return &t
	}
	return []domain.Event{
		{ID: 1, Title: "Registration", Location: "DH Lobby", StartTime: at(14, 23, 30), EndTime: end(15, 1, 0), Important: true, Host: "deerhacks", Type: domain.EventLogistics},
		{ID: 65, Title: "Opening Ceremony", Location: "MN 1210", StartTime: at(15, 1, 0), EndTime: end(15, 1, 30), Important: true, Host: "deerhacks", Type: domain.EventLogistics},
		{ID: 7, Title: "Hacking Begins", StartTime: at(15, 2, 30), Important: true, Host: "deerhacks", Type: domain.EventLogistics},
		{ID: 11, Title: "Come play Video Games!", Location: "DH 2020", StartTime: at(15, 19, 0), EndTime: end(15, 21, 0), Host: "mcss", Type: domain.EventActivity},
		{ID: 12, Title: "Snowball Fight", Location: "DH", StartTime: at(15, 19, 0), EndTime: end(15, 20, 0), Host: "mcss", Type: domain.EventActivity},
		{ID: 13, Title: "Using Notion to Think Less", Location: "DH 2010", StartTime: at(15, 20, 0), EndTime: end(15, 21, 0), Host: "mcss", Type: domain.EventWorkshop, Presenter: "Ivan", PointsValue: 10, QRActive: true},
		{ID: 55, Title: "Come Play Poker!!", Location: "DH Cafe", StartTime: at(15, 22, 0), EndTime: end(16, 1, 0), Host: "mcss", Type: domain.EventActivity},
		{ID: 3, Title: "Closing Ceremony", StartTime: at(16, 18, 0), EndTime: end(16, 19, 0), Important: true, Host: "deerhacks", Type: domain.EventLogistics},
	}
}
