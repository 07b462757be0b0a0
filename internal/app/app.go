package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	_ "github.com/lib/pq"

	"github.com/dimasprk/matchday/internal/config"
	"github.com/dimasprk/matchday/internal/domain/match"
	"github.com/dimasprk/matchday/internal/domain/motm"
	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/domain/player"
	"github.com/dimasprk/matchday/internal/domain/rating"
	"github.com/dimasprk/matchday/internal/domain/roster"
	"github.com/dimasprk/matchday/internal/domain/team"
	"github.com/dimasprk/matchday/internal/infrastructure/account/anubis"
	"github.com/dimasprk/matchday/internal/infrastructure/notify/feed"
	"github.com/dimasprk/matchday/internal/infrastructure/notify/push"
	cachedrepo "github.com/dimasprk/matchday/internal/infrastructure/repository/cache"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/memory"
	"github.com/dimasprk/matchday/internal/infrastructure/repository/postgres"
	"github.com/dimasprk/matchday/internal/interfaces/httpapi"
	"github.com/dimasprk/matchday/internal/platform/cache"
	idgen "github.com/dimasprk/matchday/internal/platform/id"
	"github.com/dimasprk/matchday/internal/platform/logging"
	"github.com/dimasprk/matchday/internal/platform/resilience"
	"github.com/dimasprk/matchday/internal/usecase"
)

type repositories struct {
	matches       match.Repository
	requests      match.RequestRepository
	rosters       roster.Repository
	teams         team.Repository
	players       player.Repository
	votes         motm.Repository
	ratings       rating.Repository
	notifications notification.Repository
}

// NewHTTPServer wires the full service and returns the HTTP server plus a
// cleanup func that releases the notifier pool and the database handle.
// When DB_URL is empty the service runs on seeded in-memory repositories,
// which is the local development mode.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	idGen := idgen.NewRandomGenerator()

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectPath,
		cfg.AnubisAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)

	sinks := []notification.Sink{feed.NewSink(repos.notifications, idGen)}
	if cfg.PushEnabled {
		sinks = append(sinks, push.NewGateway(push.GatewayConfig{
			BaseURL: cfg.PushBaseURL,
			APIKey:  cfg.PushAPIKey,
			Timeout: cfg.PushTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.PushCircuitEnabled,
				FailureThreshold: cfg.PushCircuitFailureCount,
				OpenTimeout:      cfg.PushCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.PushCircuitHalfOpenMaxReq,
			},
		}, logger))
	}

	notifier, err := usecase.NewNotifier(cfg.NotifyWorkers, logger, sinks...)
	if err != nil {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("build notifier: %w", err)
	}

	matchSvc := usecase.NewMatchService(repos.matches, repos.requests, repos.rosters, repos.teams, idGen, logger)
	negotiationSvc := usecase.NewNegotiationService(repos.matches, repos.requests, repos.teams, idGen, notifier, logger)
	rosterSvc := usecase.NewRosterService(repos.matches, repos.rosters, repos.teams, idGen, notifier, logger)
	scoreSvc := usecase.NewScoreService(repos.matches, repos.rosters, repos.teams, repos.players, notifier, logger)
	motmSvc := usecase.NewMotmService(repos.matches, repos.rosters, repos.votes, repos.players, idGen, notifier, logger)
	ratingSvc := usecase.NewRatingService(repos.matches, repos.rosters, repos.ratings, repos.players, idGen, logger)
	notificationSvc := usecase.NewNotificationService(repos.notifications, logger)

	handler := httpapi.NewHandler(matchSvc, negotiationSvc, rosterSvc, scoreSvc, motmSvc, ratingSvc, notificationSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		notifier.Close()
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(context.Context) error {
		notifier.Close()
		if db != nil {
			return db.Close()
		}
		return nil
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("database disabled, using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			matches:       memory.NewMatchRepository(memory.SeedMatches()),
			requests:      memory.NewRequestRepository(),
			rosters:       memory.NewRosterRepository(memory.SeedRoster()),
			teams:         memory.NewTeamRepository(memory.SeedTeams()),
			players:       memory.NewPlayerRepository(memory.SeedPlayers()),
			votes:         memory.NewMotmRepository(),
			ratings:       memory.NewRatingRepository(),
			notifications: memory.NewNotificationRepository(),
		}, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	repos := repositories{
		matches:       postgres.NewMatchRepository(db),
		requests:      postgres.NewRequestRepository(db),
		rosters:       postgres.NewRosterRepository(db),
		teams:         postgres.NewTeamRepository(db),
		players:       postgres.NewPlayerRepository(db),
		votes:         postgres.NewMotmRepository(db),
		ratings:       postgres.NewRatingRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.teams = cachedrepo.NewTeamRepository(repos.teams, store)
		repos.players = cachedrepo.NewPlayerRepository(repos.players, store)
		logger.Info("repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	return repos, db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("close database", "error", err)
	}
}
