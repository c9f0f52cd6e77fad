package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sourcegraph/conc"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gridironpicks/prediction-league/external/espn"
	"github.com/gridironpicks/prediction-league/internal/config"
	"github.com/gridironpicks/prediction-league/internal/domain/jobrun"
	"github.com/gridironpicks/prediction-league/internal/domain/league"
	"github.com/gridironpicks/prediction-league/internal/domain/prediction"
	"github.com/gridironpicks/prediction-league/internal/domain/scoring"
	"github.com/gridironpicks/prediction-league/internal/domain/standings"
	"github.com/gridironpicks/prediction-league/internal/domain/user"
	"github.com/gridironpicks/prediction-league/internal/infrastructure/account/gatekeeper"
	"github.com/gridironpicks/prediction-league/internal/infrastructure/jobqueue"
	cacherepo "github.com/gridironpicks/prediction-league/internal/infrastructure/repository/cache"
	"github.com/gridironpicks/prediction-league/internal/infrastructure/repository/memory"
	"github.com/gridironpicks/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/gridironpicks/prediction-league/internal/interfaces/httpapi"
	platformcache "github.com/gridironpicks/prediction-league/internal/platform/cache"
	idgen "github.com/gridironpicks/prediction-league/internal/platform/id"
	"github.com/gridironpicks/prediction-league/internal/platform/logging"
	"github.com/gridironpicks/prediction-league/internal/platform/resilience"
	"github.com/gridironpicks/prediction-league/internal/usecase"
)

// App owns the HTTP server, the storage handle, and the background
// scoring ticker. Build one with New, start the ticker with
// StartScoringTicker, and tear everything down with Shutdown.
type App struct {
	Server *http.Server

	cfg         config.Config
	logger      *logging.Logger
	db          *sqlx.DB
	scoreboards *usecase.ScoreboardService
	scoring     *usecase.ScoringService
	jobs        *jobqueue.QStashPublisher
	stop        chan struct{}
	wg          conc.WaitGroup
}

type repositories struct {
	leagues     league.Repository
	users       user.Repository
	predictions prediction.Repository
	standings   standings.Repository
	scoring     scoring.Repository
	runs        jobrun.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	feed := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Sport:      cfg.ESPNSport,
		League:     cfg.ESPNLeague,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	scoreboardSvc := usecase.NewScoreboardService(feed, platformcache.NewStore(cfg.ScoreboardCacheTTL))

	scoringSvc := usecase.NewScoringService(
		scoreboardSvc,
		repos.scoring,
		repos.runs,
		idgen.NewRandomGenerator(),
		logger,
	)
	scoringSvc.SetEnsureInterval(cfg.ScoringEnsureInterval)

	userSvc := usecase.NewUserService(repos.users)
	predictionSvc := usecase.NewPredictionService(scoreboardSvc, repos.predictions, repos.users, logger)
	leagueSvc := usecase.NewLeagueService(
		repos.leagues,
		repos.standings,
		repos.predictions,
		repos.users,
		scoreboardSvc,
		scoringSvc,
		idgen.NewRandomGenerator(),
		logger,
	)
	dashboardSvc := usecase.NewDashboardService(
		scoreboardSvc,
		scoringSvc,
		repos.leagues,
		repos.standings,
		repos.predictions,
		repos.users,
		logger,
	)

	verifier := gatekeeper.NewClient(
		&http.Client{Timeout: cfg.GatekeeperTimeout},
		cfg.GatekeeperBaseURL,
		cfg.GatekeeperIntrospectURL,
		cfg.GatekeeperAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.GatekeeperCircuitEnabled,
			FailureThreshold: cfg.GatekeeperCircuitFailureCount,
			OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenMaxReq,
		},
		logger,
	)

	var jobs *jobqueue.QStashPublisher
	if cfg.QStashEnabled {
		jobs = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	handler := httpapi.NewHandler(userSvc, scoreboardSvc, predictionSvc, leagueSvc, dashboardSvc, scoringSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:      server,
		cfg:         cfg,
		logger:      logger,
		db:          db,
		scoreboards: scoreboardSvc,
		scoring:     scoringSvc,
		jobs:        jobs,
		stop:        make(chan struct{}),
	}, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL not set, using in-memory storage with demo seed data")
		store := memory.NewStore()
		memory.Seed(store)

		return repositories{
			leagues:     memory.NewLeagueRepository(store),
			users:       memory.NewUserRepository(store),
			predictions: memory.NewPredictionRepository(store),
			standings:   memory.NewStandingsRepository(store),
			scoring:     memory.NewScoringRepository(store),
			runs:        memory.NewJobRunRepository(store),
		}, nil, nil
	}

	db, err := otelsqlx.ConnectContext(ctx, "postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, err
	}

	repos := repositories{
		leagues:     postgres.NewLeagueRepository(db),
		users:       postgres.NewUserRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		standings:   postgres.NewStandingsRepository(db),
		scoring:     postgres.NewScoringRepository(db),
		runs:        postgres.NewJobRunRepository(db),
	}

	if cfg.CacheEnabled {
		cacheStore := platformcache.NewStore(cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, cacheStore)
		repos.users = cacherepo.NewUserRepository(repos.users, cacheStore)
		repos.standings = cacherepo.NewStandingsRepository(repos.standings, cacheStore)
	}

	return repos, db, nil
}

// StartScoringTicker runs the periodic week-settlement gate in the
// background. Each tick ensures any finished week is scored; when QStash
// is configured and games are in progress, it also enqueues a delayed
// score-week callback so settlement happens even if this process dies
// before the week finishes.
func (a *App) StartScoringTicker() {
	a.wg.Go(func() {
		ticker := time.NewTicker(a.cfg.ScoringTickerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				a.runScoringTick()
			}
		}
	})
}

func (a *App) runScoringTick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := a.scoring.EnsureWeekScored(ctx, usecase.TriggerTicker); err != nil {
		a.logger.WarnContext(ctx, "scoring tick failed", "error", err)
	}

	if a.jobs == nil {
		return
	}

	board, err := a.scoreboards.Current(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "scoring tick could not read scoreboard", "error", err)
		return
	}
	if !board.Started() || board.Finished() {
		return
	}

	if err := a.jobs.EnqueueScoreWeek(ctx, board.Week, a.cfg.ScoreWeekKickDelay); err != nil {
		a.logger.WarnContext(ctx, "enqueue score-week kick failed", "week", board.Week, "error", err)
		return
	}
	a.logger.InfoContext(ctx, "score-week kick enqueued",
		"week", board.Week,
		"delay", a.cfg.ScoreWeekKickDelay.String(),
	)
}

// Shutdown stops the ticker, drains in-flight HTTP requests, and closes
// the database handle.
func (a *App) Shutdown(ctx context.Context) error {
	close(a.stop)
	a.wg.Wait()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}
