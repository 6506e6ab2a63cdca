package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	claimhandler "reclaim/internal/claims/handler"
	claimservice "reclaim/internal/claims/service"
	claimstore "reclaim/internal/claims/store/claim"
	httpapi "reclaim/internal/http"
	"reclaim/internal/items/cache"
	itemhandler "reclaim/internal/items/handler"
	itemservice "reclaim/internal/items/service"
	"reclaim/internal/items/store/found"
	"reclaim/internal/items/store/lost"
	"reclaim/internal/platform/config"
	"reclaim/internal/platform/httpserver"
	"reclaim/internal/platform/logger"
	"reclaim/internal/platform/metrics"
	platformredis "reclaim/internal/platform/redis"
	audit "reclaim/pkg/platform/audit"
	auditkafka "reclaim/pkg/platform/audit/kafka"
	auditmemory "reclaim/pkg/platform/audit/store/memory"
	auditpostgres "reclaim/pkg/platform/audit/store/postgres"
	auditworker "reclaim/pkg/platform/audit/worker"
)

// auditSinkBuffer bounds the fan-out channel between the trail and the Kafka
// worker. The store is the source of truth, so overflow drops fan-out only.
const auditSinkBuffer = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var listing *cache.ListingCache
	if redisClient != nil {
		defer redisClient.Close()
		listing = cache.New(redisClient.Client)
		log.Info("listing cache enabled")
	}

	var (
		db         *sql.DB
		claimStore claimservice.ClaimStore
		txRunner   claimservice.TxRunner
		foundStore itemservice.FoundStore
		lostStore  itemservice.LostStore
		auditStore audit.Store
	)
	if cfg.Database.URL != "" {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}

		pgClaims := claimstore.NewPostgres(db)
		claimStore = pgClaims
		txRunner = newClaimPostgresTx(db, pgClaims)
		foundStore = found.NewPostgres(db)
		lostStore = lost.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		log.Info("using postgres stores")
	} else {
		memClaims := claimstore.NewInMemory()
		claimStore = memClaims
		txRunner = claimservice.NewShardedTx(memClaims)
		foundStore = found.NewInMemory()
		lostStore = lost.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
		log.Warn("no database configured, using in-memory stores")
	}

	g, gctx := errgroup.WithContext(ctx)

	trailOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := auditkafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		inbox := make(chan audit.Entry, auditSinkBuffer)
		trailOpts = append(trailOpts, audit.WithSink(inbox))

		w := auditworker.New(publisher, inbox, log)
		g.Go(func() error {
			defer publisher.Close()
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("audit fan-out enabled", "topic", cfg.Kafka.AuditTopic)
	}
	trail := audit.NewTrail(auditStore, trailOpts...)

	itemSvc := itemservice.New(foundStore, lostStore, listing, trail, log, m)
	claimSvc := claimservice.New(claimStore, itemSvc, txRunner, trail, log, m)

	checks := map[string]httpapi.HealthChecker{}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	if db != nil {
		checks["postgres"] = dbHealth{db}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Claims: claimhandler.New(claimSvc, log),
		Items:  itemhandler.New(itemSvc, log),
		Logger: log,
		Checks: checks,
	})
	srv := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("starting reclaim server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
