package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/planloop/content-planner/internal/auth"
	"github.com/planloop/content-planner/internal/auth/demoimpl"
	"github.com/planloop/content-planner/internal/blobstore"
	"github.com/planloop/content-planner/internal/card"
	"github.com/planloop/content-planner/internal/card/cardimpl"
	"github.com/planloop/content-planner/internal/collection"
	"github.com/planloop/content-planner/internal/generator"
	"github.com/planloop/content-planner/internal/generator/generatorimpl"
	"github.com/planloop/content-planner/internal/genproxy"
	"github.com/planloop/content-planner/internal/maintenance"
	"github.com/planloop/content-planner/internal/maintenance/maintenanceimpl"
	_ "github.com/planloop/content-planner/internal/migrations"
	"github.com/planloop/content-planner/internal/notifier/telegramimpl"
	repositories "github.com/planloop/content-planner/internal/repositories/fx"
	"github.com/planloop/content-planner/internal/session"
	"github.com/planloop/content-planner/internal/session/sessionimpl"
	"github.com/planloop/content-planner/pkg/badgerdb"
	"github.com/planloop/content-planner/pkg/config"
	"github.com/planloop/content-planner/pkg/logger"
	"github.com/planloop/content-planner/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var App = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		badgerdb.New,
		collection.New,
	),
	fx.Provide(
		fx.Annotate(
			demoimpl.New,
			fx.As(new(auth.Provider)),
		),
		telegramimpl.New,
		fx.Annotate(
			generatorimpl.New,
			fx.As(new(generator.Client)),
		),
		fx.Annotate(
			sessionimpl.New,
			fx.As(new(session.Coordinator)),
			fx.As(new(card.ScopeSource)),
		),
		fx.Annotate(
			cardimpl.New,
			fx.As(new(card.Controller)),
		),
		fx.Annotate(
			maintenanceimpl.New,
			fx.As(new(maintenance.Client)),
		),
		genproxy.New,
	),
	repositories.Module,
	blobstore.Module,
	fx.Invoke(
		func(c *config.Config) error {
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}

			db, err := sql.Open("postgres", c.GetDSN())
			if err != nil {
				return err
			}
			defer db.Close()

			return goose.Up(db, ".")
		}),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, coordinator session.Coordinator,
	cards card.Controller, sweeper maintenance.Client, proxy *genproxy.Handler) {
	appCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg, proxy)

			// Until a restored or fresh sign-in lands, the board shows
			// the local guest scope. Watch comes second so a restored
			// session overrides guest mode, not the other way around.
			if err := coordinator.EnterGuest(appCtx); err != nil {
				log.Error("Failed to enter guest mode", "error", err)
			}
			coordinator.Watch()

			if err := sweeper.Schedule(appCtx); err != nil {
				log.Error("Failed to schedule blob sweep", "error", err)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			if err := cards.Flush(ctx); err != nil {
				log.Error("Failed to flush pending saves", "error", err)
				return err
			}
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config, proxy *genproxy.Handler) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})
	proxy.Register(mux)

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), mux); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
