package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/config"
	"github.com/thinkscotty/ideagen/internal/database"
	"github.com/thinkscotty/ideagen/internal/events"
	"github.com/thinkscotty/ideagen/internal/favorites"
	"github.com/thinkscotty/ideagen/internal/metrics"
	"github.com/thinkscotty/ideagen/internal/scheduler"
	"github.com/thinkscotty/ideagen/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	slog.Info("Starting ideagen", "version", version, "built", buildTime)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()
	slog.Info("Database initialized", "path", cfg.Database.Path)

	gw, closeGateway, err := openFavorites(ctx, cfg.Favorites, db)
	if err != nil {
		return err
	}
	defer closeGateway()
	slog.Info("Favorites backend ready", "backend", cfg.Favorites.Backend)

	gen := newGenerator(ctx)

	publisher := openPublisher(cfg.NATS)
	defer publisher.Close()

	notifier := auth.NewNotifier()
	events.SubscribeAuth(notifier, publisher)
	if cfg.Metrics.Enabled {
		metrics.Init(version, gen.Model())
		metrics.SubscribeAuth(notifier)
	}

	srv := server.New(server.Deps{
		Config:    cfg,
		DB:        db,
		Ideas:     gen,
		Favorites: favorites.NewService(gw),
		Events:    publisher,
		Notifier:  notifier,
		Version:   version,
	})
	sched := scheduler.New(db,
		time.Duration(cfg.Database.HousekeepingMinutes)*time.Minute,
		cfg.Database.LogRetentionDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openFavorites returns the configured favorites store and a function that
// releases its connection.
func openFavorites(ctx context.Context, fc config.FavoritesConfig, db *database.DB) (favorites.Gateway, func(), error) {
	switch fc.Backend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(fc.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		disconnect := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				slog.Warn("Mongo disconnect failed", "error", err)
			}
		}
		if err := client.Ping(ctx, nil); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("pinging mongo: %w", err)
		}
		gw := favorites.NewMongoGateway(client.Database(fc.Mongo.Database), fc.Mongo.Collection)
		if err := gw.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("creating mongo indexes: %w", err)
		}
		return gw, disconnect, nil

	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, fc.Firestore.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to firestore: %w", err)
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				slog.Warn("Firestore close failed", "error", err)
			}
		}
		return favorites.NewFirestoreGateway(client, fc.Firestore.Collection), closeClient, nil

	default:
		return db.Favorites(), func() {}, nil
	}
}

// openPublisher connects to NATS when a URL is configured. Events are
// best-effort, so a failed connection falls back to the no-op publisher.
func openPublisher(nc config.NATSConfig) events.Publisher {
	if nc.URL == "" {
		return events.Noop{}
	}
	p, err := events.NewNATSPublisher(nc.URL, nc.SubjectPrefix)
	if err != nil {
		slog.Warn("Event publishing disabled", "error", err)
		return events.Noop{}
	}
	slog.Info("Publishing events to NATS", "url", nc.URL, "prefix", nc.SubjectPrefix)
	return p
}
