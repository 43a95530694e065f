// Package app wires configuration, stores, services and transport into
// a running process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/recordsunit/records-backend/internal/adapter/docstore"
	"github.com/recordsunit/records-backend/internal/adapter/docstore/activity"
	"github.com/recordsunit/records-backend/internal/adapter/docstore/ledger"
	"github.com/recordsunit/records-backend/internal/adapter/docstore/notification"
	"github.com/recordsunit/records-backend/internal/adapter/postgres"
	recordrepo "github.com/recordsunit/records-backend/internal/adapter/postgres/record"
	requestrepo "github.com/recordsunit/records-backend/internal/adapter/postgres/request"
	userrepo "github.com/recordsunit/records-backend/internal/adapter/postgres/user"
	"github.com/recordsunit/records-backend/internal/adapter/smtp"
	"github.com/recordsunit/records-backend/internal/audit"
	"github.com/recordsunit/records-backend/internal/auth"
	"github.com/recordsunit/records-backend/internal/config"
	"github.com/recordsunit/records-backend/internal/notify"
	"github.com/recordsunit/records-backend/internal/realtime"
	recordsvc "github.com/recordsunit/records-backend/internal/service/record"
	requestsvc "github.com/recordsunit/records-backend/internal/service/request"
	"github.com/recordsunit/records-backend/internal/service/sweeper"
	usersvc "github.com/recordsunit/records-backend/internal/service/user"
	"github.com/recordsunit/records-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, opens both
// stores, wires services and serves HTTP until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := postgres.Migrate(cfg.Database.DSN); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	docs, err := docstore.Open(ctx, cfg.DocStore.Path)
	if err != nil {
		return fmt.Errorf("open docstore: %w", err)
	}
	defer docs.Close()

	// Stores.
	users := userrepo.New(pool)
	records := recordrepo.New(pool)
	requests := requestrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	notifications := notification.New(docs)
	activities := activity.New(docs)
	reminderLedger := ledger.New(docs)

	// Cross-cutting collaborators.
	hub := realtime.NewHub(logger)
	auditRec := audit.NewRecorder(logger, activities)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	approvers := auth.NewApproverResolver(users)

	var dispatcher *notify.Dispatcher
	if cfg.SMTP.Host != "" {
		dispatcher = notify.NewDispatcher(logger, notifications, hub, smtp.NewMailer(cfg.SMTP))
	} else {
		logger.Warn("smtp host not configured, email channel disabled")
		dispatcher = notify.NewDispatcher(logger, notifications, hub, nil)
	}

	// Services.
	userService := usersvc.NewService(logger, users, jwtManager, auditRec)
	recordService := recordsvc.NewService(logger, records, auditRec)
	requestService := requestsvc.NewService(
		logger, requests, records, users, approvers, txManager,
		dispatcher, auditRec, cfg.Sweeper.LoanPeriod,
	)
	sweepService := sweeper.NewService(
		logger, requests, records, users, reminderLedger,
		dispatcher, auditRec, cfg.Sweeper,
	)

	handlers := rest.Handlers{
		Auth:          rest.NewAuthHandler(userService, logger),
		Records:       rest.NewRecordHandler(recordService, logger),
		Requests:      rest.NewRequestHandler(requestService, logger),
		Notifications: rest.NewNotificationHandler(notifications, logger),
		Activity:      rest.NewActivityHandler(activities, logger),
		Events:        rest.NewEventsHandler(hub, logger),
		Health:        rest.NewHealthHandler(pool, sqlPinger{docs}, BuildVersion()),
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      rest.NewRouter(cfg, logger, jwtManager, handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if cfg.Sweeper.Enabled {
		g.Go(func() error {
			if err := sweepService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("sweeper: %w", err)
			}
			return nil
		})
	}

	err = g.Wait()

	// Let in-flight audit writes land before the stores close.
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if closeErr := auditRec.Close(closeCtx); closeErr != nil {
		logger.Warn("audit recorder close", slog.String("error", closeErr.Error()))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("application stopped")
	return nil
}

// sqlPinger adapts *sql.DB to the health check interface.
type sqlPinger struct {
	db *sql.DB
}

func (p sqlPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
