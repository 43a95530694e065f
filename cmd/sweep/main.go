// Command sweep runs a single reminder sweep and exits. Useful for cron
// driven deployments where the in-process scheduler is disabled.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/recordsunit/records-backend/internal/adapter/docstore"
	"github.com/recordsunit/records-backend/internal/adapter/docstore/activity"
	"github.com/recordsunit/records-backend/internal/adapter/docstore/ledger"
	"github.com/recordsunit/records-backend/internal/adapter/docstore/notification"
	"github.com/recordsunit/records-backend/internal/adapter/postgres"
	recordrepo "github.com/recordsunit/records-backend/internal/adapter/postgres/record"
	requestrepo "github.com/recordsunit/records-backend/internal/adapter/postgres/request"
	userrepo "github.com/recordsunit/records-backend/internal/adapter/postgres/user"
	"github.com/recordsunit/records-backend/internal/adapter/smtp"
	"github.com/recordsunit/records-backend/internal/app"
	"github.com/recordsunit/records-backend/internal/audit"
	"github.com/recordsunit/records-backend/internal/config"
	"github.com/recordsunit/records-backend/internal/notify"
	"github.com/recordsunit/records-backend/internal/realtime"
	"github.com/recordsunit/records-backend/internal/service/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	docs, err := docstore.Open(ctx, cfg.DocStore.Path)
	if err != nil {
		log.Fatalf("open docstore: %v", err)
	}
	defer docs.Close()

	var dispatcher *notify.Dispatcher
	hub := realtime.NewHub(logger)
	if cfg.SMTP.Host != "" {
		dispatcher = notify.NewDispatcher(logger, notification.New(docs), hub, smtp.NewMailer(cfg.SMTP))
	} else {
		dispatcher = notify.NewDispatcher(logger, notification.New(docs), hub, nil)
	}

	auditRec := audit.NewRecorder(logger, activity.New(docs))

	svc := sweeper.NewService(
		logger,
		requestrepo.New(pool),
		recordrepo.New(pool),
		userrepo.New(pool),
		ledger.New(docs),
		dispatcher,
		auditRec,
		cfg.Sweeper,
	)

	if err := svc.RunOnce(ctx); err != nil {
		log.Fatalf("sweep: %v", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := auditRec.Close(closeCtx); err != nil {
		logger.Warn("audit recorder close", slog.String("error", err.Error()))
	}
}
