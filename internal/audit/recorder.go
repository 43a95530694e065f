// Package audit writes the activity trail. Recording is fire-and-forget:
// a failed write is logged, never surfaced to the operation that caused it.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/recordsunit/records-backend/internal/domain"
	"github.com/recordsunit/records-backend/pkg/ctxutil"
)

const writeTimeout = 5 * time.Second

type store interface {
	Append(ctx context.Context, e *domain.ActivityEntry) error
}

// Recorder appends activity entries in the background. The actor and
// origin address come from the request context at call time.
type Recorder struct {
	store store
	log   *slog.Logger
	now   func() time.Time

	wg sync.WaitGroup
}

func NewRecorder(log *slog.Logger, store store) *Recorder {
	return &Recorder{
		store: store,
		log:   log.With("component", "audit"),
		now:   time.Now,
	}
}

// Record captures the entry and returns immediately. The write happens
// on its own context so a cancelled request cannot lose its trail.
func (r *Recorder) Record(ctx context.Context, action string, details map[string]any) {
	actorID, _ := ctxutil.UserIDFromCtx(ctx)

	entry := &domain.ActivityEntry{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		OriginIP:  ctxutil.OriginIPFromCtx(ctx),
		CreatedAt: r.now().UTC(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		writeCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := r.store.Append(writeCtx, entry); err != nil {
			r.log.Error("failed to append activity entry",
				"action", action, "actor_id", entry.ActorID, "error", err)
		}
	}()
}

// Close waits for in-flight writes, bounded by ctx.
func (r *Recorder) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
