package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/metrics"
	"filmorate/internal/store"
)

// feedRecorder пишет изменение и событие ленты в одной транзакции.
type feedRecorder struct {
	tx     store.Transactor
	now    func() time.Time
	logger *slog.Logger
}

func newFeedRecorder(tx store.Transactor, logger *slog.Logger) *feedRecorder {
	return &feedRecorder{tx: tx, now: time.Now, logger: logger}
}

func (r *feedRecorder) event(userID, entityID int64, eventType domain.EventType, op domain.Operation) *domain.Event {
	return &domain.Event{
		Timestamp: r.now().UnixMilli(),
		EventType: eventType,
		Operation: op,
		UserID:    userID,
		EntityID:  entityID,
	}
}

// write выполняет fn и сохраняет возвращенное им событие. Если запись события
// не удалась, изменения fn откатываются.
func (r *feedRecorder) write(ctx context.Context, fn func(tx *store.TxStores) (*domain.Event, error)) error {
	var event *domain.Event
	err := r.tx.InTx(ctx, func(tx *store.TxStores) error {
		ev, err := fn(tx)
		if err != nil {
			return err
		}
		if err := tx.Feed.Add(ctx, ev); err != nil {
			r.logger.ErrorContext(ctx, "Failed to record feed event",
				slog.Int64("userID", ev.UserID), slog.String("eventType", string(ev.EventType)), slog.String("error", err.Error()))
			return fmt.Errorf("failed to record %s/%s event: %w", ev.EventType, ev.Operation, err)
		}
		event = ev
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordFeedEvent(string(event.EventType), string(event.Operation))
	r.logger.DebugContext(ctx, "Feed event recorded",
		slog.Int64("eventID", event.EventID), slog.Int64("userID", event.UserID), slog.Int64("entityID", event.EntityID),
		slog.String("eventType", string(event.EventType)), slog.String("operation", string(event.Operation)))
	return nil
}
