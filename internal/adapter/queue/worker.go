package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// NotificationHandler delivers queued notifications.
type NotificationHandler struct {
	deliverer ports.NotificationDeliverer
	log       zerolog.Logger
}

func NewNotificationHandler(deliverer ports.NotificationDeliverer, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{deliverer: deliverer, log: log}
}

// ProcessTask implements asynq.Handler. Undecodable payloads are not retried.
func (h *NotificationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var n domain.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		h.log.Error().Err(err).Str("type", t.Type()).Msg("Dropping malformed notification task")
		return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
	}

	retry, _ := asynq.GetRetryCount(ctx)
	if err := h.deliverer.Deliver(ctx, n); err != nil {
		h.log.Warn().Err(err).
			Str("member_id", n.MemberID).
			Str("txn_id", n.TxnID).
			Int("retry", retry).
			Msg("Notification delivery failed")
		return err
	}
	return nil
}

// NewServeMux routes notification tasks to h.
func NewServeMux(h *NotificationHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeNotification, h)
	return mux
}

// NewServer builds the worker server consuming queue.
func NewServer(opt asynq.RedisClientOpt, queue string, concurrency int, log zerolog.Logger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			if retried >= maxRetry {
				log.Error().Err(err).Str("type", task.Type()).Msg("Notification task exhausted retries")
			}
		}),
	})
}
