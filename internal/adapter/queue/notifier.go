package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"loan-ledger/internal/core/domain"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TypeNotification is the asynq task type carrying a resolved-request notification.
const TypeNotification = "ledger:notification"

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier implements ports.Notifier by enqueuing a task per notification.
// Delivery and its retries happen in the worker process.
type AsynqNotifier struct {
	client   Enqueuer
	queue    string
	maxRetry int
	log      zerolog.Logger
}

// NewAsynqNotifier creates a notifier that enqueues onto queue.
func NewAsynqNotifier(client Enqueuer, queue string, maxRetry int, log zerolog.Logger) *AsynqNotifier {
	return &AsynqNotifier{client: client, queue: queue, maxRetry: maxRetry, log: log}
}

// NewClient connects an asynq client to the configured Redis.
func NewClient(opt asynq.RedisClientOpt) *asynq.Client {
	return asynq.NewClient(opt)
}

// Notify enqueues n for delivery.
func (q *AsynqNotifier) Notify(ctx context.Context, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	task := asynq.NewTask(TypeNotification, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.queue),
		asynq.MaxRetry(q.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue notification %s:%s: %w", n.MemberID, n.TxnID, err)
	}

	q.log.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("txn_id", n.TxnID).
		Msg("Notification enqueued")
	return nil
}
