package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/teamtrack/backend/internal/config"
	"github.com/teamtrack/backend/pkg/logger"
)

const TaskTypeInvite = "notification:invite"

// InviteNotification is the payload for an invitation email job.
type InviteNotification struct {
	MembershipID uint   `json:"membership_id"`
	ProjectName  string `json:"project_name"`
	Email        string `json:"email"`
	InviteToken  string `json:"invite_token"`
}

// NotificationQueue delivers invitation notifications, asynchronously when
// Redis is available.
type NotificationQueue interface {
	Enqueue(n *InviteNotification) error
	IsAsync() bool
	Close() error
}

var (
	globalQueue NotificationQueue
	queueOnce   sync.Once
)

// InitNotificationQueue initializes the global queue based on config: a
// Redis-backed asynq queue when enabled and reachable, a sync fallback
// otherwise.
func InitNotificationQueue(cfg *config.Config) NotificationQueue {
	queueOnce.Do(func() {
		if cfg.Redis.Enabled {
			queue, err := NewAsyncQueue(&cfg.Redis)
			if err != nil {
				logger.Warn().Err(err).Msg("redis unavailable, notification queue falling back to sync mode")
				globalQueue = NewSyncQueue()
			} else {
				logger.Info().Str("addr", cfg.Redis.Addr).Msg("async notification queue initialized")
				globalQueue = queue
			}
		} else {
			logger.Info().Msg("sync notification queue initialized (redis disabled)")
			globalQueue = NewSyncQueue()
		}
	})
	return globalQueue
}

// AsyncQueue implements NotificationQueue over asynq (Redis-based).
type AsyncQueue struct {
	client *asynq.Client
}

func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// verify the connection before accepting jobs
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) Enqueue(n *InviteNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeInvite, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Debug().Str("id", info.ID).Str("queue", info.Queue).Msg("invite notification enqueued")
	return nil
}

func (q *AsyncQueue) IsAsync() bool { return true }

func (q *AsyncQueue) Close() error { return q.client.Close() }

// SyncQueue delivers notifications in-process, off the request goroutine.
type SyncQueue struct {
	processor func(context.Context, *InviteNotification) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the delivery function.
func (q *SyncQueue) SetProcessor(processor func(context.Context, *InviteNotification) error) {
	q.processor = processor
}

func (q *SyncQueue) Enqueue(n *InviteNotification) error {
	if q.processor == nil {
		logger.Warn().Msg("no notification processor set, invite notification dropped")
		return nil
	}

	// deliver off the request path; the invite itself has already committed
	go func() {
		if err := q.processor(context.Background(), n); err != nil {
			logger.Error().Err(err).Uint("membership_id", n.MembershipID).Msg("invite notification delivery failed")
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool { return false }

func (q *SyncQueue) Close() error { return nil }
