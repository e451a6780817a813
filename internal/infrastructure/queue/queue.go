// Package queue wires the Redis-backed delay queues to their processors and
// exposes the scheduling ports the lifecycle engine depends on.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kirimaja/shipment-system/internal/api/metrics"
	"github.com/kirimaja/shipment-system/internal/core/ports"
	"github.com/kirimaja/shipment-system/internal/infrastructure/db/redis"
)

const (
	expiryQueueName = "queue:payment-expired"
	emailQueueName  = "queue:email"

	// Email retries back off from the job's own delay, defaulting to 1s
	// for immediate jobs; payment expiry uses the queue default (2s).
	emailBackoffBase = time.Second

	depthSampleInterval = 15 * time.Second
)

// ExpiryHandler processes a due payment-expiry job.
type ExpiryHandler interface {
	Process(ctx context.Context, job ports.ExpiryJob) error
}

// EmailHandler processes a queued email job.
type EmailHandler interface {
	Process(ctx context.Context, job ports.EmailJob) error
}

// Queues owns the payment-expiry and email delay queues. It implements
// ports.ExpiryScheduler and ports.EmailQueue.
type Queues struct {
	expiry *redis.DelayQueue
	email  *redis.DelayQueue
	log    zerolog.Logger
}

func New(client *goredis.Client, log zerolog.Logger) *Queues {
	return &Queues{
		expiry: redis.NewDelayQueue(client, expiryQueueName, redis.DelayQueueOptions{}, log),
		email: redis.NewDelayQueue(client, emailQueueName, redis.DelayQueueOptions{
			BackoffBase: emailBackoffBase,
		}, log),
		log: log,
	}
}

// ScheduleExpiry enqueues the expiry check to fire at expiryAt. A deadline
// already in the past enqueues for immediate execution.
func (q *Queues) ScheduleExpiry(ctx context.Context, job ports.ExpiryJob, expiryAt time.Time) error {
	delay := time.Until(expiryAt)
	if _, err := q.expiry.Enqueue(ctx, job, delay); err != nil {
		return fmt.Errorf("schedule expiry for payment %s: %w", job.PaymentID, err)
	}
	metrics.ExpiryJobsScheduledTotal.Inc()
	return nil
}

// CancelExpiry removes the first pending expiry job for paymentID. A missing
// job is a no-op.
func (q *Queues) CancelExpiry(ctx context.Context, paymentID string) error {
	return q.expiry.CancelFirst(ctx, func(payload json.RawMessage) bool {
		var job ports.ExpiryJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return false
		}
		return job.PaymentID == paymentID
	})
}

// EnqueueEmail schedules an email job after the given delay. Retries back
// off from the same delay; immediate jobs fall back to the queue's 1s base.
func (q *Queues) EnqueueEmail(ctx context.Context, job ports.EmailJob, delay time.Duration) error {
	if _, err := q.email.EnqueueWithBackoff(ctx, job, delay, delay); err != nil {
		return fmt.Errorf("enqueue %s email to %s: %w", job.Type, job.To, err)
	}
	return nil
}

// Start launches the queue workers. They stop when ctx is cancelled.
func (q *Queues) Start(ctx context.Context, expiryHandler ExpiryHandler, emailHandler EmailHandler) {
	q.expiry.Start(ctx, func(ctx context.Context, payload json.RawMessage) error {
		var job ports.ExpiryJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return fmt.Errorf("decode expiry job: %w", err)
		}
		if err := expiryHandler.Process(ctx, job); err != nil {
			metrics.ExpiryJobsProcessedTotal.WithLabelValues("error").Inc()
			return err
		}
		metrics.ExpiryJobsProcessedTotal.WithLabelValues("ok").Inc()
		return nil
	})

	q.email.Start(ctx, func(ctx context.Context, payload json.RawMessage) error {
		var job ports.EmailJob
		if err := json.Unmarshal(payload, &job); err != nil {
			return fmt.Errorf("decode email job: %w", err)
		}
		if err := emailHandler.Process(ctx, job); err != nil {
			metrics.EmailJobsProcessedTotal.WithLabelValues(job.Type, "error").Inc()
			return err
		}
		metrics.EmailJobsProcessedTotal.WithLabelValues(job.Type, "ok").Inc()
		return nil
	})

	go q.sampleDepth(ctx)
}

func (q *Queues) sampleDepth(ctx context.Context) {
	ticker := time.NewTicker(depthSampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if depth, err := q.expiry.Depth(ctx); err == nil {
				metrics.QueueDepth.WithLabelValues("payment-expired").Set(float64(depth))
			}
			if depth, err := q.email.Depth(ctx); err == nil {
				metrics.QueueDepth.WithLabelValues("email").Set(float64(depth))
			}
		}
	}
}
