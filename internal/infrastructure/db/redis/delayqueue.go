package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultMaxAttempts   = 3
	defaultBackoffBase   = 2 * time.Second
	defaultPollInterval  = 500 * time.Millisecond
	defaultKeepCompleted = 10
	defaultKeepFailed    = 5
)

// Job is the envelope stored in the queue's sorted set.
type Job struct {
	ID         string          `json:"id"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`

	// BackoffBase overrides the queue's retry backoff base for this job
	// when positive.
	BackoffBase time.Duration `json:"backoff_base,omitempty"`
}

// DelayQueueOptions tunes a DelayQueue. Zero values fall back to defaults.
type DelayQueueOptions struct {
	MaxAttempts   int
	BackoffBase   time.Duration
	PollInterval  time.Duration
	KeepCompleted int64
	KeepFailed    int64
}

// DelayQueue is a Redis-backed delayed job queue. Jobs live in a sorted set
// scored by fire-at time in unix milliseconds; finished jobs are moved to
// bounded completed/failed lists instead of being kept indefinitely.
//
// Failed handler runs are retried with exponential backoff (base * 2^attempt)
// up to MaxAttempts before landing in the failed list.
type DelayQueue struct {
	client *redis.Client
	name   string
	opts   DelayQueueOptions
	log    zerolog.Logger
}

// NewDelayQueue creates a queue with the given name prefix, e.g.
// "queue:payment-expired".
func NewDelayQueue(client *redis.Client, name string, opts DelayQueueOptions, log zerolog.Logger) *DelayQueue {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.KeepCompleted <= 0 {
		opts.KeepCompleted = defaultKeepCompleted
	}
	if opts.KeepFailed <= 0 {
		opts.KeepFailed = defaultKeepFailed
	}
	return &DelayQueue{client: client, name: name, opts: opts, log: log}
}

func (q *DelayQueue) scheduledKey() string { return q.name + ":scheduled" }
func (q *DelayQueue) completedKey() string { return q.name + ":completed" }
func (q *DelayQueue) failedKey() string    { return q.name + ":failed" }

// Enqueue schedules payload to fire after delay. A non-positive delay
// schedules it for immediate execution.
func (q *DelayQueue) Enqueue(ctx context.Context, payload any, delay time.Duration) (string, error) {
	return q.EnqueueWithBackoff(ctx, payload, delay, 0)
}

// EnqueueWithBackoff is Enqueue with a per-job retry backoff base. A
// non-positive backoffBase keeps the queue's configured base.
func (q *DelayQueue) EnqueueWithBackoff(ctx context.Context, payload any, delay, backoffBase time.Duration) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("delay queue %s: marshal payload: %w", q.name, err)
	}

	job := Job{
		ID:          uuid.NewString(),
		Payload:     raw,
		EnqueuedAt:  time.Now().UTC(),
		BackoffBase: backoffBase,
	}
	fireAt := time.Now().Add(delay)
	if delay <= 0 {
		fireAt = time.Now()
	}

	if err := q.add(ctx, job, fireAt); err != nil {
		return "", err
	}
	return job.ID, nil
}

func (q *DelayQueue) add(ctx context.Context, job Job, fireAt time.Time) error {
	member, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("delay queue %s: marshal job: %w", q.name, err)
	}
	return q.client.ZAdd(ctx, q.scheduledKey(), redis.Z{
		Score:  float64(fireAt.UnixMilli()),
		Member: string(member),
	}).Err()
}

// CancelFirst removes the first pending job whose payload satisfies match.
// No matching job is a no-op; racing the job's own firing may lose, which
// the caller's handler must tolerate.
func (q *DelayQueue) CancelFirst(ctx context.Context, match func(payload json.RawMessage) bool) error {
	members, err := q.client.ZRange(ctx, q.scheduledKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("delay queue %s: scan pending jobs: %w", q.name, err)
	}

	for _, member := range members {
		var job Job
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			continue
		}
		if match(job.Payload) {
			return q.client.ZRem(ctx, q.scheduledKey(), member).Err()
		}
	}
	return nil
}

// Depth returns the number of pending jobs.
func (q *DelayQueue) Depth(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.scheduledKey()).Result()
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Start runs the polling worker until ctx is cancelled.
func (q *DelayQueue) Start(ctx context.Context, handler Handler) {
	go q.run(ctx, handler)
}

func (q *DelayQueue) run(ctx context.Context, handler Handler) {
	ticker := time.NewTicker(q.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				job, ok, err := q.claimDue(ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						q.log.Error().Err(err).Str("queue", q.name).Msg("failed to claim due job")
					}
					break
				}
				if !ok {
					break
				}
				q.execute(ctx, job, handler)
			}
		}
	}
}

// claimDue pops one due job. The ZRem guard makes the claim exclusive even
// with multiple workers polling the same queue.
func (q *DelayQueue) claimDue(ctx context.Context) (Job, bool, error) {
	now := float64(time.Now().UnixMilli())
	members, err := q.client.ZRangeByScore(ctx, q.scheduledKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%f", now),
		Count: 1,
	}).Result()
	if err != nil {
		return Job{}, false, err
	}
	if len(members) == 0 {
		return Job{}, false, nil
	}

	removed, err := q.client.ZRem(ctx, q.scheduledKey(), members[0]).Result()
	if err != nil {
		return Job{}, false, err
	}
	if removed == 0 {
		// Another worker claimed it first.
		return Job{}, false, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(members[0]), &job); err != nil {
		return Job{}, false, fmt.Errorf("decode job: %w", err)
	}
	return job, true, nil
}

func (q *DelayQueue) execute(ctx context.Context, job Job, handler Handler) {
	err := handler(ctx, job.Payload)
	if err == nil {
		q.finish(ctx, q.completedKey(), job, q.opts.KeepCompleted)
		return
	}

	job.Attempts++
	if job.Attempts < q.opts.MaxAttempts {
		delay := BackoffDelay(q.retryBase(job), job.Attempts)
		q.log.Warn().Err(err).
			Str("queue", q.name).
			Str("job_id", job.ID).
			Int("attempt", job.Attempts).
			Dur("retry_in", delay).
			Msg("job failed, retrying")
		if addErr := q.add(ctx, job, time.Now().Add(delay)); addErr != nil {
			q.log.Error().Err(addErr).Str("queue", q.name).Str("job_id", job.ID).Msg("failed to reschedule job")
		}
		return
	}

	q.log.Error().Err(err).
		Str("queue", q.name).
		Str("job_id", job.ID).
		Int("attempts", job.Attempts).
		Msg("job exhausted retries")
	q.finish(ctx, q.failedKey(), job, q.opts.KeepFailed)
}

// retryBase is the backoff base for a job's retries, honoring a per-job
// override.
func (q *DelayQueue) retryBase(job Job) time.Duration {
	if job.BackoffBase > 0 {
		return job.BackoffBase
	}
	return q.opts.BackoffBase
}

// finish moves a job to a bounded retention list.
func (q *DelayQueue) finish(ctx context.Context, key string, job Job, keep int64) {
	member, err := json.Marshal(job)
	if err != nil {
		return
	}
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, key, string(member))
	pipe.LTrim(ctx, key, 0, keep-1)
	if _, err := pipe.Exec(ctx); err != nil {
		q.log.Warn().Err(err).Str("queue", q.name).Msg("failed to record finished job")
	}
}

// BackoffDelay returns the exponential retry delay for the given attempt
// number (1-based): base, 2*base, 4*base, ...
func BackoffDelay(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}
