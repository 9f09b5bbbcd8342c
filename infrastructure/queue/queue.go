/*
Package queue wires the tax job contract to asynq on Redis.

The original decorator-style retry options become an explicit Policy value:
delivery attempts, exponential backoff base and retention are configuration,
not annotations. The queue guarantees at-least-once delivery; handlers must
be idempotent.
*/
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"duplo-orders/config"
	"duplo-orders/domain/taxjob"

	"github.com/hibiken/asynq"
)

// Policy job delivery policy.
// MaxAttempts counts deliveries including the first; BackoffBase is the
// delay before the first redelivery, doubling each time.
type Policy struct {
	MaxAttempts int
	BackoffBase time.Duration
	Retention   time.Duration
}

// PolicyFromConfig builds the policy from application config.
func PolicyFromConfig(cfg *config.QueueConfig) Policy {
	return Policy{
		MaxAttempts: cfg.MaxAttempts,
		BackoffBase: cfg.BackoffBase,
		Retention:   cfg.Retention,
	}
}

// RedisOpt builds the asynq Redis connection options.
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client enqueues tax jobs.
type Client struct {
	client *asynq.Client
	policy Policy
}

// NewClient Create queue client
func NewClient(redisOpt asynq.RedisClientOpt, policy Policy) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt),
		policy: policy,
	}
}

// Enqueue submits a process-tax job. Finished jobs are retained rather than
// purged so the queue doubles as an audit trail.
func (c *Client) Enqueue(ctx context.Context, p taxjob.Payload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal tax job payload: %w", err)
	}

	// asynq's MaxRetry counts redeliveries after the first attempt
	task := asynq.NewTask(taxjob.TypeProcessTax, payload)
	opts := []asynq.Option{
		asynq.MaxRetry(c.policy.MaxAttempts - 1),
		asynq.Retention(c.policy.Retention),
	}

	if _, err := c.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue tax job: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Compile-time interface implementation check
var _ taxjob.Enqueuer = (*Client)(nil)
