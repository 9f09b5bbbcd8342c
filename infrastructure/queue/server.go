package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"duplo-orders/domain/taxjob"
	"duplo-orders/pkg/logger"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaxHandler processes one delivered tax job. Returning an error triggers
// the queue's redelivery/backoff machinery.
type TaxHandler interface {
	ProcessTax(ctx context.Context, p taxjob.Payload) (map[string]interface{}, error)
}

// Server queue consumer pool.
type Server struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	handler TaxHandler
}

// NewServer Create the worker server with the explicit delivery policy.
func NewServer(redisOpt asynq.RedisClientOpt, policy Policy, concurrency int, handler TaxHandler) *Server {
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		// Exponential redelivery backoff: base, 2*base, 4*base, ...
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			if n < 1 {
				n = 1
			}
			return policy.BackoffBase << uint(n-1)
		},
		Logger: newAsynqLogger(),
	})

	s := &Server{server: srv, mux: asynq.NewServeMux(), handler: handler}
	s.mux.HandleFunc(taxjob.TypeProcessTax, s.handleProcessTax)
	return s
}

// Run starts the consumer pool and blocks until Shutdown.
func (s *Server) Run() error {
	return s.server.Run(s.mux)
}

// Shutdown waits for in-flight jobs; interrupted jobs are redelivered,
// which is safe because status updates are idempotent overwrites.
func (s *Server) Shutdown() {
	s.server.Shutdown()
}

func (s *Server) handleProcessTax(ctx context.Context, task *asynq.Task) error {
	var payload taxjob.Payload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// A payload that cannot be parsed will never succeed; skip redelivery.
		return fmt.Errorf("invalid tax job payload: %v: %w", err, asynq.SkipRetry)
	}

	result, err := s.handler.ProcessTax(ctx, payload)
	if err != nil {
		return err
	}

	// Expose the tax payload as the job result for completion listeners.
	if w := task.ResultWriter(); w != nil {
		if data, merr := json.Marshal(result); merr == nil {
			if _, werr := w.Write(data); werr != nil {
				logger.Warn("Failed to write tax job result",
					zap.String("transaction_id", payload.TransactionID),
					zap.Error(werr),
				)
			}
		}
	}
	return nil
}

// asynqLogger adapts asynq's logging to zap.
type asynqLogger struct{}

func newAsynqLogger() *asynqLogger { return &asynqLogger{} }

func (l *asynqLogger) Debug(args ...interface{}) { logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { logger.Error(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { logger.Fatal(fmt.Sprint(args...)) }
