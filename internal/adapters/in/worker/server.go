package worker

import (
	"context"
	"errors"

	"freight/internal/adapters/out/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ServerOptions configures the worker. Zero Concurrency means 10; an empty
// Queue means queue.DefaultQueue.
type ServerOptions struct {
	Redis       queue.RedisOptions
	Concurrency int
	Queue       string
}

// Server runs the asynq consumer until its context is cancelled.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer registers consumer's handlers on a fresh mux.
func NewServer(opts ServerOptions, consumer *Consumer, log *zap.Logger) *Server {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	queueName := opts.Queue
	if queueName == "" {
		queueName = queue.DefaultQueue
	}

	server := asynq.NewServer(opts.Redis.ClientOpt(), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueName: 1},
		Logger:      log.Sugar().With("component", "asynq"),
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Warn("task failed", zap.String("task", task.Type()), zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	consumer.Register(mux)

	return &Server{server: server, mux: mux}
}

// Run blocks until ctx is done, then drains in-flight tasks.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}
