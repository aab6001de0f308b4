// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/reviewboard/internal/platform/apperr"
	"github.com/taibuivan/reviewboard/internal/platform/metrics"
	"github.com/taibuivan/reviewboard/internal/platform/worker"
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 30 * time.Second

// Dispatcher queues messages for background delivery.
type Dispatcher struct {
	pool    *worker.Pool
	mailer  Mailer
	metrics *metrics.Registry
	logger  *slog.Logger
}

// NewDispatcher starts workers goroutines delivering through mailer.
func NewDispatcher(mailer Mailer, workers, queueSize int, registry *metrics.Registry, logger *slog.Logger) *Dispatcher {
	pool := worker.NewPool(workers, queueSize, worker.WithDepthObserver(func(depth int) {
		registry.MailQueueDepth.Set(float64(depth))
	}))

	return &Dispatcher{pool: pool, mailer: mailer, metrics: registry, logger: logger}
}

/*
Enqueue schedules message for delivery and returns immediately.

Returns:
  - error: apperr.ServiceUnavailable when the queue is full or shutting down
*/
func (dispatcher *Dispatcher) Enqueue(message Message) error {
	err := dispatcher.pool.TrySubmit(func(context context.Context) {
		sendContext, cancel := contextWithTimeout(context)
		defer cancel()

		if err := dispatcher.mailer.Send(sendContext, message); err != nil {
			dispatcher.metrics.MailsSent.WithLabelValues("error").Inc()
			dispatcher.logger.Error("mail_send_failed",
				slog.String("to", message.To),
				slog.String("subject", message.Subject),
				slog.Any("error", err),
			)
			return
		}

		dispatcher.metrics.MailsSent.WithLabelValues("ok").Inc()
		dispatcher.logger.Info("mail_sent", slog.String("to", message.To), slog.String("subject", message.Subject))
	})

	if err != nil {
		dispatcher.metrics.MailsSent.WithLabelValues("rejected").Inc()
		if errors.Is(err, worker.ErrQueueFull) {
			return apperr.ServiceUnavailable("Mail queue is full, try again later")
		}
		return apperr.ServiceUnavailable("Mail delivery is shutting down")
	}
	return nil
}

// Stop drains queued mail, giving up when ctx expires.
func (dispatcher *Dispatcher) Stop(context context.Context) error {
	return dispatcher.pool.Stop(context)
}

func contextWithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sendTimeout)
}
