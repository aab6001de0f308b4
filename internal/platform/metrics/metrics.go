// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics owns the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewboard"

// Registry groups every collector the application records into.
// Each instance owns its own [prometheus.Registry] so tests never collide.
type Registry struct {
	registry *prometheus.Registry

	// HTTP
	RequestLatency *prometheus.HistogramVec
	RequestsTotal  *prometheus.CounterVec

	// Mail worker queue
	MailQueueDepth prometheus.Gauge
	MailsSent      *prometheus.CounterVec

	// Domain events
	ConfirmationCodes *prometheus.CounterVec
	ReviewsCreated    prometheus.Counter
}

// New builds and registers all collectors, including the Go runtime and process collectors.
func New() *Registry {
	registry := prometheus.NewRegistry()

	metrics := &Registry{
		registry: registry,

		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		MailQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mail_queue_depth",
				Help:      "Messages waiting for a mail worker.",
			},
		),
		MailsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mails_sent_total",
				Help:      "Outbound mail attempts by result.",
			},
			[]string{"result"}, // ok|error|rejected
		),
		ConfirmationCodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "confirmation_codes_total",
				Help:      "Confirmation code lifecycle events.",
			},
			[]string{"outcome"}, // issued|accepted|rejected
		),
		ReviewsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reviews_created_total",
				Help:      "Reviews successfully created.",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.RequestLatency,
		metrics.RequestsTotal,
		metrics.MailQueueDepth,
		metrics.MailsSent,
		metrics.ConfirmationCodes,
		metrics.ReviewsCreated,
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// Gatherer exposes the underlying registry for assertions.
func (metrics *Registry) Gatherer() prometheus.Gatherer {
	return metrics.registry
}
