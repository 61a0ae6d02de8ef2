package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine and archive metrics, exposed at /metrics.
var (
	engineOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hide_comments_engine_ops_total",
		Help: "Stateless engine endpoint calls",
	}, []string{"op"})

	fileOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hide_comments_file_ops_total",
		Help: "Workspace document operations",
	}, []string{"op", "outcome"})

	fileOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hide_comments_file_op_duration_seconds",
		Help:    "Time to run a workspace document operation",
		Buckets: []float64{0.001, 0.01, 0.1, 1, 10},
	}, []string{"op"})

	orphansArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hide_comments_orphans_archived_total",
		Help: "Comment records sent to the orphan archive",
	})

	orphansRestored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hide_comments_orphans_restored_total",
		Help: "Archived comments written back to their documents",
	})

	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hide_comments_events_published_total",
		Help: "Events fanned out to /events subscribers",
	}, []string{"type"})

	wsSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hide_comments_events_subscribers",
		Help: "Open /events websocket connections",
	})
)
