package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Time taken to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	AuthorizationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authorization_decisions_total",
		Help: "Authorization decisions by resource kind, action and outcome",
	}, []string{"kind", "action", "decision", "reason"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	ActorCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actor_cache_lookups_total",
		Help: "Actor cache lookups by result",
	}, []string{"result"})
)
