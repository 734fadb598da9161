package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventapp_events_created_total",
		Help: "Total number of events created.",
	})

	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventapp_likes_toggled_total",
		Help: "Total number of like toggles, labelled by direction (like|unlike).",
	}, []string{"direction"})

	CommentsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventapp_comments_added_total",
		Help: "Total number of comments appended to events.",
	})

	ActivityPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventapp_activity_publish_failures_total",
		Help: "Total number of activity messages that could not be published.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventapp_http_requests_total",
		Help: "Total number of HTTP requests, labelled by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventapp_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"method", "route"})
)
