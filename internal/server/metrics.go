package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for Prometheus
var (
	videosTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tubevibes_videos_total",
		Help: "Total number of videos in the catalog",
	})

	uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tubevibes_uploads_total",
		Help: "Total number of upload attempts",
	}, []string{"status"})

	notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tubevibes_notifications_total",
		Help: "Total number of catalog event deliveries",
	}, []string{"sink", "status"})

	mediaRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tubevibes_media_revoked_total",
		Help: "Total number of media objects revoked by the sweeper",
	})

	requestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tubevibes_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tubevibes_errors_total",
		Help: "Total number of errors",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(videosTotal)
	prometheus.MustRegister(uploadsTotal)
	prometheus.MustRegister(notificationsTotal)
	prometheus.MustRegister(mediaRevokedTotal)
	prometheus.MustRegister(requestDurationSeconds)
	prometheus.MustRegister(errorsTotal)
}

// UpdateVideoCount updates the videos_total metric
func UpdateVideoCount(count int64) {
	videosTotal.Set(float64(count))
}

// RecordUpload records an upload attempt
func RecordUpload(status string) {
	uploadsTotal.WithLabelValues(status).Inc()
}

// RecordNotification records a delivery attempt to a notify sink
func RecordNotification(sink string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
		RecordError("notify")
	}
	notificationsTotal.WithLabelValues(sink, status).Inc()
}

// RecordSweep records the number of media objects revoked in one sweep
func RecordSweep(revoked int) {
	mediaRevokedTotal.Add(float64(revoked))
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

func observeRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	requestDurationSeconds.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
