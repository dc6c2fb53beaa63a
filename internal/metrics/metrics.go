// Package metrics exposes Prometheus instrumentation for batch runs.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	itemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remocr_items_total",
			Help: "Total number of images processed",
		},
		[]string{"status"}, // status: success, failed
	)

	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "remocr_request_duration_seconds",
			Help:    "Remote OCR request duration in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 25, 50, 100, 300, 600},
		},
	)

	extractedTextLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "remocr_extracted_text_length",
			Help:    "Length of extracted OCR text in characters",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)
)

// RecordItem counts one processed image by outcome status.
func RecordItem(status string) {
	itemsTotal.WithLabelValues(status).Inc()
}

// RecordRequestDuration observes one remote request round trip.
func RecordRequestDuration(d time.Duration) {
	requestDuration.Observe(d.Seconds())
}

// RecordTextLength observes the size of one extracted text.
func RecordTextLength(length int) {
	extractedTextLength.Observe(float64(length))
}

// Serve exposes /metrics on addr for the duration of a batch run. The
// returned stop function shuts the listener down.
func Serve(addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics listener stopped", "addr", addr, "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
