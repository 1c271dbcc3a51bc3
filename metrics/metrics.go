// Package metrics exposes Prometheus metrics for the advisory certificate
// service on a dedicated listen address.
package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CertificatesIssued counts successfully issued certificates.
	CertificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_certificates_issued_total",
		Help: "Number of advisory certificates issued",
	})

	// ValidationFailures counts issuance requests rejected for missing fields.
	ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_validation_failures_total",
		Help: "Number of issuance requests rejected during validation",
	})

	// SigningFailures counts failures of the signing primitive.
	SigningFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_signing_failures_total",
		Help: "Number of issuance requests that failed during signing",
	})

	// RenderFailures counts artifact rendering failures. Rendering is
	// non-fatal, so this counter is the main signal that artifacts are
	// missing.
	RenderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_render_failures_total",
		Help: "Number of certificate artifact rendering failures",
	})

	// Verifications counts verification requests by outcome
	// (valid, invalid, malformed).
	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisory_verifications_total",
		Help: "Number of certificate verifications by outcome",
	}, []string{"outcome"})
)

var serviceInfoOnce sync.Once

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. The service name tags the
// scrape output with the service identity.
func New(service, addr string) (*MetricsServer, error) {
	serviceInfoOnce.Do(func() {
		info := promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "advisory_service_info",
			Help:        "Static service identity gauge, always 1",
			ConstLabels: prometheus.Labels{"service": service},
		})
		info.Set(1)
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
