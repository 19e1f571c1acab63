// Package metrics exports drag-select activity as Prometheus metrics.
//
// Collectors implements dragselect.Observer; hand it to the engine with
// dragselect.WithObserver and serve the registry with Handler or Serve.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/dragselect/internal/dragselect"
	"github.com/dshills/dragselect/internal/logging"
)

const namespace = "dragselect"

// Collectors holds the engine metrics.
type Collectors struct {
	SessionsTotal      *prometheus.CounterVec
	SessionDuration    prometheus.Histogram
	SessionActive      prometheus.Gauge
	SelectionOpsTotal  *prometheus.CounterVec
	SelectionItems     *prometheus.CounterVec
	ReceiverRejections prometheus.Counter
	AutoScrollTicks    prometheus.Counter
	AutoScrollVelocity prometheus.Histogram

	mu      sync.Mutex
	started time.Time
	now     func() time.Time
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		SessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Drag-select sessions started, by mode.",
		}, []string{"mode"}),
		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Time from activation to the end of the gesture.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		SessionActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_active",
			Help:      "Whether a drag-select session is in progress (1) or not (0).",
		}),
		SelectionOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_ops_total",
			Help:      "Selection updates pushed to the receiver, by operation.",
		}, []string{"op"}),
		SelectionItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_items_total",
			Help:      "Indices covered by selection updates, by operation.",
		}, []string{"op"}),
		ReceiverRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receiver_rejections_total",
			Help:      "Selection updates the receiver rejected.",
		}),
		AutoScrollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autoscroll_ticks_total",
			Help:      "Auto-scroll ticks run.",
		}),
		AutoScrollVelocity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "autoscroll_velocity",
			Help:      "Absolute scroll distance per auto-scroll tick.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32},
		}),
		now: time.Now,
	}

	for _, col := range []prometheus.Collector{
		c.SessionsTotal,
		c.SessionDuration,
		c.SessionActive,
		c.SelectionOpsTotal,
		c.SelectionItems,
		c.ReceiverRejections,
		c.AutoScrollTicks,
		c.AutoScrollVelocity,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var _ dragselect.Observer = (*Collectors)(nil)

// SessionStarted implements dragselect.Observer.
func (c *Collectors) SessionStarted(mode dragselect.Mode) {
	c.SessionsTotal.WithLabelValues(mode.String()).Inc()
	c.SessionActive.Set(1)
	c.mu.Lock()
	c.started = c.now()
	c.mu.Unlock()
}

// SessionEnded implements dragselect.Observer.
func (c *Collectors) SessionEnded() {
	c.SessionActive.Set(0)
	c.mu.Lock()
	started := c.started
	c.started = time.Time{}
	c.mu.Unlock()
	if !started.IsZero() {
		c.SessionDuration.Observe(c.now().Sub(started).Seconds())
	}
}

// SelectionApplied implements dragselect.Observer.
func (c *Collectors) SelectionApplied(count int, selected bool) {
	op := "deselect"
	if selected {
		op = "select"
	}
	c.SelectionOpsTotal.WithLabelValues(op).Inc()
	c.SelectionItems.WithLabelValues(op).Add(float64(count))
}

// ReceiverRejected implements dragselect.Observer.
func (c *Collectors) ReceiverRejected() {
	c.ReceiverRejections.Inc()
}

// AutoScrollTick implements dragselect.Observer.
func (c *Collectors) AutoScrollTick(velocity int) {
	c.AutoScrollTicks.Inc()
	if velocity < 0 {
		velocity = -velocity
	}
	c.AutoScrollVelocity.Observe(float64(velocity))
}

// Handler returns the HTTP handler exposing g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes g on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *logging.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithComponent("metrics")

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("serving metrics on %s", ln.Addr())
		errc <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
