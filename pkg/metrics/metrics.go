// Package metrics provides a lightweight Prometheus-compatible metrics
// registry using only the standard library. Counters, gauges, and
// histograms are grouped into named families with label sets, and exposed
// via an HTTP /metrics endpoint in the Prometheus text exposition format.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuckets are the default histogram buckets (in seconds).
var DefaultBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Counter is a monotonically increasing counter.
type Counter struct{ val atomic.Int64 }

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

// Gauge can go up and down.
type Gauge struct{ val atomic.Int64 }

func (g *Gauge) Set(n int64)  { g.val.Store(n) }
func (g *Gauge) Inc()         { g.val.Add(1) }
func (g *Gauge) Dec()         { g.val.Add(-1) }
func (g *Gauge) Value() int64 { return g.val.Load() }

// Histogram tracks the distribution of observed values in fixed buckets.
type Histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *Histogram {
	b := make([]float64, len(buckets))
	copy(b, buckets)
	sort.Float64s(b)
	return &Histogram{buckets: b, counts: make([]uint64, len(b))}
}

// Observe records a value. Per-bucket counts are kept non-cumulative;
// rendering accumulates them.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	h.sum += v
	h.count++
	for i, b := range h.buckets {
		if v <= b {
			h.counts[i]++
			break
		}
	}
	h.mu.Unlock()
}

// Since observes the duration since t in seconds.
func (h *Histogram) Since(t time.Time) {
	h.Observe(time.Since(t).Seconds())
}

func (h *Histogram) snapshot() ([]float64, []uint64, float64, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := make([]uint64, len(h.counts))
	copy(c, h.counts)
	return h.buckets, c, h.sum, h.count
}

// family is all series of one metric name, keyed by rendered label set.
type family struct {
	typ     string // "counter", "gauge", "histogram"
	help    string
	buckets []float64
	series  map[string]any // labelKey -> *Counter | *Gauge | *Histogram
}

// Registry holds metric families in registration order.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*family
	order    []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{families: make(map[string]*family)}
}

func (r *Registry) family(name, typ, help string, buckets []float64) *family {
	f, ok := r.families[name]
	if !ok {
		f = &family{typ: typ, help: help, buckets: buckets, series: make(map[string]any)}
		r.families[name] = f
		r.order = append(r.order, name)
	}
	return f
}

// labelKey renders label pairs as `k="v",k2="v2"` in the given order.
// Malformed (odd-length) pairs render as the unlabeled series.
func labelKey(kvs []string) string {
	if len(kvs) == 0 || len(kvs)%2 != 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kvs); i += 2 {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", kvs[i], kvs[i+1])
	}
	return b.String()
}

// Counter returns (or creates) the counter series for the given name and
// label pairs.
func (r *Registry) Counter(name, help string, kvs ...string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.family(name, "counter", help, nil)
	key := labelKey(kvs)
	if c, ok := f.series[key].(*Counter); ok {
		return c
	}
	c := &Counter{}
	f.series[key] = c
	return c
}

// Gauge returns (or creates) the gauge series for the given name and
// label pairs.
func (r *Registry) Gauge(name, help string, kvs ...string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.family(name, "gauge", help, nil)
	key := labelKey(kvs)
	if g, ok := f.series[key].(*Gauge); ok {
		return g
	}
	g := &Gauge{}
	f.series[key] = g
	return g
}

// Histogram returns (or creates) the histogram series for the given name
// and label pairs. A nil buckets slice uses DefaultBuckets.
func (r *Registry) Histogram(name, help string, buckets []float64, kvs ...string) *Histogram {
	if buckets == nil {
		buckets = DefaultBuckets
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.family(name, "histogram", help, buckets)
	key := labelKey(kvs)
	if h, ok := f.series[key].(*Histogram); ok {
		return h
	}
	h := newHistogram(f.buckets)
	f.series[key] = h
	return h
}

// Render returns the Prometheus text exposition format output.
func (r *Registry) Render() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	for _, name := range r.order {
		f := r.families[name]
		if f.help != "" {
			fmt.Fprintf(&b, "# HELP %s %s\n", name, f.help)
		}
		fmt.Fprintf(&b, "# TYPE %s %s\n", name, f.typ)

		keys := make([]string, 0, len(f.series))
		for k := range f.series {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			switch m := f.series[key].(type) {
			case *Counter:
				fmt.Fprintf(&b, "%s%s %d\n", name, wrapLabels(key), m.Value())
			case *Gauge:
				fmt.Fprintf(&b, "%s%s %d\n", name, wrapLabels(key), m.Value())
			case *Histogram:
				buckets, counts, sum, count := m.snapshot()
				cumulative := uint64(0)
				for i, bk := range buckets {
					cumulative += counts[i]
					fmt.Fprintf(&b, "%s_bucket%s %d\n", name, wrapLabels(joinLabels(key, fmt.Sprintf("le=%q", fmt.Sprintf("%g", bk)))), cumulative)
				}
				fmt.Fprintf(&b, "%s_bucket%s %d\n", name, wrapLabels(joinLabels(key, `le="+Inf"`)), count)
				fmt.Fprintf(&b, "%s_sum%s %g\n", name, wrapLabels(key), sum)
				fmt.Fprintf(&b, "%s_count%s %d\n", name, wrapLabels(key), count)
			}
		}
	}
	return b.String()
}

func joinLabels(key, extra string) string {
	if key == "" {
		return extra
	}
	return key + "," + extra
}

func wrapLabels(key string) string {
	if key == "" {
		return ""
	}
	return "{" + key + "}"
}

// Handler returns an http.Handler serving the rendered registry.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.Write([]byte(r.Render()))
	})
}

// Serve starts an HTTP server on the given port serving /metrics.
func (r *Registry) Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// ServeAsync starts the metrics server in a goroutine. Errors are logged.
func (r *Registry) ServeAsync(port int) {
	go func() {
		if err := r.Serve(port); err != nil {
			fmt.Printf("metrics server error on port %d: %v\n", port, err)
		}
	}()
}
