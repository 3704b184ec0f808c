package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	r := New()
	c := r.Counter("requests_total", "Total requests")
	c.Inc()
	c.Add(4)
	if c.Value() != 5 {
		t.Fatalf("expected 5, got %d", c.Value())
	}
}

func TestCounter_SameSeriesReturned(t *testing.T) {
	r := New()
	a := r.Counter("hits_total", "")
	b := r.Counter("hits_total", "")
	a.Inc()
	if b.Value() != 1 {
		t.Fatal("same name and labels must return the same series")
	}
}

func TestCounter_LabeledSeries(t *testing.T) {
	r := New()
	ok := r.Counter("results_total", "Results", "status", "ok")
	fail := r.Counter("results_total", "Results", "status", "error")
	ok.Add(3)
	fail.Inc()

	out := r.Render()
	if !strings.Contains(out, `results_total{status="ok"} 3`) {
		t.Fatalf("missing ok series:\n%s", out)
	}
	if !strings.Contains(out, `results_total{status="error"} 1`) {
		t.Fatalf("missing error series:\n%s", out)
	}
	if strings.Count(out, "# TYPE results_total counter") != 1 {
		t.Fatalf("family header must appear once:\n%s", out)
	}
}

func TestGauge(t *testing.T) {
	r := New()
	g := r.Gauge("in_flight", "")
	g.Set(10)
	g.Inc()
	g.Dec()
	g.Dec()
	if g.Value() != 9 {
		t.Fatalf("expected 9, got %d", g.Value())
	}
}

func TestHistogram_Render(t *testing.T) {
	r := New()
	h := r.Histogram("latency_seconds", "Latency", []float64{0.1, 1, 10})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(100)

	out := r.Render()
	if !strings.Contains(out, `latency_seconds_bucket{le="0.1"} 1`) {
		t.Fatalf("wrong first bucket:\n%s", out)
	}
	if !strings.Contains(out, `latency_seconds_bucket{le="1"} 2`) {
		t.Fatalf("buckets must be cumulative:\n%s", out)
	}
	if !strings.Contains(out, `latency_seconds_bucket{le="+Inf"} 3`) {
		t.Fatalf("missing +Inf bucket:\n%s", out)
	}
	if !strings.Contains(out, "latency_seconds_count 3") {
		t.Fatalf("missing count:\n%s", out)
	}
}

func TestHistogram_Since(t *testing.T) {
	r := New()
	h := r.Histogram("op_seconds", "", nil)
	h.Since(time.Now().Add(-10 * time.Millisecond))
	if _, _, _, count := h.snapshot(); count != 1 {
		t.Fatalf("expected 1 observation, got %d", count)
	}
}

func TestRender_HelpAndOrder(t *testing.T) {
	r := New()
	r.Counter("first_total", "First metric")
	r.Gauge("second", "")

	out := r.Render()
	if !strings.Contains(out, "# HELP first_total First metric") {
		t.Fatalf("missing help:\n%s", out)
	}
	if strings.Contains(out, "# HELP second") {
		t.Fatalf("empty help must be omitted:\n%s", out)
	}
	if strings.Index(out, "first_total") > strings.Index(out, "second") {
		t.Fatalf("families must render in registration order:\n%s", out)
	}
}

func TestLabelKey_OddPairs(t *testing.T) {
	if got := labelKey([]string{"only"}); got != "" {
		t.Fatalf("odd pairs must render unlabeled, got %q", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("pings_total", "").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("wrong content type: %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "pings_total 1") {
		t.Fatalf("missing metric:\n%s", rec.Body.String())
	}
}
