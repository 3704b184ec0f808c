// Command telemetry-ingest consumes sensor readings from NATS and writes
// them into the fleet graph.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/skyops-io/fleetgraph/engine/graph"
	"github.com/skyops-io/fleetgraph/pkg/metrics"
	"github.com/skyops-io/fleetgraph/pkg/natsutil"
)

const subject = "telemetry.readings"

var met = metrics.New()

var (
	mReceived = met.Counter("fleet_ingest_readings_received_total", "Readings received from NATS")
	mWritten  = met.Counter("fleet_ingest_readings_written_total", "Readings written to the graph")
	mDropped  = func(reason string) *metrics.Counter {
		return met.Counter("fleet_ingest_readings_dropped_total", "Readings dropped", "reason", reason)
	}
	mGeneratedIDs = met.Counter("fleet_ingest_generated_ids_total", "Readings that arrived without a reading_id")
	mWriteDur     = met.Histogram("fleet_ingest_write_duration_seconds", "Graph write latency", nil)
	mInFlight     = met.Gauge("fleet_ingest_in_flight", "Writes currently in progress")
)

func main() {
	var (
		natsURL      = flag.String("nats", nats.DefaultURL, "NATS server URL")
		queue        = flag.String("queue", "telemetry-ingest", "NATS queue group")
		writesPerSec = flag.Float64("rate", 200, "max graph writes per second")
		burst        = flag.Int("burst", 50, "write burst size")
		metricsPort  = flag.Int("metrics-port", 9091, "metrics HTTP port")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(*natsURL, *queue, *writesPerSec, *burst, *metricsPort, logger); err != nil {
		logger.Error("ingest exited with error", "err", err)
		os.Exit(1)
	}
}

func run(natsURL, queue string, writesPerSec float64, burst, metricsPort int, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	met.ServeAsync(metricsPort)

	conn, err := graph.Connect(ctx, graph.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	store := graph.New(conn)
	logger.Info("connected to Neo4j")

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return err
	}
	defer nc.Drain()
	logger.Info("connected to NATS", "url", natsURL, "subject", subject, "queue", queue)

	limiter := rate.NewLimiter(rate.Limit(writesPerSec), burst)

	// msgCtx carries extracted trace context; the run ctx gates the rate
	// limiter so shutdown is not blocked behind queued writes.
	handler := func(msgCtx context.Context, r graph.Reading) {
		mReceived.Inc()

		if r.SensorID == "" {
			mDropped("no_sensor").Inc()
			logger.Warn("reading without sensor_id dropped")
			return
		}
		if r.ReadingID == "" {
			r.ReadingID = uuid.NewString()
			mGeneratedIDs.Inc()
		}
		if r.Timestamp == "" {
			r.Timestamp = time.Now().UTC().Format(time.RFC3339)
		}

		if err := limiter.Wait(ctx); err != nil {
			mDropped("shutdown").Inc()
			return
		}

		mInFlight.Inc()
		start := time.Now()
		_, err := store.RecordReading(msgCtx, r)
		mWriteDur.Since(start)
		mInFlight.Dec()

		// At-most-once: a failed write is counted and logged, never retried.
		if err != nil {
			mDropped("write_error").Inc()
			logger.Error("reading write failed", "reading_id", r.ReadingID, "sensor_id", r.SensorID, "err", err)
			return
		}
		mWritten.Inc()
	}

	sub, err := natsutil.QueueSubscribe(nc, subject, queue, handler)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	logger.Info("ingest running", "rate", writesPerSec, "burst", burst)
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
