// Package main implements the fleetgraph API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/skyops-io/fleetgraph/engine/graph"
	"github.com/skyops-io/fleetgraph/engine/semantic"
	"github.com/skyops-io/fleetgraph/pkg/embed"
	"github.com/skyops-io/fleetgraph/pkg/mid"
)

// Config holds all environment-based configuration.
type Config struct {
	Port        string
	Neo4j       graph.Config
	QdrantURL   string
	Collection  string
	OllamaURL   string
	OllamaModel string
	CORSOrigin  string
}

func loadConfig() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		Neo4j:       graph.ConfigFromEnv(),
		QdrantURL:   envOr("QDRANT_URL", "localhost:6334"),
		Collection:  envOr("QDRANT_COLLECTION", "fleet_faults"),
		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOr("OLLAMA_MODEL", "nomic-embed-text"),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	conn, err := graph.Connect(ctx, cfg.Neo4j)
	if err != nil {
		return fmt.Errorf("neo4j connect: %w", err)
	}
	defer conn.Close(ctx)

	store := graph.New(conn)

	// --- Connect to Qdrant ---
	vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	embedder := embed.NewClient(cfg.OllamaURL, cfg.OllamaModel)

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/aircraft", handleListAircraft(store, logger))
	mux.HandleFunc("GET /api/aircraft/{id}", handleGetAircraft(store, logger))
	mux.HandleFunc("GET /api/aircraft/{id}/summary", handleAircraftSummary(store, logger))
	mux.HandleFunc("GET /api/aircraft/{id}/parts", handleAircraftParts(store, logger))
	mux.HandleFunc("POST /api/faults/search", handleFaultSearch(store, vectorStore, embedder, logger))

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("fleetgraph-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleListAircraft(store *graph.GraphStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit := queryLimit(q.Get("limit"))

		var (
			aircraft []graph.Aircraft
			err      error
		)
		switch {
		case q.Get("operator") != "":
			aircraft, err = store.FindAircraftByOperator(r.Context(), q.Get("operator"), limit)
		case q.Get("manufacturer") != "":
			aircraft, err = store.FindAircraftByManufacturer(r.Context(), q.Get("manufacturer"), limit)
		default:
			aircraft, err = store.ListAircraft(r.Context(), limit)
		}
		if err != nil {
			logger.Error("list aircraft failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if aircraft == nil {
			aircraft = []graph.Aircraft{}
		}
		writeJSON(w, http.StatusOK, aircraft)
	}
}

func handleGetAircraft(store *graph.GraphStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.FindAircraftByID(r.Context(), r.PathValue("id"))
		if err != nil {
			logger.Error("get aircraft failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if a == nil {
			writeError(w, http.StatusNotFound, "aircraft not found")
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleAircraftSummary(store *graph.GraphStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.AircraftSummary(r.Context(), r.PathValue("id"))
		if err != nil {
			logger.Error("aircraft summary failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if s == nil {
			writeError(w, http.StatusNotFound, "aircraft not found")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func handleAircraftParts(store *graph.GraphStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.AircraftParts(r.Context(), r.PathValue("id"))
		if err != nil {
			logger.Error("aircraft parts failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, "aircraft not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// FaultSearchRequest is the JSON body for POST /api/faults/search.
type FaultSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// FaultSearchResult is one scored match with the full event loaded back
// from the graph when it still exists there.
type FaultSearchResult struct {
	Match semantic.FaultMatch     `json:"match"`
	Event *graph.MaintenanceEvent `json:"event,omitempty"`
}

func handleFaultSearch(store *graph.GraphStore, vs *semantic.VectorStore, embedder *embed.Client, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FaultSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}
		if req.Limit <= 0 {
			req.Limit = 10
		}

		vector, err := embedder.Embed(r.Context(), req.Query)
		if err != nil {
			logger.Error("embed query failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		matches, err := vs.SearchFaults(r.Context(), vector, req.Limit)
		if err != nil {
			logger.Error("fault search failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		results := make([]FaultSearchResult, 0, len(matches))
		for _, m := range matches {
			res := FaultSearchResult{Match: m}
			event, err := store.FindMaintenanceEventByID(r.Context(), m.EventID)
			if err != nil {
				logger.Error("load event failed", "event_id", m.EventID, "err", err)
			} else {
				res.Event = event
			}
			results = append(results, res)
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// --- Helpers ---

func queryLimit(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
