package httpapi

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"hsbot/internal/stats"
)

// Store is the part of the session store the readiness probe needs.
type Store interface {
	Ping(ctx context.Context) error
	Name() string
}

// Upstream is the remote card service.
type Upstream interface {
	HealthCheck(ctx context.Context) error
}

// StatsSource serves the search statistics projection.
type StatsSource interface {
	Summary(ctx context.Context) (*stats.Summary, error)
}

// Server exposes the operational endpoints of the bot process. Stats may be
// nil when the projection is not running.
type Server struct {
	Store    Store
	Upstream Upstream
	Stats    StatsSource
	Log      *logrus.Entry
}

const probeTimeout = 3 * time.Second

// RegisterRoutes wires the operational routes.
// gorilla/mux: Router provides method-based routing.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.readyHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type readiness struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Backend  string `json:"store_backend"`
	Upstream string `json:"upstream"`
}

// readyHandler reports 503 while the session store is unreachable. The card
// service being down degrades searches but does not make the bot unready.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	res := readiness{Status: "ok", Store: "ok", Upstream: "ok", Backend: s.Store.Name()}
	status := http.StatusOK
	if err := s.Store.Ping(ctx); err != nil {
		s.Log.WithError(err).Warn("session store not ready")
		res.Status, res.Store = "unavailable", err.Error()
		status = http.StatusServiceUnavailable
	}
	if s.Upstream != nil {
		if err := s.Upstream.HealthCheck(ctx); err != nil {
			s.Log.WithError(err).Warn("card service unreachable")
			res.Upstream = err.Error()
		}
	}
	writeJSON(w, status, res)
}

// statsHandler serves the statistics summary, gzip-compressed when the
// client accepts it.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		http.Error(w, "statistics disabled", http.StatusNotFound)
		return
	}
	sum, err := s.Stats.Summary(r.Context())
	if err != nil {
		s.Log.WithError(err).Error("read search statistics")
		http.Error(w, "statistics unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		_ = json.NewEncoder(w).Encode(sum)
		return
	}
	w.Header().Set("Content-Encoding", "gzip")
	gw := gzip.NewWriter(w)
	defer gw.Close()
	_ = json.NewEncoder(gw).Encode(sum)
}
