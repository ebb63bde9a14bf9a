package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	votinglottery "lanvote/contexts/event-voting/voting-lottery"
	adminauth "lanvote/contexts/identity-access/admin-auth"
	"lanvote/internal/platform/messaging"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "lanvote/internal/platform/httpserver/docs"
)

const (
	moduleName   = "internal/platform/httpserver"
	maxBodyBytes = 1 << 20
)

type Server struct {
	mux               *http.ServeMux
	logger            *slog.Logger
	addr              string
	voting            votinglottery.Module
	admin             adminauth.Module
	broker            *messaging.Broker
	trustProxyHeaders bool
	httpServer        *http.Server
}

func New(
	voting votinglottery.Module,
	admin adminauth.Module,
	broker *messaging.Broker,
	logger *slog.Logger,
	addr string,
	trustProxyHeaders bool,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:               http.NewServeMux(),
		logger:            logger,
		addr:              addr,
		voting:            voting,
		admin:             admin,
		broker:            broker,
		trustProxyHeaders: trustProxyHeaders,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", moduleName,
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", moduleName,
		"layer", "platform",
	)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/candidates", s.handleListCandidates)
	s.mux.HandleFunc("GET /api/v1/candidates/{candidate_id}", s.handleGetCandidate)
	s.mux.HandleFunc("POST /api/v1/votes", s.handleSubmitVote)
	s.mux.HandleFunc("GET /api/v1/votes/status", s.handleVoterStatus)
	s.mux.HandleFunc("GET /api/v1/votes/mine", s.handleMyVotes)
	s.mux.HandleFunc("GET /api/v1/votes/recent", s.handleRecentVotes)
	s.mux.HandleFunc("GET /api/v1/statistics", s.handleStatistics)
	s.mux.HandleFunc("GET /api/v1/config", s.handleGetConfig)
	s.mux.HandleFunc("GET /api/v1/lottery/history", s.handleLotteryHistory)
	s.mux.HandleFunc("GET /api/v1/lottery/rounds/{round}", s.handleLotteryRound)
	s.mux.HandleFunc("GET /api/v1/lottery/settings", s.handleGetLotterySettings)
	s.mux.HandleFunc("GET /api/v1/events", s.handleEvents)

	s.mux.HandleFunc("POST /api/v1/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("GET /api/v1/admin/me", s.requireAdmin(s.handleAdminWhoAmI))
	s.mux.HandleFunc("POST /api/v1/admin/password", s.requireAdmin(s.handleAdminChangePassword))

	s.mux.HandleFunc("POST /api/v1/admin/candidates", s.requireAdmin(s.handleCreateCandidate))
	s.mux.HandleFunc("PATCH /api/v1/admin/candidates/{candidate_id}", s.requireAdmin(s.handleUpdateCandidate))
	s.mux.HandleFunc("DELETE /api/v1/admin/candidates/{candidate_id}", s.requireAdmin(s.handleDeleteCandidate))
	s.mux.HandleFunc("POST /api/v1/admin/votes/reset", s.requireAdmin(s.handleResetVotes))
	s.mux.HandleFunc("POST /api/v1/admin/counters/reconcile", s.requireAdmin(s.handleReconcileCounters))
	s.mux.HandleFunc("PUT /api/v1/admin/config", s.requireAdmin(s.handleUpdateConfig))

	s.mux.HandleFunc("POST /api/v1/admin/lottery/draw", s.requireAdmin(s.handleDraw))
	s.mux.HandleFunc("GET /api/v1/admin/lottery/available", s.requireAdmin(s.handleAvailableCount))
	s.mux.HandleFunc("POST /api/v1/admin/lottery/reset", s.requireAdmin(s.handleResetLottery))
	s.mux.HandleFunc("PUT /api/v1/admin/lottery/settings", s.requireAdmin(s.handleSaveLotterySettings))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON rejects unknown fields and bodies over maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// resolveClientIP honours X-Forwarded-For and X-Real-Ip only when
// trustProxyHeaders is set.
func (s *Server) resolveClientIP(r *http.Request) string {
	if s.trustProxyHeaders {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
			return realIP
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
