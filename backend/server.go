package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TransactionsResponse is the body of GET /v1/transactions.
type TransactionsResponse struct {
	Transactions []tracker.Entry `json:"transactions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes an Authenticator and a Fetcher over HTTP:
//
//	POST /v1/login         LoginRequest -> tracker.Account, 401 on bad credentials
//	POST /v1/logout        -> 204
//	GET  /v1/transactions  -> TransactionsResponse
type Server struct {
	auth    tracker.Authenticator
	fetcher tracker.Fetcher
	log     *zap.Logger
	router  chi.Router
}

// NewServer creates a Server. A nil logger discards logs.
func NewServer(auth tracker.Authenticator, fetcher tracker.Fetcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{auth: auth, fetcher: fetcher, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logging)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.Get("/transactions", s.transactions)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "invalid login request")
		return
	}
	account, err := s.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, tracker.ErrInvalidCredentials):
		s.error(w, http.StatusUnauthorized, tracker.ErrInvalidCredentials.Message)
		return
	case err != nil:
		s.log.Error("login failed", zap.Error(err))
		s.error(w, http.StatusInternalServerError, "login failed")
		return
	}
	s.json(w, http.StatusOK, account)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.fetcher.FetchAll(r.Context())
	if err != nil {
		s.log.Error("cannot fetch transactions", zap.Error(err))
		s.error(w, http.StatusBadGateway, tracker.ErrDataLoadFailed.Message)
		return
	}
	if entries == nil {
		entries = []tracker.Entry{}
	}
	s.json(w, http.StatusOK, TransactionsResponse{Transactions: entries})
}

func (s *Server) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("cannot write response", zap.Error(err))
	}
}

func (s *Server) error(w http.ResponseWriter, status int, msg string) {
	s.json(w, status, errorResponse{Error: msg})
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
