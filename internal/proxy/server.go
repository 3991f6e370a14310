// Package proxy serves the narrator over HTTP for clients that should not
// hold the model API key.
package proxy

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/logger"
	"github.com/julianstephens/lifemap/internal/narrator"
)

type Config struct {
	Addr          string
	Secret        string
	RatePerMinute int
	Burst         int
	// Lockfile, when set, is written with port, pid and secret while serving.
	Lockfile string
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = constants.ProxyDefaultAddr
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = constants.ProxyRatePerMinute
	}
	if c.Burst <= 0 {
		c.Burst = constants.ProxyRateBurst
	}
}

type Server struct {
	proc narrator.Processor
	cfg  Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(proc narrator.Processor, cfg Config) *Server {
	cfg.applyDefaults()
	return &Server{
		proc:     proc,
		cfg:      cfg,
		limiters: map[string]*rate.Limiter{},
	}
}

// LoadEnv reads .env and .env.local from the working directory when present.
func LoadEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			logger.Warn("Failed to load env file", "file", name, "error", err)
		}
	}
}

// NewSecret returns a random shared secret for the lockfile.
func NewSecret() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, requestLogger)

	r.Get(constants.ProxyHealthPath, s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSecret, s.rateLimit)
		r.Post(constants.ProxyProcessPath, s.handleProcess)
	})

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	if s.cfg.Lockfile != "" {
		port := ln.Addr().(*net.TCPAddr).Port
		if err := narrator.WriteLockfile(s.cfg.Lockfile, port, os.Getpid(), s.cfg.Secret); err != nil {
			ln.Close()
			return fmt.Errorf("failed to write lockfile: %w", err)
		}
		defer os.Remove(s.cfg.Lockfile)
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Narrator proxy listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ProxyShutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down proxy: %w", err)
	}
	logger.Info("Narrator proxy stopped")
	return nil
}

type processBody struct {
	Input   string `json:"input"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var body processBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	input := strings.TrimSpace(body.Input)
	if input == "" {
		input = strings.TrimSpace(body.Message)
	}
	if input == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No input provided"})
		return
	}

	res, err := s.proc.Process(r.Context(), input, body.UserID)
	if err != nil {
		logger.Error("Failed to process input", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
		return
	}

	var result any = res.Text
	if res.IsSummary() {
		result = res.Summary
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Secret != "" {
			got := r.Header.Get(constants.ProxySecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Secret)) != 1 {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Unauthorized"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter(clientKey(r)).Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"success": false, "error": "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.cfg.RatePerMinute)), s.cfg.Burst)
		s.limiters[key] = l
	}
	return l
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("Request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}
