// Package api exposes the channel ingestion and chat operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/researchaccelerator-hub/channel-chat/common"
	"github.com/rs/zerolog/log"
)

// ChannelProcessor ingests a channel and returns its session id
type ChannelProcessor interface {
	ProcessChannel(ctx context.Context, channelName string) (string, error)
}

// SessionSender forwards chat messages to an existing session
type SessionSender interface {
	Send(ctx context.Context, key, message string) (string, error)
	Len() int
}

// CacheClearer drops cached channel contexts; no names clears everything
type CacheClearer interface {
	Clear(channelNames ...string)
	Len() int
}

type channelRequest struct {
	ChannelName *string `json:"channel_name"`
}

type channelResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatRequest struct {
	Message *string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server serves the HTTP API
type Server struct {
	processor ChannelProcessor
	sessions  SessionSender
	cache     CacheClearer
	router    chi.Router
	http      *http.Server
}

// NewServer builds the router. allowedOrigins configures CORS; empty allows
// every origin.
func NewServer(processor ChannelProcessor, sessions SessionSender, cache CacheClearer, allowedOrigins []string) *Server {
	srv := &Server{
		processor: processor,
		sessions:  sessions,
		cache:     cache,
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/channel", srv.handleProcessChannel)
		r.Post("/chat/{sessionID}", srv.handleChat)
		r.Delete("/cache", srv.handleClearCache)
		r.Delete("/cache/{channelName}", srv.handleClearCache)
	})

	srv.router = r
	return srv
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until Shutdown is called
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("Starting HTTP API")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	log.Info().Msg("Shutting down HTTP API")
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"service":        "channel-chat",
		"sessions":       s.sessions.Len(),
		"cached_context": s.cache.Len(),
	})
}

func (s *Server) handleProcessChannel(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.ChannelName == nil || *req.ChannelName == "" {
		writeError(w, http.StatusUnprocessableEntity, "channel_name is required")
		return
	}

	sessionID, err := s.processor.ProcessChannel(r.Context(), *req.ChannelName)
	if err != nil {
		log.Error().Err(err).Str("channel_name", *req.ChannelName).Msg("Channel processing failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, channelResponse{
		SessionID: sessionID,
		Message:   "Channel processed successfully",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.Message == nil {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}

	reply, err := s.sessions.Send(r.Context(), sessionID, *req.Message)
	switch {
	case errors.Is(err, common.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
		return
	case err != nil:
		log.Error().Err(err).Str("session_id", sessionID).Msg("Chat message failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if name := chi.URLParam(r, "channelName"); name != "" {
		s.cache.Clear(name)
		log.Info().Str("channel_name", name).Msg("Cleared cached channel context")
	} else {
		s.cache.Clear()
		log.Info().Msg("Cleared channel context cache")
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
