package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"prepcoach/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Add middleware layers with observability
	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()
	audioLimitHandler := s.audioUploadLimitMiddleware()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	mux.HandleFunc("POST /v1/analyze",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createAnalyzeHandler(om))),
		),
	)
	mux.HandleFunc("POST /v1/sessions",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createSessionHandler(om))),
		),
	)
	mux.HandleFunc("GET /v1/sessions/{id}",
		rateLimitHandler(
			s.authMiddleware(s.getSessionHandler),
		),
	)
	mux.HandleFunc("DELETE /v1/sessions/{id}",
		rateLimitHandler(
			s.authMiddleware(s.deleteSessionHandler),
		),
	)
	mux.HandleFunc("POST /v1/sessions/{id}/questions",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createQuestionHandler(om))),
		),
	)
	mux.HandleFunc("POST /v1/sessions/{id}/answers",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createAnswerHandler(om))),
		),
	)
	mux.HandleFunc("POST /v1/sessions/{id}/voice-answers",
		rateLimitHandler(
			s.authMiddleware(audioLimitHandler(s.createVoiceAnswerHandler(om))),
		),
	)
	mux.HandleFunc("GET /v1/sessions/{id}/progress",
		rateLimitHandler(
			s.authMiddleware(s.getProgressHandler),
		),
	)

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		// Check for API key in X-API-Key header
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			// Check for Bearer token in Authorization header as fallback
			authHeader := r.Header.Get("Authorization")
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				apiKey = after
			}
		}

		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		// Validate API key
		if !s.validAPIKey(apiKey) {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		// Log successful authentication
		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// validAPIKey compares the candidate against every configured key in
// constant time. All keys are checked even after a match so the timing does
// not depend on key position.
func (s *Server) validAPIKey(candidate string) bool {
	valid := false
	for _, key := range s.APIKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			valid = true
		}
	}
	return valid
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				// Limit the request body size
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// audioUploadLimitMiddleware bounds multipart audio uploads. The limit
// covers the whole request body, audio file plus form fields.
func (s *Server) audioUploadLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if max := s.AppConfig.Audio.MaxUploadBytes; max > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}

			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
