package server

import (
	"time"

	"prepcoach/internal/config"
	prepcoachErrors "prepcoach/internal/errors"
	"prepcoach/internal/session"
	"prepcoach/internal/types"
)

// CreateSessionRequest represents the request body for creating a practice session
type CreateSessionRequest struct {
	JobDescription string `json:"jobDescription"`
}

// QuestionRequest represents the request body for generating a question.
// All fields are optional; competency defaults to the profile's first.
type QuestionRequest struct {
	Competency    string `json:"competency"`
	SubCompetency string `json:"subCompetency"`
	Difficulty    string `json:"difficulty"`
}

// AnswerRequest represents the request body for evaluating a typed answer
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	AnswerText string `json:"answerText"`
}

// AnalyzeRequest represents the request body for the stateless analyze endpoint
type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription"`
}

// SessionSnapshot represents the session view returned by the session endpoints
type SessionSnapshot struct {
	SessionID     string            `json:"sessionId"`
	Profile       *types.JobProfile `json:"profile"`
	CreatedAt     time.Time         `json:"createdAt"`
	LastSeen      time.Time         `json:"lastSeen"`
	OpenQuestions int               `json:"openQuestions"`
	TotalAnswers  int               `json:"totalAnswers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys []string

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Session store (janitor runs from creation until shutdown)
	Sessions *session.Store

	// AI-backed coaching services, initialized on Start
	services *coachingServices

	// Logger
	Logger *prepcoachErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *prepcoachErrors.Logger) *Server {
	apiKeys := make([]string, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeys = append(apiKeys, key)
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeys,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Sessions:       session.NewStore(appCfg.Session, logger),
		Logger:         logger,
	}
}

// snapshot builds the API view of a session
func snapshot(sess *session.Session) SessionSnapshot {
	return SessionSnapshot{
		SessionID:     sess.ID,
		Profile:       sess.Profile,
		CreatedAt:     sess.CreatedAt,
		LastSeen:      sess.LastSeen(),
		OpenQuestions: sess.OpenQuestions(),
		TotalAnswers:  sess.Progress().Summary().TotalAnswers,
	}
}
