package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Analyze operation defaults (job profile extraction)
	v.SetDefault("ai.analyze.provider", "gemini")
	v.SetDefault("ai.analyze.model", "")
	v.SetDefault("ai.analyze.timeout", 45*time.Second)
	v.SetDefault("ai.analyze.apiKey", "")
	v.SetDefault("ai.analyze.maxRetries", 3)
	v.SetDefault("ai.analyze.temperature", 0.2) // Low temperature for consistent extraction
	v.SetDefault("ai.analyze.useSystemPrompts", true)

	// AI Configuration - Question operation defaults
	v.SetDefault("ai.question.provider", "gemini")
	v.SetDefault("ai.question.model", "")
	v.SetDefault("ai.question.timeout", 30*time.Second)
	v.SetDefault("ai.question.apiKey", "")
	v.SetDefault("ai.question.maxRetries", 3)
	v.SetDefault("ai.question.temperature", 0.7) // Higher temperature for question variety
	v.SetDefault("ai.question.useSystemPrompts", true)

	// AI Configuration - Evaluate operation defaults (answer content scoring)
	v.SetDefault("ai.evaluate.provider", "gemini")
	v.SetDefault("ai.evaluate.model", "")
	v.SetDefault("ai.evaluate.timeout", 60*time.Second)
	v.SetDefault("ai.evaluate.apiKey", "")
	v.SetDefault("ai.evaluate.maxRetries", 3)
	v.SetDefault("ai.evaluate.temperature", 0.3)
	v.SetDefault("ai.evaluate.useSystemPrompts", true)

	// AI Configuration - Transcribe operation defaults
	v.SetDefault("ai.transcribe.provider", "gemini")
	v.SetDefault("ai.transcribe.model", "")
	v.SetDefault("ai.transcribe.timeout", 60*time.Second)
	v.SetDefault("ai.transcribe.apiKey", "")
	v.SetDefault("ai.transcribe.maxRetries", 3)
	v.SetDefault("ai.transcribe.temperature", 0.1) // Very low temperature for faithful transcription
	v.SetDefault("ai.transcribe.useSystemPrompts", true)

	// AI Configuration - Delivery operation defaults (vocal delivery analysis)
	v.SetDefault("ai.delivery.provider", "gemini")
	v.SetDefault("ai.delivery.model", "")
	v.SetDefault("ai.delivery.timeout", 75*time.Second) // Longer timeout for audio analysis
	v.SetDefault("ai.delivery.apiKey", "")
	v.SetDefault("ai.delivery.maxRetries", 3)
	v.SetDefault("ai.delivery.temperature", 0.3)
	v.SetDefault("ai.delivery.useSystemPrompts", true)

	// AI Configuration - Synthesize operation defaults
	v.SetDefault("ai.synthesize.provider", "gemini")
	v.SetDefault("ai.synthesize.model", "")
	v.SetDefault("ai.synthesize.timeout", 60*time.Second)
	v.SetDefault("ai.synthesize.apiKey", "")
	v.SetDefault("ai.synthesize.maxRetries", 3)
	v.SetDefault("ai.synthesize.temperature", 0.4)
	v.SetDefault("ai.synthesize.useSystemPrompts", true)

	// Circuit Breaker Configuration defaults for all operations
	for _, op := range []string{"analyze", "question", "evaluate", "transcribe", "delivery", "synthesize"} {
		v.SetDefault(fmt.Sprintf("ai.%s.circuitBreaker.enabled", op), true)
		v.SetDefault(fmt.Sprintf("ai.%s.circuitBreaker.maxRequests", op), 3)
		v.SetDefault(fmt.Sprintf("ai.%s.circuitBreaker.interval", op), 60*time.Second)
		v.SetDefault(fmt.Sprintf("ai.%s.circuitBreaker.timeout", op), 60*time.Second)
		v.SetDefault(fmt.Sprintf("ai.%s.circuitBreaker.minRequests", op), 3)
		v.SetDefault(fmt.Sprintf("ai.%s.circuitBreaker.failureThreshold", op), 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second) // Voice workflows hold the response open longer
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", int64(1024*1024)) // 1MB for JSON bodies; audio uses audio.maxUploadBytes
	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")           // TLS 1.2 minimum
	v.SetDefault("server.tls.cipherSuites", []string{})    // Use Go defaults
	v.SetDefault("server.tls.clientAuthPolicy", "require") // require, request, verify
	v.SetDefault("server.tls.insecureSkipVerify", false)
	v.SetDefault("server.tls.serverName", "")

	// Auto-reload configuration defaults
	v.SetDefault("server.tls.autoReload.enabled", true)
	v.SetDefault("server.tls.autoReload.checkInterval", 30*time.Second)
	v.SetDefault("server.tls.autoReload.preemptiveRenewal", 72*time.Hour)
	v.SetDefault("server.tls.autoReload.maxRetries", 3)
	v.SetDefault("server.tls.autoReload.retryDelay", 10*time.Second)

	// File watcher defaults
	v.SetDefault("server.tls.autoReload.fileWatcher.enabled", true)
	v.SetDefault("server.tls.autoReload.fileWatcher.debounceDelay", time.Second)

	// Vault watcher defaults
	v.SetDefault("server.tls.autoReload.vaultWatcher.enabled", false)
	v.SetDefault("server.tls.autoReload.vaultWatcher.pollInterval", 5*time.Minute)
	v.SetDefault("server.tls.autoReload.vaultWatcher.autoRenew", true)
	v.SetDefault("server.tls.autoReload.vaultWatcher.renewThreshold", 24*time.Hour)
	v.SetDefault("server.tls.autoReload.vaultWatcher.secretPath", "")
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)

	// Session store Configuration
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.cleanupInterval", 5*time.Minute)
	v.SetDefault("session.maxSessions", 1000)
	v.SetDefault("session.historyLimit", 50)

	// Audio Configuration
	v.SetDefault("audio.maxUploadBytes", int64(10*1024*1024)) // 10MB
	v.SetDefault("audio.minBytes", 1000)
	v.SetDefault("audio.ffmpegPath", "ffmpeg")
	v.SetDefault("audio.convertTimeout", 10*time.Second)
	v.SetDefault("audio.sampleRate", 16000)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB for text inputs

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "prepcoach")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackModelInfo", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCertExpiry", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
