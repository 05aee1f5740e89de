package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// operationConfig resolves one operation's configuration against the global
// AI configuration and the global prompt overrides for that operation.
func (c *Config) operationConfig(opCfg OperationAIConfig, globalPrompts PromptConfig) OperationAIConfig {
	c.applyOperationDefaults(&opCfg)

	if opCfg.CustomPrompts.System == "" {
		opCfg.CustomPrompts.System = globalPrompts.System
	}
	if opCfg.CustomPrompts.SystemFile == "" {
		opCfg.CustomPrompts.SystemFile = globalPrompts.SystemFile
	}
	if opCfg.CustomPrompts.User == "" {
		opCfg.CustomPrompts.User = globalPrompts.User
	}
	if opCfg.CustomPrompts.UserFile == "" {
		opCfg.CustomPrompts.UserFile = globalPrompts.UserFile
	}

	return opCfg
}

// GetAnalyzeConfig returns the AI configuration for job analysis with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	return c.operationConfig(c.AI.Analyze, c.AI.CustomPrompts.Analyze)
}

// GetQuestionConfig returns the AI configuration for question generation with fallback to global config
func (c *Config) GetQuestionConfig() OperationAIConfig {
	return c.operationConfig(c.AI.Question, c.AI.CustomPrompts.Question)
}

// GetEvaluateConfig returns the AI configuration for answer evaluation with fallback to global config
func (c *Config) GetEvaluateConfig() OperationAIConfig {
	return c.operationConfig(c.AI.Evaluate, c.AI.CustomPrompts.Evaluate)
}

// GetTranscribeConfig returns the AI configuration for transcription with fallback to global config
func (c *Config) GetTranscribeConfig() OperationAIConfig {
	return c.operationConfig(c.AI.Transcribe, c.AI.CustomPrompts.Transcribe)
}

// GetDeliveryConfig returns the AI configuration for delivery analysis with fallback to global config
func (c *Config) GetDeliveryConfig() OperationAIConfig {
	return c.operationConfig(c.AI.Delivery, c.AI.CustomPrompts.Delivery)
}

// GetSynthesizeConfig returns the AI configuration for evaluation synthesis with fallback to global config
func (c *Config) GetSynthesizeConfig() OperationAIConfig {
	return c.operationConfig(c.AI.Synthesize, c.AI.CustomPrompts.Synthesize)
}
