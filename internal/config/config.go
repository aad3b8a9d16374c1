package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Values come from environment variables with sensible defaults.
//
// Environment Variables:
//
// Catalog (TMDB):
// - TMDB_API_KEY: API key for the movie catalog (required)
// - TMDB_API_URL: Catalog API base URL (default: https://api.themoviedb.org/3)
// - TMDB_IMAGE_URL: Poster image base URL (default: https://image.tmdb.org/t/p/w500)
// - CATALOG_LANGUAGE: BCP 47 tag for catalog content (default: uk-UA)
// - CATALOG_TIMEOUT: Catalog request timeout in seconds (default: 30)
// - MIN_RATING: Minimum vote average for candidates (default: 8.0)
//
// LLM:
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - LLM_MODEL: Model name to use (default: gpt-4o-mini)
// - LLM_TIMEOUT: Request timeout in seconds (default: 30)
//
// Critic:
// - JUDGE_TEMPERATURE: Sampling temperature for yes/no judgment (default: 0.7)
// - JUDGE_MAX_TOKENS: Token cap for judgment replies (default: 50)
// - JUDGE_CRITERIA: Audience preference wired into the critic prompt
// - JUDGE_PROMPT: Full override of the judgment prompt template (optional)
// - JUDGE_AFFIRMATIVE: Reply prefix counted as approval (default: так)
// - APPROVAL_CAP: Max approved movies per run (default: 3)
// - PROMO_TEMPERATURE: Sampling temperature for descriptions (default: 0.8)
// - PROMO_MAX_TOKENS: Token cap for descriptions (default: 300)
// - PROMO_PROMPT: Full override of the description prompt template (optional)
//
// Telegram:
// - TELEGRAM_BOT_TOKEN: Bot API token (required)
// - TELEGRAM_CHAT_ID: Destination channel identifier (required)
// - TELEGRAM_API_URL: Bot API base URL (default: https://api.telegram.org)
// - TELEGRAM_TIMEOUT: Request timeout in seconds (default: 30)
//
// Storage / schedule:
// - DATA_DIR: Directory for the sent-id file, history db and lock file (default: ./data)
// - CRON_EXPR: Cron expression for periodic runs; empty picks a random
//   weekly slot at startup
type Config struct {
	Catalog  CatalogConfig  `json:"catalog"`
	LLM      LLMConfig      `json:"llm"`
	Critic   CriticConfig   `json:"critic"`
	Telegram TelegramConfig `json:"telegram"`
	Storage  StorageConfig  `json:"storage"`
	CronExpr string         `json:"cron_expr"`
}

// CatalogConfig holds the movie catalog API configuration.
type CatalogConfig struct {
	APIKey       string       `json:"api_key"`
	APIURL       string       `json:"api_url"`
	ImageBaseURL string       `json:"image_base_url"`
	Language     language.Tag `json:"language"`
	Timeout      int          `json:"timeout"`
	MinRating    float64      `json:"min_rating"`
}

// LLMConfig holds the configuration for the LLM client.
// Supports any OpenAI-compatible provider.
type LLMConfig struct {
	APIKey  string `json:"api_key"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

// CriticConfig holds prompt and sampling settings for the two LLM
// call sites: the yes/no judgment and the promo description.
type CriticConfig struct {
	JudgeTemperature float64 `json:"judge_temperature"`
	JudgeMaxTokens   int     `json:"judge_max_tokens"`
	JudgeCriteria    string  `json:"judge_criteria"`
	JudgePrompt      string  `json:"judge_prompt"`
	Affirmative      string  `json:"affirmative"`
	ApprovalCap      int     `json:"approval_cap"`
	PromoTemperature float64 `json:"promo_temperature"`
	PromoMaxTokens   int     `json:"promo_max_tokens"`
	PromoPrompt      string  `json:"promo_prompt"`
}

// TelegramConfig holds the Bot API delivery configuration.
type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
	APIURL   string `json:"api_url"`
	Timeout  int    `json:"timeout"`
}

// StorageConfig holds the data directory for durable run state.
type StorageConfig struct {
	DataDir string `json:"data_dir"`
}

// SentFilePath is the JSON file of already-delivered movie ids.
func (c StorageConfig) SentFilePath() string {
	return filepath.Join(c.DataDir, "sent.json")
}

// HistoryDBPath is the sqlite delivery history database.
func (c StorageConfig) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// LockFilePath guards against overlapping runs across processes.
func (c StorageConfig) LockFilePath() string {
	return filepath.Join(c.DataDir, "filmbot.lock")
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	langTag, err := language.Parse(getEnvString("CATALOG_LANGUAGE", "uk-UA"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_LANGUAGE: %w", err)
	}

	config := &Config{
		Catalog: CatalogConfig{
			APIKey:       getEnvString("TMDB_API_KEY", ""),
			APIURL:       getEnvString("TMDB_API_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnvString("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p/w500"),
			Language:     langTag,
			Timeout:      getEnvInt("CATALOG_TIMEOUT", 30),
			MinRating:    getEnvFloat("MIN_RATING", 8.0),
		},
		LLM: LLMConfig{
			APIKey:  getEnvString("LLM_API_KEY", ""),
			APIURL:  getEnvString("LLM_API_URL", "https://api.openai.com/v1"),
			Model:   getEnvString("LLM_MODEL", "gpt-4o-mini"),
			Timeout: getEnvInt("LLM_TIMEOUT", 30),
		},
		Critic: CriticConfig{
			JudgeTemperature: getEnvFloat("JUDGE_TEMPERATURE", 0.7),
			JudgeMaxTokens:   getEnvInt("JUDGE_MAX_TOKENS", 50),
			JudgeCriteria:    getEnvString("JUDGE_CRITERIA", "сильні, захопливі, емоційні стрічки"),
			JudgePrompt:      getEnvString("JUDGE_PROMPT", ""),
			Affirmative:      getEnvString("JUDGE_AFFIRMATIVE", "так"),
			ApprovalCap:      getEnvInt("APPROVAL_CAP", 3),
			PromoTemperature: getEnvFloat("PROMO_TEMPERATURE", 0.8),
			PromoMaxTokens:   getEnvInt("PROMO_MAX_TOKENS", 300),
			PromoPrompt:      getEnvString("PROMO_PROMPT", ""),
		},
		Telegram: TelegramConfig{
			BotToken: getEnvString("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnvString("TELEGRAM_CHAT_ID", ""),
			APIURL:   getEnvString("TELEGRAM_API_URL", "https://api.telegram.org"),
			Timeout:  getEnvInt("TELEGRAM_TIMEOUT", 30),
		},
		Storage: StorageConfig{
			DataDir: getEnvString("DATA_DIR", "./data"),
		},
		CronExpr: getEnvString("CRON_EXPR", ""),
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Catalog.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	if c.Critic.JudgeTemperature < 0 || c.Critic.JudgeTemperature > 2 {
		return fmt.Errorf("JUDGE_TEMPERATURE must be between 0 and 2")
	}
	if c.Critic.PromoTemperature < 0 || c.Critic.PromoTemperature > 2 {
		return fmt.Errorf("PROMO_TEMPERATURE must be between 0 and 2")
	}
	if c.Critic.ApprovalCap < 1 {
		return fmt.Errorf("APPROVAL_CAP must be greater than 0")
	}
	if c.Critic.Affirmative == "" {
		return fmt.Errorf("JUDGE_AFFIRMATIVE must not be empty")
	}
	if c.Critic.JudgeMaxTokens < 1 || c.Critic.PromoMaxTokens < 1 {
		return fmt.Errorf("JUDGE_MAX_TOKENS and PROMO_MAX_TOKENS must be greater than 0")
	}
	if c.CronExpr != "" {
		if _, err := cron.ParseStandard(c.CronExpr); err != nil {
			return fmt.Errorf("invalid CRON_EXPR: %w", err)
		}
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
