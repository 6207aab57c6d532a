package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingSetting = errors.New("missing required setting")

// OpenAIConfig holds the Azure OpenAI deployment settings.
type OpenAIConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	APIKey         string        `mapstructure:"api_key"`
	Deployment     string        `mapstructure:"deployment"`
	APIVersion     string        `mapstructure:"api_version"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func (c OpenAIConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: AZURE_OAI_ENDPOINT", ErrMissingSetting)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: AZURE_OAI_KEY", ErrMissingSetting)
	}
	if c.Deployment == "" {
		return fmt.Errorf("%w: AZURE_OAI_DEPLOYMENT", ErrMissingSetting)
	}
	return nil
}

// BaseURL normalizes the configured endpoint: trailing slashes stripped,
// https scheme enforced.
func (c OpenAIConfig) BaseURL() string {
	return normalizeEndpoint(c.Endpoint)
}

// SearchConfig holds the Azure AI Search index settings.
type SearchConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKey     string `mapstructure:"api_key"`
	Index      string `mapstructure:"index"`
	APIVersion string `mapstructure:"api_version"`
	TopN       int    `mapstructure:"top_n"`
}

func (c SearchConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: AZURE_SEARCH_ENDPOINT", ErrMissingSetting)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: AZURE_SEARCH_KEY", ErrMissingSetting)
	}
	if c.Index == "" {
		return fmt.Errorf("%w: AZURE_SEARCH_INDEX", ErrMissingSetting)
	}
	return nil
}

// Enabled reports whether retrieval is configured at all. An unset search
// section is not an error, the assistant just answers without context.
func (c SearchConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Index != ""
}

func (c SearchConfig) BaseURL() string {
	return normalizeEndpoint(c.Endpoint)
}

// SpeechConfig holds the Azure Cognitive Services Speech settings.
type SpeechConfig struct {
	Key      string `mapstructure:"key"`
	Region   string `mapstructure:"region"`
	Voice    string `mapstructure:"voice"`
	Language string `mapstructure:"language"`
}

func (c SpeechConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("%w: AZURE_SPEECH_KEY", ErrMissingSetting)
	}
	if c.Region == "" {
		return fmt.Errorf("%w: AZURE_SPEECH_REGION", ErrMissingSetting)
	}
	return nil
}

// Enabled reports whether voice output is configured.
func (c SpeechConfig) Enabled() bool {
	return c.Key != "" && c.Region != ""
}

// ChatConfig tunes the conversation orchestrator.
type ChatConfig struct {
	SystemPrompt  string  `mapstructure:"system_prompt"`
	HistoryWindow int     `mapstructure:"history_window"`
	MaxTokens     int64   `mapstructure:"max_tokens"`
	Temperature   float64 `mapstructure:"temperature"`
}

// SessionConfig selects the conversation history driver.
type SessionConfig struct {
	Driver    string        `mapstructure:"driver"` // "memory" or "redis"
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisTTL  time.Duration `mapstructure:"redis_ttl"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Settings struct {
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Search  SearchConfig  `mapstructure:"search"`
	Speech  SpeechConfig  `mapstructure:"speech"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
	Debug   bool          `mapstructure:"debug"`
	LogCap  int           `mapstructure:"log_cap"`
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	v := viper.New()

	bindings := map[string]string{
		"openai.endpoint":        "AZURE_OAI_ENDPOINT",
		"openai.api_key":         "AZURE_OAI_KEY",
		"openai.deployment":      "AZURE_OAI_DEPLOYMENT",
		"openai.api_version":     "AZURE_API_VERSION",
		"openai.request_timeout": "AZURE_OAI_TIMEOUT",
		"search.endpoint":        "AZURE_SEARCH_ENDPOINT",
		"search.api_key":         "AZURE_SEARCH_KEY",
		"search.index":           "AZURE_SEARCH_INDEX",
		"search.api_version":     "AZURE_SEARCH_API_VERSION",
		"search.top_n":           "AZURE_SEARCH_TOP_N",
		"speech.key":             "AZURE_SPEECH_KEY",
		"speech.region":          "AZURE_SPEECH_REGION",
		"speech.voice":           "AZURE_SPEECH_VOICE",
		"speech.language":        "AZURE_SPEECH_LANGUAGE",
		"chat.system_prompt":     "CHAT_SYSTEM_PROMPT",
		"chat.history_window":    "CHAT_HISTORY_WINDOW",
		"chat.max_tokens":        "CHAT_MAX_TOKENS",
		"chat.temperature":       "CHAT_TEMPERATURE",
		"session.driver":         "SESSION_DRIVER",
		"session.redis_addr":     "SESSION_REDIS_ADDR",
		"session.redis_ttl":      "SESSION_REDIS_TTL",
		"server.addr":            "SERVER_ADDR",
		"debug":                  "DEBUG",
		"log_cap":                "LOG_CAP",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	v.SetDefault("openai.api_version", "2024-06-01")
	v.SetDefault("openai.request_timeout", 60*time.Second)
	v.SetDefault("search.api_version", "2024-07-01")
	v.SetDefault("search.top_n", 5)
	v.SetDefault("speech.voice", "th-TH-PremwadaNeural")
	v.SetDefault("speech.language", "th-TH")
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("chat.max_tokens", 1000)
	v.SetDefault("chat.temperature", 0.0)
	v.SetDefault("session.driver", "memory")
	v.SetDefault("session.redis_ttl", 24*time.Hour)
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("log_cap", 500)

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "https://") && !strings.HasPrefix(endpoint, "http://") {
		endpoint = "https://" + endpoint
	}
	return endpoint
}
