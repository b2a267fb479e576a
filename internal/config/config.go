package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "Asia/Tokyo"
	configPathEnv      = "NEWS_DIGEST_CONFIG"
	databasePathEnv    = "DATABASE_PATH"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv     = "GEMINI_MODEL"
	geminiEndpointEnv  = "GEMINI_ENDPOINT"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	reportOutputDirEnv = "REPORT_OUTPUT_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Report        ReportConfig       `yaml:"report"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
	Feeds         []FeedConfig       `yaml:"feeds"`
}

// DatabaseConfig points at the sqlite file backing the pipeline.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// GeminiConfig defines how to contact the generative-language API.
// Endpoint is an OpenAI-compatible chat-completions base URL.
type GeminiConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	NativeLanguage string `yaml:"nativeLanguage"`
}

// PipelineConfig carries the fixed pacing and batching knobs.
type PipelineConfig struct {
	FeedDelaySeconds   int `yaml:"feedDelaySeconds"`
	EnrichDelaySeconds int `yaml:"enrichDelaySeconds"`
	BatchLimit         int `yaml:"batchLimit"`
	RecencyDays        int `yaml:"recencyDays"`
}

// FeedDelay is the pause between feed fetches.
func (p PipelineConfig) FeedDelay() time.Duration {
	return time.Duration(p.FeedDelaySeconds) * time.Second
}

// EnrichDelay is the pause between generative API calls.
func (p PipelineConfig) EnrichDelay() time.Duration {
	return time.Duration(p.EnrichDelaySeconds) * time.Second
}

// RecencyWindow is how far back a dated entry may reach before it is skipped.
func (p PipelineConfig) RecencyWindow() time.Duration {
	return time.Duration(p.RecencyDays) * 24 * time.Hour
}

// ReportConfig describes where the daily HTML digest is written.
type ReportConfig struct {
	OutputDir string `yaml:"outputDir"`
}

// SchedulerConfig defines the optional daemon mode and the local timezone.
type SchedulerConfig struct {
	Enabled       bool           `yaml:"enabled"`
	IntervalHours int            `yaml:"intervalHours"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// Interval resolves the daemon re-run period.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.IntervalHours) * time.Hour
}

// Location resolves the configured timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FeedConfig describes a single feed with its language tag.
type FeedConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Language string `yaml:"lang"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

// Validate reports fatal startup problems. A missing generative API key
// aborts the process before any stage runs.
func (c Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api key is not set (set %s)", geminiAPIKeyEnv)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is not set (set %s)", databasePathEnv)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(geminiEndpointEnv); v != "" {
		c.Gemini.Endpoint = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(reportOutputDirEnv); v != "" {
		c.Report.OutputDir = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.NativeLanguage != "" {
		base.Gemini.NativeLanguage = override.Gemini.NativeLanguage
	}

	if override.Pipeline.FeedDelaySeconds > 0 {
		base.Pipeline.FeedDelaySeconds = override.Pipeline.FeedDelaySeconds
	}
	if override.Pipeline.EnrichDelaySeconds > 0 {
		base.Pipeline.EnrichDelaySeconds = override.Pipeline.EnrichDelaySeconds
	}
	if override.Pipeline.BatchLimit > 0 {
		base.Pipeline.BatchLimit = override.Pipeline.BatchLimit
	}
	if override.Pipeline.RecencyDays > 0 {
		base.Pipeline.RecencyDays = override.Pipeline.RecencyDays
	}

	if override.Report.OutputDir != "" {
		base.Report = override.Report
	}

	if override.Scheduler.Enabled {
		base.Scheduler.Enabled = true
	}
	if override.Scheduler.IntervalHours > 0 {
		base.Scheduler.IntervalHours = override.Scheduler.IntervalHours
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Path: "output/news_collector.db"},
		Gemini: GeminiConfig{
			Endpoint:       "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:          "gemini-2.5-flash-lite",
			APIKey:         "",
			NativeLanguage: "ja",
		},
		Pipeline: PipelineConfig{
			FeedDelaySeconds:   5,
			EnrichDelaySeconds: 5,
			BatchLimit:         100,
			RecencyDays:        4,
		},
		Report:    ReportConfig{OutputDir: "output"},
		Scheduler: SchedulerConfig{Enabled: false, IntervalHours: 24, Timezone: defaultTimezone, location: tz},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Logging: LoggingConfig{Level: "info"},
		Feeds: []FeedConfig{
			{Name: "GitHub Changelog", URL: "https://github.blog/changelog/feed/", Language: "en"},
			{Name: "OpenAI News", URL: "https://openai.com/news/rss.xml", Language: "en"},
			{Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/", Language: "en"},
			{Name: "Google Japan Blog", URL: "https://blog.google/intl/ja-jp/rss/", Language: "ja"},
			{Name: "Zenn Trends", URL: "https://zenn.dev/feed", Language: "ja"},
			{Name: "Qiita Trends", URL: "https://qiita.com/popular-items/feed", Language: "ja"},
			{Name: "Zenn (Copilot)", URL: "https://zenn.dev/topics/githubcopilot/feed", Language: "ja"},
			{Name: "Qiita (Copilot)", URL: "https://qiita.com/tags/githubcopilot/feed", Language: "ja"},
		},
	}
}
