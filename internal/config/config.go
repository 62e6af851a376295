package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"DigestCurator/internal/bucket"
	"DigestCurator/internal/curator"
	"DigestCurator/internal/domain"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "DIGEST_CURATOR_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	openAIModelEnv    = "OPENAI_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"

	ProviderOpenAI  = "openai"
	ProviderGateway = "gateway"

	ScannerArxiv = "arxiv"
	ScannerRSS   = "rss"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Database      DatabaseConfig     `yaml:"database"`
	Completion    CompletionConfig   `yaml:"completion"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
	Curation      CurationConfig     `yaml:"curation"`
	Feeds         []bucket.FeedEntry `yaml:"feeds"`
	Sites         []SiteConfig       `yaml:"sites"`
}

// LoggingConfig selects the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN
// disables persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when the pipeline should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// CompletionConfig defines how to reach the text-completion service.
type CompletionConfig struct {
	Provider    string        `yaml:"provider"`
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
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

// Enabled reports whether both token and chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// MetricsConfig controls the Prometheus endpoint served by `serve`.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// CurationConfig tunes the curation pipeline.
type CurationConfig struct {
	BatchSize           int                           `yaml:"batchSize"`
	Concurrency         int                           `yaml:"concurrency"`
	SimilarityThreshold float64                       `yaml:"similarityThreshold"`
	RecencyWindowDays   int                           `yaml:"recencyWindowDays"`
	DecayDays           float64                       `yaml:"decayDays"`
	WeightsFile         string                        `yaml:"weightsFile"`
	HybridScoring       bool                          `yaml:"hybridScoring"`
	MinHybridScore      float64                       `yaml:"minHybridScore"`
	Thresholds          map[domain.BucketName]float64 `yaml:"thresholds"`
	InternalExclusions  []string                      `yaml:"internalExclusions"`
	Competitors         []string                      `yaml:"competitors"`

	// Routing replaces the built-in rating categories when non-empty.
	Routing []curator.RoutingRule `yaml:"routing"`
	// DryRun renders digests without persisting or publishing them.
	DryRun bool `yaml:"dryRun"`
}

// RecencyWindow converts the configured day count to a duration.
func (c CurationConfig) RecencyWindow() time.Duration {
	return time.Duration(c.RecencyWindowDays) * 24 * time.Hour
}

// SiteConfig describes a single site with its scanner strategy.
type SiteConfig struct {
	Name       string            `yaml:"name"`
	Scanner    string            `yaml:"scanner"`
	Categories []CategoryConfig  `yaml:"categories"`
	Options    map[string]string `yaml:"options"`
}

// CategoryConfig holds a concrete endpoint to crawl: an arXiv listing or a
// feed URL.
type CategoryConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.finish()
	return cfg
}

// LoadFile is like Load but reads an explicit path and fails on errors.
func LoadFile(path string) (Config, error) {
	fileCfg, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := mergeConfig(defaultConfig(), fileCfg)
	cfg.finish()
	return cfg, nil
}

func readFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) finish() {
	c.applyEnvOverrides()
	c.bindTimezone()

	if len(c.Sites) == 0 {
		c.Sites = defaultConfig().Sites
	}
	if len(c.Feeds) == 0 {
		c.Feeds = bucket.DefaultFeeds()
	}
}

// Validate reports every configuration problem found.
func (c Config) Validate() error {
	var errs []error

	switch c.Completion.Provider {
	case ProviderOpenAI, ProviderGateway:
	default:
		errs = append(errs, fmt.Errorf("completion.provider %q is not supported", c.Completion.Provider))
	}
	if c.Completion.Provider == ProviderGateway && c.Completion.Endpoint == "" {
		errs = append(errs, errors.New("completion.endpoint is required for the gateway provider"))
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		errs = append(errs, fmt.Errorf("completion.temperature %.2f is outside [0,2]", c.Completion.Temperature))
	}

	cur := c.Curation
	if cur.BatchSize <= 0 {
		errs = append(errs, errors.New("curation.batchSize must be positive"))
	}
	if cur.Concurrency <= 0 {
		errs = append(errs, errors.New("curation.concurrency must be positive"))
	}
	if cur.SimilarityThreshold <= 0 || cur.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("curation.similarityThreshold %.2f is outside (0,1]", cur.SimilarityThreshold))
	}
	if cur.RecencyWindowDays < 0 {
		errs = append(errs, errors.New("curation.recencyWindowDays must not be negative"))
	}
	if cur.DecayDays <= 0 {
		errs = append(errs, errors.New("curation.decayDays must be positive"))
	}
	for name, v := range cur.Thresholds {
		if v < 0 || v > 10 {
			errs = append(errs, fmt.Errorf("curation.thresholds.%s %.2f is outside [0,10]", name, v))
		}
	}
	for i, rule := range cur.Routing {
		if rule.Category == "" {
			errs = append(errs, fmt.Errorf("curation.routing[%d]: category is required", i))
		}
		if !rule.Papers && len(rule.FeedMarkers) == 0 && len(rule.URLMarkers) == 0 {
			errs = append(errs, fmt.Errorf("curation.routing[%d]: rule matches nothing", i))
		}
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be text or json", c.Logging.Format))
	}

	if strings.TrimSpace(c.Scheduler.CronExpression) == "" {
		errs = append(errs, errors.New("scheduler.cronExpression is required"))
	} else if _, err := cron.ParseStandard(c.Scheduler.CronExpression); err != nil {
		errs = append(errs, fmt.Errorf("scheduler.cronExpression %q: %w", c.Scheduler.CronExpression, err))
	}

	for _, site := range c.Sites {
		switch site.Scanner {
		case ScannerArxiv, ScannerRSS:
		default:
			errs = append(errs, fmt.Errorf("site %s: unknown scanner %q", site.Name, site.Scanner))
		}
		if len(site.Categories) == 0 {
			errs = append(errs, fmt.Errorf("site %s: no categories", site.Name))
		}
	}

	return errors.Join(errs...)
}

// Bucket returns the bucketing configuration derived from curation settings.
func (c Config) Bucket() bucket.Config {
	bc := bucket.DefaultConfig()
	bc.Thresholds = c.Curation.Thresholds
	if len(c.Curation.InternalExclusions) > 0 {
		bc.InternalExclusions = c.Curation.InternalExclusions
	}
	if len(c.Curation.Competitors) > 0 {
		bc.Competitors = c.Curation.Competitors
	}
	return bc
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Completion.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Completion.Model = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
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
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	base.Completion = mergeCompletion(base.Completion, override.Completion)

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}

	base.Curation = mergeCuration(base.Curation, override.Curation)

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func mergeCompletion(base, override CompletionConfig) CompletionConfig {
	if override.Provider != "" {
		base.Provider = override.Provider
	}
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.Model != "" {
		base.Model = override.Model
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.Temperature != 0 {
		base.Temperature = override.Temperature
	}
	if override.Timeout != 0 {
		base.Timeout = override.Timeout
	}
	return base
}

func mergeCuration(base, override CurationConfig) CurationConfig {
	if override.BatchSize != 0 {
		base.BatchSize = override.BatchSize
	}
	if override.Concurrency != 0 {
		base.Concurrency = override.Concurrency
	}
	if override.SimilarityThreshold != 0 {
		base.SimilarityThreshold = override.SimilarityThreshold
	}
	if override.RecencyWindowDays != 0 {
		base.RecencyWindowDays = override.RecencyWindowDays
	}
	if override.DecayDays != 0 {
		base.DecayDays = override.DecayDays
	}
	if override.WeightsFile != "" {
		base.WeightsFile = override.WeightsFile
	}
	if override.HybridScoring {
		base.HybridScoring = true
	}
	if override.MinHybridScore != 0 {
		base.MinHybridScore = override.MinHybridScore
	}
	if len(override.Thresholds) > 0 {
		merged := make(map[domain.BucketName]float64, len(base.Thresholds)+len(override.Thresholds))
		for k, v := range base.Thresholds {
			merged[k] = v
		}
		for k, v := range override.Thresholds {
			merged[k] = v
		}
		base.Thresholds = merged
	}
	if len(override.InternalExclusions) > 0 {
		base.InternalExclusions = override.InternalExclusions
	}
	if len(override.Competitors) > 0 {
		base.Competitors = override.Competitors
	}
	if len(override.Routing) > 0 {
		base.Routing = override.Routing
	}
	if override.DryRun {
		base.DryRun = true
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	bc := bucket.DefaultConfig()
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * 1", Timezone: defaultTimezone, location: tz},
		Completion: CompletionConfig{
			Provider:    ProviderOpenAI,
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			Timeout:     60 * time.Second,
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Curation: CurationConfig{
			BatchSize:           15,
			Concurrency:         3,
			SimilarityThreshold: 0.6,
			RecencyWindowDays:   7,
			DecayDays:           14,
			MinHybridScore:      5,
			Thresholds:          bucket.DefaultThresholds(),
			InternalExclusions:  bc.InternalExclusions,
			Competitors:         bc.Competitors,
		},
		Feeds: bucket.DefaultFeeds(),
		Sites: []SiteConfig{
			{
				Name:    "arxiv",
				Scanner: ScannerArxiv,
				Categories: []CategoryConfig{
					{Name: "cs.SE", URL: "https://export.arxiv.org/list/cs.SE/pastweek"},
					{Name: "cs.IR", URL: "https://export.arxiv.org/list/cs.IR/pastweek"},
				},
			},
			{
				Name:    "engineering",
				Scanner: ScannerRSS,
				Categories: []CategoryConfig{
					{Name: "The GitHub Blog", URL: "https://github.blog/feed/"},
					{Name: "Latent Space", URL: "https://www.latent.space/feed"},
					{Name: "Pragmatic Engineer", URL: "https://newsletter.pragmaticengineer.com/feed"},
				},
			},
		},
	}
}
