package ringws

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the public RING web service.
const DefaultBaseURL = "http://protein.bio.unipd.it/ringws"

// Config holds configuration for creating a Client. Zero fields take the
// values of DefaultConfig when loaded with LoadConfig or passed to NewClient.
type Config struct {
	// BaseURL is the root URL for API requests.
	BaseURL string `yaml:"baseURL" json:"baseURL"`

	// Timeout bounds a single HTTP exchange.
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// PollInterval is the first delay between status checks in Wait. The
	// delay grows exponentially up to MaxPollInterval.
	PollInterval    Duration `yaml:"pollInterval" json:"pollInterval"`
	MaxPollInterval Duration `yaml:"maxPollInterval" json:"maxPollInterval"`

	// MaxWait bounds the whole of Wait. Zero waits until ctx is done.
	MaxWait Duration `yaml:"maxWait" json:"maxWait"`

	// MaxResponseBytes caps response bodies after decompression.
	MaxResponseBytes int64 `yaml:"maxResponseBytes" json:"maxResponseBytes"`

	UserAgent string `yaml:"userAgent" json:"userAgent"`

	// Decode is applied to every response.
	Decode DecodeOptions `yaml:"decode" json:"decode"`

	// Settings are used by callers that submit without explicit settings,
	// such as the command line tool. LoadConfig starts the block from
	// DefaultSettings, so a file only lists what it changes.
	Settings Settings `yaml:"-" json:"-"`

	// HTTPClient is used for all HTTP requests. Defaults to a client with
	// Timeout.
	HTTPClient *http.Client `yaml:"-" json:"-"`

	// Logger is used for structured logging. Defaults to a no-op logger.
	Logger *zerolog.Logger `yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		Timeout:          Duration(60 * time.Second),
		PollInterval:     Duration(5 * time.Second),
		MaxPollInterval:  Duration(time.Minute),
		MaxWait:          Duration(30 * time.Minute),
		MaxResponseBytes: 64 << 20,
		UserAgent:        "ringws-go",
		Settings:         DefaultSettings(),
	}
}

// settingsBlock reads the settings section on top of the defaults.
type settingsBlock struct {
	Settings Settings `yaml:"settings" json:"settings"`
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON with comments (.json, .jsonc)
// file and merges it over DefaultConfig. RINGWS_BASE_URL, when set, overrides
// the file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- caller-chosen config path
	if err != nil {
		return Config{}, fmt.Errorf("ringws: read config %q: %w", path, err)
	}
	var unmarshal func([]byte, any) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
		unmarshal = json.Unmarshal
	default:
		return Config{}, fmt.Errorf("ringws: config %q: unsupported extension", path)
	}

	var fileCfg Config
	if err := unmarshal(data, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("ringws: parse config %q: %w", path, err)
	}
	sb := settingsBlock{Settings: DefaultSettings()}
	if err := unmarshal(data, &sb); err != nil {
		return Config{}, fmt.Errorf("ringws: parse settings in %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("ringws: merge config: %w", err)
	}
	// mergo cannot turn a default true into an explicit false, so the
	// settings block is decoded onto the defaults directly.
	cfg.Settings = sb.Settings
	if env := os.Getenv("RINGWS_BASE_URL"); env != "" {
		cfg.BaseURL = env
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would make the client misbehave.
func (c Config) Validate() error {
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("ringws: base URL must be http or https (got %q)", c.BaseURL)
	}
	if c.PollInterval < 0 || c.MaxPollInterval < 0 || c.MaxWait < 0 || c.Timeout < 0 {
		return fmt.Errorf("ringws: durations must not be negative")
	}
	if c.MaxPollInterval > 0 && c.PollInterval > c.MaxPollInterval {
		return fmt.Errorf("ringws: pollInterval %s exceeds maxPollInterval %s", c.PollInterval, c.MaxPollInterval)
	}
	return nil
}

// Duration is a time.Duration written as text ("5s", "2m") in config files.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
