package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/synthlab/internal/logging"
	"github.com/KaramelBytes/synthlab/internal/parser"
)

// Global configuration structure.
type Global struct {
	MockMetrics      bool   `mapstructure:"mock_metrics" yaml:"mock_metrics"`
	Strict           bool   `mapstructure:"strict" yaml:"strict"`
	DuplicateHeaders string `mapstructure:"duplicate_headers" yaml:"duplicate_headers"`
	Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
	SampleRows       int    `mapstructure:"sample_rows" yaml:"sample_rows"`

	// HTTP server
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	BatchConcurrency int `mapstructure:"batch_concurrency" yaml:"batch_concurrency"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"mock_metrics", "strict", "duplicate_headers", "delimiter", "sample_rows",
	"max_upload_mb", "listen_addr", "log_level", "log_format", "batch_concurrency",
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		DuplicateHeaders: "last-wins",
		Delimiter:        "auto",
		SampleRows:       5,
		MaxUploadMB:      50,
		ListenAddr:       ":8080",
		LogLevel:         "info",
		LogFormat:        "console",
		BatchConcurrency: 4,
	}
}

// DefaultDir returns ~/.synthlab.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".synthlab"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.synthlab/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from .env, env, file and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SYNTHLAB")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("mock_metrics", d.MockMetrics)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("duplicate_headers", d.DuplicateHeaders)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("batch_concurrency", d.BatchConcurrency)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if _, err := parser.ParseDuplicates(c.DuplicateHeaders); err != nil {
		return err
	}
	if _, err := c.Comma(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("sample_rows must be >= 0, got %d", c.SampleRows)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0, got %d", c.MaxUploadMB)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("batch_concurrency must be > 0, got %d", c.BatchConcurrency)
	}
	return nil
}

// Comma returns the configured delimiter as a rune. Empty or "auto" yields 0,
// letting the parser pick by file extension. `\t` and "tab" mean tab.
func (c *Global) Comma() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter converts a user-supplied delimiter into a rune.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

// ParserOptions builds parser options from the configuration.
func (c *Global) ParserOptions() (parser.Options, error) {
	comma, err := c.Comma()
	if err != nil {
		return parser.Options{}, err
	}
	dup, err := parser.ParseDuplicates(c.DuplicateHeaders)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{Comma: comma, Duplicates: dup}, nil
}

// Get returns the string form of a key's value.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "mock_metrics":
		return strconv.FormatBool(c.MockMetrics), nil
	case "strict":
		return strconv.FormatBool(c.Strict), nil
	case "duplicate_headers":
		return c.DuplicateHeaders, nil
	case "delimiter":
		return c.Delimiter, nil
	case "sample_rows":
		return strconv.Itoa(c.SampleRows), nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "batch_concurrency":
		return strconv.Itoa(c.BatchConcurrency), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val and assigns it to key. The result is validated.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "mock_metrics", "strict":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		if key == "strict" {
			next.Strict = b
		} else {
			next.MockMetrics = b
		}
	case "duplicate_headers":
		d, err := parser.ParseDuplicates(val)
		if err != nil {
			return err
		}
		next.DuplicateHeaders = d.String()
	case "delimiter":
		next.Delimiter = val
	case "sample_rows", "max_upload_mb", "batch_concurrency":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "sample_rows":
			next.SampleRows = i
		case "max_upload_mb":
			next.MaxUploadMB = i
		default:
			next.BatchConcurrency = i
		}
	case "listen_addr":
		next.ListenAddr = val
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
