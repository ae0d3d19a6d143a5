package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "POSREPORT"

type Config struct {
	Input    InputConfig     `mapstructure:"input"`
	Output   OutputConfig    `mapstructure:"output"`
	Analysis AnalysisConfig  `mapstructure:"analysis"`
	Services []ServiceWindow `mapstructure:"services" validate:"required,min=1,dive"`
	Logger   LoggerConfig    `mapstructure:"logger"`
}

type InputConfig struct {
	Square         string `mapstructure:"square" validate:"required"`
	Toast          string `mapstructure:"toast" validate:"required"`
	SquareEncoding string `mapstructure:"square_encoding" validate:"encoding"`
	ToastEncoding  string `mapstructure:"toast_encoding" validate:"encoding"`
}

type OutputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AnalysisConfig struct {
	TopItems     int    `mapstructure:"top_items" validate:"gt=0"`
	TopPairs     int    `mapstructure:"top_pairs" validate:"gt=0"`
	UnknownLabel string `mapstructure:"unknown_label" validate:"required"`
	SquareDineIn string `mapstructure:"square_dine_in" validate:"required"`
	ToastDineIn  string `mapstructure:"toast_dine_in" validate:"required"`
}

// ServiceWindow is a named meal period, [Start, End) on the time of day.
type ServiceWindow struct {
	Name  string `mapstructure:"name" validate:"required"`
	Start string `mapstructure:"start" validate:"clock"`
	End   string `mapstructure:"end" validate:"clock"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"json", "text"}
	validOutputFormats = []string{".pdf", ".xlsx", ".html"}
	validEncodings     = []string{"", "utf-8", "utf8", "ascii", "iso-8859-1", "latin1", "windows-1252"}
	clockLayouts       = []string{"15:04:05", "15:04"}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.square", "data/items.csv")
	v.SetDefault("input.toast", "data/ItemSelectionDetails.csv")
	v.SetDefault("input.square_encoding", "utf-8")
	v.SetDefault("input.toast_encoding", "iso-8859-1")
	v.SetDefault("output.path", "pdfoutput.pdf")
	v.SetDefault("analysis.top_items", 30)
	v.SetDefault("analysis.top_pairs", 20)
	v.SetDefault("analysis.unknown_label", "Unknown")
	v.SetDefault("analysis.square_dine_in", "For Here")
	v.SetDefault("analysis.toast_dine_in", "Dine In")
	v.SetDefault("services", []map[string]any{
		{"name": "Breakfast", "start": "08:00", "end": "12:00"},
		{"name": "Dinner", "start": "12:00", "end": "23:59"},
	})
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pos-report", pflag.ContinueOnError)
	fs.String("config", "", "optional YAML or JSON configuration file")
	fs.String("square", "", "path to the Square items export")
	fs.String("toast", "", "path to the Toast item selection export")
	fs.String("output", "", "report path; the extension selects the format (.pdf, .xlsx, .html)")
	fs.Int("top-items", 0, "rows kept in ranked item charts")
	fs.Int("top-pairs", 0, "pairs kept in affinity charts")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("log-format", "", "json or text")
	return fs
}

var flagKeys = map[string]string{
	"square":     "input.square",
	"toast":      "input.toast",
	"output":     "output.path",
	"top-items":  "analysis.top_items",
	"top-pairs":  "analysis.top_pairs",
	"log-level":  "logger.level",
	"log-format": "logger.format",
}

// Load resolves the configuration from flags, POSREPORT_* environment
// variables, an optional config file and defaults, in that order.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := ParseClock(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		return contains(validEncodings, strings.ToLower(fl.Field().String()))
	})
	return validate
}

func (c *Config) validate() error {
	if err := newValidator().Struct(c); err != nil {
		return err
	}

	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if !contains(validOutputFormats, c.OutputFormat()) {
		return fmt.Errorf("unsupported output format %q, must be one of: %s", c.OutputFormat(), strings.Join(validOutputFormats, ", "))
	}

	seen := make(map[string]bool, len(c.Services))
	for _, s := range c.Services {
		if seen[s.Name] {
			return fmt.Errorf("service %q defined twice", s.Name)
		}
		seen[s.Name] = true

		start, _ := ParseClock(s.Start)
		end, _ := ParseClock(s.End)
		if start >= end {
			return fmt.Errorf("service %q must start before it ends, got %s-%s", s.Name, s.Start, s.End)
		}
	}

	return nil
}

// OutputFormat is the lower-cased extension of the output path.
func (c *Config) OutputFormat() string {
	return strings.ToLower(filepath.Ext(c.Output.Path))
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, want HH:MM or HH:MM:SS", s)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
