package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tacit-code/skills/internal/license"
	"github.com/tacit-code/skills/internal/logging"
)

const Version = "0.3.0"

// EnvPrefix prefixes environment overrides, e.g. SKILLGUARD_LOG_LEVEL
const EnvPrefix = "SKILLGUARD"

// Settings holds all CLI configuration
type Settings struct {
	Log       LogSettings       `mapstructure:"log"`
	Defaults  RequestDefaults   `mapstructure:"defaults"`
	Templates TemplateOverrides `mapstructure:"templates"`
	Report    ReportSettings    `mapstructure:"report"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RequestDefaults fill license request fields not given on the command line
type RequestDefaults struct {
	Jurisdiction string `mapstructure:"jurisdiction"`
	County       string `mapstructure:"county"`
	EntityType   string `mapstructure:"entity_type"`
	ContactName  string `mapstructure:"contact_name"`
	ContactEmail string `mapstructure:"contact_email"`
}

// TemplateOverrides are paths of template files replacing the embedded ones
type TemplateOverrides struct {
	Standard string `mapstructure:"standard"`
	Maximum  string `mapstructure:"maximum"`
}

type ReportSettings struct {
	MaxFailures int `mapstructure:"max_failures"`
}

// flagKeys maps config keys to the CLI flags that override them
var flagKeys = map[string]string{
	"log.level":              "log-level",
	"log.format":             "log-format",
	"defaults.jurisdiction":  "jurisdiction",
	"defaults.county":        "county",
	"defaults.entity_type":   "entity-type",
	"defaults.contact_name":  "contact-name",
	"defaults.contact_email": "contact-email",
	"report.max_failures":    "max-failures",
}

// Load reads settings from, in increasing precedence: built-in defaults,
// skillguard.yaml (or configFile), .env and the environment, then flags.
func Load(configFile string, flags *pflag.FlagSet) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("defaults.jurisdiction", "")
	v.SetDefault("defaults.county", license.DefaultCounty)
	v.SetDefault("defaults.entity_type", "")
	v.SetDefault("defaults.contact_name", "")
	v.SetDefault("defaults.contact_email", "")
	v.SetDefault("templates.standard", "")
	v.SetDefault("templates.maximum", "")
	v.SetDefault("report.max_failures", 5)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("skillguard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "skillguard"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &s, nil
}

func (s *Settings) validate() error {
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q (supported: console, json)", s.Log.Format)
	}
	if s.Defaults.EntityType != "" {
		if _, err := license.ParseEntityType(s.Defaults.EntityType); err != nil {
			return err
		}
	}
	if s.Report.MaxFailures < 0 {
		return fmt.Errorf("report.max_failures must not be negative")
	}
	return nil
}

// RendererOptions reads the configured template override files
func (s *Settings) RendererOptions() ([]license.Option, error) {
	var opts []license.Option
	for tier, path := range map[license.Tier]string{
		license.TierStandard: s.Templates.Standard,
		license.TierMaximum:  s.Templates.Maximum,
	} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", tier, err)
		}
		opts = append(opts, license.WithTemplate(tier, string(data)))
	}
	return opts, nil
}
