// Package config is for app wide settings that are unmarshalled from Viper.
// Flags override COMPSEQ_* environment variables, which override the
// config file, which overrides the defaults.
package config

import (
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/aria-lang/compseq-go/internal/alignment"
)

// Version is the release of compseq.
const Version = "0.1.0"

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "COMPSEQ"

// AlignConfig holds settings of the all-pairs run.
type AlignConfig struct {
	// global or local
	Mode string `mapstructure:"mode" toml:"mode"`

	// number of alignment workers, 0 means all CPUs
	Threads int `mapstructure:"threads" toml:"threads"`

	// show a progress bar on stderr
	Progress bool `mapstructure:"progress" toml:"progress"`
}

// OutputConfig holds settings of the result writer.
type OutputConfig struct {
	// text or tsv
	Format string `mapstructure:"format" toml:"format"`

	// output file, "-" for stdout, ".gz" suffix for compression
	File string `mapstructure:"file" toml:"file"`

	// gzip level for compressed output
	CompressionLevel int `mapstructure:"compression-level" toml:"compression-level"`
}

// PrefilterConfig holds the k-mer prefilter settings.
type PrefilterConfig struct {
	// k-mer size
	K int `mapstructure:"kmer-size" toml:"kmer-size"`

	// pairs with a larger Jaccard distance are not aligned, 1 disables
	MaxDistance float64 `mapstructure:"max-kmer-distance" toml:"max-kmer-distance"`
}

// ServerConfig holds settings of the HTTP server.
type ServerConfig struct {
	Host string `mapstructure:"host" toml:"host"`
	Port int    `mapstructure:"port" toml:"port"`

	// per-request timeout in seconds
	Timeout int `mapstructure:"timeout" toml:"timeout"`

	// maximum number of records in one pairwise request
	MaxRecords int `mapstructure:"max-records" toml:"max-records"`
}

// Config is the root-level settings struct.
type Config struct {
	Align     AlignConfig     `mapstructure:"align" toml:"align"`
	Output    OutputConfig    `mapstructure:"output" toml:"output"`
	Prefilter PrefilterConfig `mapstructure:"prefilter" toml:"prefilter"`
	Server    ServerConfig    `mapstructure:"server" toml:"server"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("align.mode", "global")
	v.SetDefault("align.threads", 0)
	v.SetDefault("align.progress", false)

	v.SetDefault("output.format", "text")
	v.SetDefault("output.file", "-")
	v.SetDefault("output.compression-level", 5)

	v.SetDefault("prefilter.kmer-size", 3)
	v.SetDefault("prefilter.max-kmer-distance", 1.0)

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", 60)
	v.SetDefault("server.max-records", 500)
}

// New returns a Viper instance with defaults and environment binding.
// Environment variables replace dots and dashes with underscores, e.g.
// COMPSEQ_ALIGN_MODE or COMPSEQ_PREFILTER_MAX_KMER_DISTANCE.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a TOML, YAML or JSON config file into v. An empty path
// is a no-op. "~" is expanded.
func ReadFile(v *viper.Viper, file string) error {
	if file == "" {
		return nil
	}
	path, err := homedir.Expand(file)
	if err != nil {
		return errors.Wrapf(err, "expand %s", file)
	}
	v.SetConfigFile(path)
	if err = v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// Unmarshal decodes and validates the settings held by v.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if c.Output.File != "-" && c.Output.File != "" {
		file, err := homedir.Expand(c.Output.File)
		if err != nil {
			return nil, errors.Wrapf(err, "expand %s", c.Output.File)
		}
		c.Output.File = file
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads defaults, an optional config file and the environment.
func Load(file string) (*Config, error) {
	v := New()
	if err := ReadFile(v, file); err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	c, err := Unmarshal(v)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := alignment.ParseMode(c.Align.Mode); err != nil {
		return err
	}
	if c.Align.Threads < 0 {
		return fmt.Errorf("threads must not be negative, got %d", c.Align.Threads)
	}
	switch c.Output.Format {
	case "text", "tsv":
	default:
		return fmt.Errorf("unknown output format %q: select either text or tsv", c.Output.Format)
	}
	if c.Output.CompressionLevel < -1 || c.Output.CompressionLevel > 9 {
		return fmt.Errorf("compression level must be in [-1, 9], got %d", c.Output.CompressionLevel)
	}
	if c.Prefilter.K < 1 {
		return fmt.Errorf("k-mer size must be positive, got %d", c.Prefilter.K)
	}
	if c.Prefilter.MaxDistance < 0 || c.Prefilter.MaxDistance > 1 {
		return fmt.Errorf("max k-mer distance must be in [0, 1], got %g", c.Prefilter.MaxDistance)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.Timeout < 1 {
		return fmt.Errorf("timeout must be positive, got %d", c.Server.Timeout)
	}
	if c.Server.MaxRecords < 2 {
		return fmt.Errorf("max records must be at least 2, got %d", c.Server.MaxRecords)
	}
	return nil
}

// Mode returns the parsed alignment mode.
func (c *Config) Mode() alignment.Mode {
	m, _ := alignment.ParseMode(c.Align.Mode)
	return m
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
