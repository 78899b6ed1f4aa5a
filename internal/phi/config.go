package phi

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
)

// #region config
// Config controls method selection, cut semantics and resource limits for Φ queries.
type Config struct {
	Approximation    Method
	MaxExactSize     int
	Parallel         bool
	MinConceptPhi    float64
	CutKind          partition.CutKind
	MaxMechanismSize int // 0 means no limit
	Timeout          time.Duration
	CacheSize        int
	MaxQubits        int
	AllowLarge       bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Approximation: Geometric,
		MaxExactSize:  8,
		Parallel:      true,
		MinConceptPhi: 0,
		CutKind:       partition.Unidirectional,
		CacheSize:     1024,
		MaxQubits:     12,
	}
}

// Validate rejects out-of-range options.
func (c Config) Validate() error {
	switch c.Approximation {
	case Exact, Geometric, Spectral, MeanField, Tau:
	default:
		return phierr.New(phierr.ConfigError, "unknown approximation %q", c.Approximation)
	}
	if c.MaxExactSize < 0 {
		return phierr.New(phierr.ConfigError, "max_exact_size %d is negative", c.MaxExactSize)
	}
	if c.MinConceptPhi < 0 {
		return phierr.New(phierr.ConfigError, "min_concept_phi %g is negative", c.MinConceptPhi)
	}
	if c.MaxMechanismSize < 0 {
		return phierr.New(phierr.ConfigError, "max_mechanism_size %d is negative", c.MaxMechanismSize)
	}
	if c.Timeout < 0 {
		return phierr.New(phierr.ConfigError, "timeout %s is negative", c.Timeout)
	}
	if c.CacheSize < 0 {
		return phierr.New(phierr.ConfigError, "cache_size %d is negative", c.CacheSize)
	}
	if c.MaxQubits < 1 {
		return phierr.New(phierr.ConfigError, "max_qubits %d must be positive", c.MaxQubits)
	}
	return nil
}

// #endregion config

// #region load
type fileConfig struct {
	Approximation    *string  `yaml:"approximation"`
	MaxExactSize     *int     `yaml:"max_exact_size"`
	Parallel         *bool    `yaml:"parallel"`
	MinConceptPhi    *float64 `yaml:"min_concept_phi"`
	CutKind          *string  `yaml:"cut_kind"`
	MaxMechanismSize *int     `yaml:"max_mechanism_size"`
	Timeout          *string  `yaml:"timeout"`
	CacheSize        *int     `yaml:"cache_size"`
	MaxQubits        *int     `yaml:"max_qubits"`
	AllowLarge       *bool    `yaml:"allow_large"`
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	return DefaultConfig().Overlay(data)
}

// Overlay decodes YAML (or JSON) bytes over c and validates the result. Fields
// absent from data keep their value in c.
func (c Config) Overlay(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, phierr.New(phierr.ConfigError, "decode yaml: %v", err)
	}
	cfg := c
	if fc.Approximation != nil {
		cfg.Approximation = Method(*fc.Approximation)
	}
	if fc.MaxExactSize != nil {
		cfg.MaxExactSize = *fc.MaxExactSize
	}
	if fc.Parallel != nil {
		cfg.Parallel = *fc.Parallel
	}
	if fc.MinConceptPhi != nil {
		cfg.MinConceptPhi = *fc.MinConceptPhi
	}
	if fc.CutKind != nil {
		k, err := partition.ParseCutKind(*fc.CutKind)
		if err != nil {
			return Config{}, err
		}
		cfg.CutKind = k
	}
	if fc.MaxMechanismSize != nil {
		cfg.MaxMechanismSize = *fc.MaxMechanismSize
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return Config{}, phierr.New(phierr.ConfigError, "timeout %q: %v", *fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.CacheSize != nil {
		cfg.CacheSize = *fc.CacheSize
	}
	if fc.MaxQubits != nil {
		cfg.MaxQubits = *fc.MaxQubits
	}
	if fc.AllowLarge != nil {
		cfg.AllowLarge = *fc.AllowLarge
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// #endregion load
