package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/clockstate/internal/ledger"
	"github.com/roach88/clockstate/internal/program"
	"github.com/roach88/clockstate/internal/pubkey"
)

//go:embed schema.cue
var schemaSource string

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CLOCKSTATE_"

// DefaultProgramID is the address the clock program is deployed at unless
// configured otherwise.
var DefaultProgramID = pubkey.MustParsePubkey("6o2E5vCAzGhKh3Dq6eqy5Cqxy4Eo4nPjjGHw8tou1M82")

// Config holds clockctl settings.
type Config struct {
	ProgramID      pubkey.Pubkey `yaml:"program_id" json:"program_id" env:"PROGRAM_ID"`
	Variant        string        `yaml:"variant" json:"variant" env:"VARIANT"`
	DatabasePath   string        `yaml:"database_path" json:"database_path" env:"DATABASE_PATH"`
	LogLevel       string        `yaml:"log_level" json:"log_level" env:"LOG_LEVEL"`
	FaucetLamports uint64        `yaml:"faucet_lamports" json:"faucet_lamports" env:"FAUCET_LAMPORTS"`
	Rent           ledger.Rent   `yaml:"rent" json:"rent" envPrefix:"RENT_"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProgramID:      DefaultProgramID,
		Variant:        string(program.VariantClock),
		DatabasePath:   "clockstate.db",
		LogLevel:       "info",
		FaucetLamports: 1_000_000_000,
		Rent:           ledger.DefaultRent(),
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML rejects unknown keys so typos do not silently fall back to
// defaults.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks cfg against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(c)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ProgramVariant returns the configured variant.
func (c Config) ProgramVariant() (program.Variant, error) {
	return program.ParseVariant(c.Variant)
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
