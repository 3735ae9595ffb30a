package vector

import (
	"github.com/c2h5oh/datasize"
	"github.com/caarlos0/env/v11"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Config controls the global allocator.
type Config struct {
	// MaxBytes caps the bytes held by all live buffers. Zero means unlimited.
	MaxBytes datasize.ByteSize `env:"VECTOR_MAX_BYTES" envDefault:"0B"`
	// LogLevel filters allocator log lines: debug, info, warn or error.
	LogLevel string `env:"VECTOR_LOG_LEVEL" envDefault:"info"`
}

// DefaultConfig returns an unlimited allocator configuration logging at info.
func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// ConfigFromEnv loads a Config from VECTOR_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log level and the byte limit.
func (c Config) Validate() error {
	if _, err := levelOption(c.LogLevel); err != nil {
		return err
	}
	if c.MaxBytes.Bytes() > uint64(maxInt) {
		return errors.Errorf("max bytes %s does not fit in an int", c.MaxBytes.HumanReadable())
	}
	return nil
}

// Filter wraps logger with the level filter selected by LogLevel.
// An invalid level falls back to info.
func (c Config) Filter(logger log.Logger) log.Logger {
	opt, err := levelOption(c.LogLevel)
	if err != nil {
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

func levelOption(name string) (level.Option, error) {
	switch name {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, errors.Errorf("unknown log level %q", name)
	}
}
