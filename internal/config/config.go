// Package config resolves shellbench settings from command-line flags,
// SHELLBENCH_* environment variables, an optional config file and defaults,
// in that order of precedence.
//
// Config file keys equal the long flag names:
//
//	# shellbench.toml
//	rounds = 500
//	gap-sequence = "tokuda_1992"
//	quicksort = true
package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// EnvPrefix prefixes every environment variable, e.g. SHELLBENCH_GAP_SEQUENCE.
const EnvPrefix = "SHELLBENCH"

// Keys shared by flags, environment and config file.
const (
	KeySeed        = "seed"
	KeyRounds      = "rounds"
	KeyLength      = "length"
	KeyGapSequence = "gap-sequence"
	KeyQuicksort   = "quicksort"
	KeyMaxDistance = "max-distance"
	KeyProbability = "probability"
	KeyFormat      = "format"
	KeyStrict      = "strict"
	KeyLogLevel    = "log-level"
	KeyLogFile     = "log-file"
	KeyLogJSON     = "log-json"
	KeyNoColor     = "no-color"
)

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Seed        uint64
	Rounds      int
	Length      int
	GapSequence string
	Quicksort   bool
	MaxDistance int
	Probability float64
	Format      string
	Strict      bool

	LogLevel string
	LogFile  string
	LogJSON  bool
	NoColor  bool

	// ConfigFile is the file the settings were read from, if any
	ConfigFile string
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySeed, 0)
	v.SetDefault(KeyRounds, 100)
	v.SetDefault(KeyLength, 100)
	v.SetDefault(KeyGapSequence, "")
	v.SetDefault(KeyQuicksort, false)
	v.SetDefault(KeyMaxDistance, 0)
	v.SetDefault(KeyProbability, 1.0)
	v.SetDefault(KeyFormat, string(benchmark.FormatText))
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyNoColor, false)
}

// DefaultSearchPaths lists the directories searched for shellbench.{toml,yaml}
// when no config file is given.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "shellbench"))
	}
	return paths
}

// BindFlags makes every flag in fs a source for the key of the same name.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return ewrap.Wrap(err, "bind flags")
	}
	return nil
}

// Load reads configFile, or the first shellbench.* file in searchPaths when
// configFile is empty, and returns the resolved settings. A missing file is
// only an error when it was named explicitly.
func Load(v *viper.Viper, configFile string, searchPaths ...string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("shellbench")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if configFile != "" || len(searchPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if configFile != "" || !errors.As(err, &notFound) {
				return nil, ewrap.Wrap(err, "read config")
			}
		}
	}

	return &Settings{
		Seed:        v.GetUint64(KeySeed),
		Rounds:      v.GetInt(KeyRounds),
		Length:      v.GetInt(KeyLength),
		GapSequence: v.GetString(KeyGapSequence),
		Quicksort:   v.GetBool(KeyQuicksort),
		MaxDistance: v.GetInt(KeyMaxDistance),
		Probability: v.GetFloat64(KeyProbability),
		Format:      v.GetString(KeyFormat),
		Strict:      v.GetBool(KeyStrict),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFile:     v.GetString(KeyLogFile),
		LogJSON:     v.GetBool(KeyLogJSON),
		NoColor:     v.GetBool(KeyNoColor),
		ConfigFile:  v.ConfigFileUsed(),
	}, nil
}

// Validate rejects settings no run could use.
func (s *Settings) Validate() error {
	if s.Length < 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidLength, "got %d", s.Length)
	}
	if s.Rounds < 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidRounds, "got %d", s.Rounds)
	}
	if math.IsNaN(s.Probability) || s.Probability < 0 || s.Probability > 1 {
		return ewrap.Wrapf(sentinel.ErrInvalidProbability, "got %v", s.Probability)
	}
	if _, err := benchmark.ParseFormat(s.Format); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return ewrap.Wrap(err, "log level")
	}
	return nil
}

// BenchmarkConfig returns the run configuration for seq.
func (s *Settings) BenchmarkConfig(seq gaps.Sequence) benchmark.Config {
	return benchmark.Config{
		Length:      s.Length,
		Rounds:      s.Rounds,
		Seed:        s.Seed,
		Sequence:    seq,
		Quicksort:   s.Quicksort,
		MaxDistance: s.MaxDistance,
		Probability: s.Probability,
	}
}
