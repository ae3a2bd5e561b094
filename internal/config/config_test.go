package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int(KeyRounds, 100, "")
	fs.Int(KeyLength, 100, "")
	fs.String(KeyGapSequence, "", "")
	fs.Bool(KeyQuicksort, false, "")
	return fs
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	s, err := Load(New(), "", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, uint64(0), s.Seed)
	assert.Equal(t, 100, s.Rounds)
	assert.Equal(t, 100, s.Length)
	assert.Equal(t, "", s.GapSequence)
	assert.False(t, s.Quicksort)
	assert.Equal(t, 0, s.MaxDistance)
	assert.Equal(t, 1.0, s.Probability)
	assert.Equal(t, "text", s.Format)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.ConfigFile)
	assert.NoError(t, s.Validate())
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shellbench.toml", `
rounds = 7
length = 300
gap-sequence = "knuth_1973"
seed = 11
`)

	// file over defaults
	s, err := Load(New(), "", dir)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Rounds)
	assert.Equal(t, 300, s.Length)
	assert.Equal(t, "knuth_1973", s.GapSequence)
	assert.Equal(t, uint64(11), s.Seed)
	assert.Equal(t, filepath.Join(dir, "shellbench.toml"), s.ConfigFile)

	// environment over file
	t.Setenv("SHELLBENCH_ROUNDS", "9")
	t.Setenv("SHELLBENCH_GAP_SEQUENCE", "ciura_2001")
	s, err = Load(New(), "", dir)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Rounds)
	assert.Equal(t, "ciura_2001", s.GapSequence)
	assert.Equal(t, 300, s.Length)

	// flags over environment
	v := New()
	fs := testFlags()
	require.NoError(t, BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--rounds", "3", "--quicksort"}))
	s, err = Load(v, "", dir)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Rounds)
	assert.True(t, s.Quicksort)
	assert.Equal(t, "ciura_2001", s.GapSequence, "unset flags fall through to the environment")
	assert.Equal(t, 300, s.Length, "unset flags fall through to the file")
}

func TestExplicitYAMLFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bench.yaml", `
probability: 0.25
max-distance: 5
format: json
`)

	s, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, s.Probability)
	assert.Equal(t, 5, s.MaxDistance)
	assert.Equal(t, "json", s.Format)
	assert.Equal(t, path, s.ConfigFile)
}

func TestMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err, "a named file must exist")

	_, err = Load(New(), "", t.TempDir())
	assert.NoError(t, err, "searching finds nothing")
}

func TestValidate(t *testing.T) {
	base := func() *Settings {
		s, err := Load(New(), "", t.TempDir())
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"negative length", func(s *Settings) { s.Length = -1 }, sentinel.ErrInvalidLength},
		{"negative rounds", func(s *Settings) { s.Rounds = -1 }, sentinel.ErrInvalidRounds},
		{"probability", func(s *Settings) { s.Probability = 1.2 }, sentinel.ErrInvalidProbability},
		{"format", func(s *Settings) { s.Format = "xml" }, sentinel.ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), tt.want)
		})
	}

	s := base()
	s.LogLevel = "loud"
	assert.Error(t, s.Validate())
}

func TestBenchmarkConfig(t *testing.T) {
	s := &Settings{Seed: 5, Rounds: 2, Length: 30, Quicksort: true, MaxDistance: 3, Probability: 0.5}
	seq := gaps.Named(gaps.Hibbard1963)

	cfg := s.BenchmarkConfig(seq)
	assert.Equal(t, uint64(5), cfg.Seed)
	assert.Equal(t, 2, cfg.Rounds)
	assert.Equal(t, 30, cfg.Length)
	assert.True(t, cfg.Quicksort)
	assert.Equal(t, 3, cfg.MaxDistance)
	assert.Equal(t, 0.5, cfg.Probability)
	assert.Equal(t, seq, cfg.Sequence)
}
