package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/logging"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writePlan(t *testing.T, path string, length int) {
	t.Helper()
	content := fmt.Sprintf("lengths = [%d]\nsequences = [\"knuth_1973\"]\nrounds = 2\nquicksort = false\n", length)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func startWatch(t *testing.T, plan string, out *syncBuffer) (cancel func() error) {
	t.Helper()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchPlan(ctx, plan, 20*time.Millisecond, out, benchmark.FormatCSV, logging.Discard())
	}()

	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return errors.New("watchPlan did not return after cancel")
		}
	}
}

func TestWatchPlanRunsOnChange(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")
	out := &syncBuffer{}

	cancel := startWatch(t, plan, out)

	// Give the watcher time to start before the plan appears
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, out.String(), "nothing runs before the plan exists")

	writePlan(t, plan, 30)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "shellsort,knuth_1973,30,")
	}, 5*time.Second, 20*time.Millisecond)

	writePlan(t, plan, 40)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "shellsort,knuth_1973,40,")
	}, 5*time.Second, 20*time.Millisecond)

	assert.NoError(t, cancel())
}

func TestWatchPlanRunsExistingPlan(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")
	writePlan(t, plan, 25)
	out := &syncBuffer{}

	cancel := startWatch(t, plan, out)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "shellsort,knuth_1973,25,")
	}, 5*time.Second, 20*time.Millisecond)

	assert.NoError(t, cancel())
}

func TestWatchPlanSurvivesInvalidPlan(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(plan, []byte("sequences = [\"fibonacci\"]\n"), 0o644))
	out := &syncBuffer{}

	cancel := startWatch(t, plan, out)
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, out.String())

	writePlan(t, plan, 35)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "shellsort,knuth_1973,35,")
	}, 5*time.Second, 20*time.Millisecond)

	assert.NoError(t, cancel())
}

func TestWatchPlanMissingDirectory(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "missing", "plan.toml")
	err := watchPlan(context.Background(), plan, 0, &syncBuffer{}, benchmark.FormatText, logging.Discard())
	assert.Error(t, err)
}

func TestCheckCompatible(t *testing.T) {
	tests := []struct {
		reported string
		ok       bool
	}{
		{"v1.2.0", true},
		{"v1.0.0", true},
		{"v1.9.3-rc.1", true},
		{"v2.0.0", false},
		{"v0.9.0", false},
		{"1.2.0", false},
		{"", false},
	}
	for _, tt := range tests {
		err := checkCompatible(tt.reported, "v1.2.0")
		if tt.ok {
			assert.NoError(t, err, tt.reported)
		} else {
			assert.ErrorIs(t, err, sentinel.ErrIncompatibleReport, tt.reported)
		}
	}
}

func TestCheckSequence(t *testing.T) {
	log := logging.Discard()

	assert.NoError(t, checkSequence(gaps.Default(), true, log))
	assert.NoError(t, checkSequence(gaps.MustParse("1,4,10"), true, log))

	bad := gaps.MustParse("4,10")
	assert.NoError(t, checkSequence(bad, false, log), "only a warning without strict")
	assert.ErrorIs(t, checkSequence(bad, true, log), sentinel.ErrMissingUnitGap)
}
