package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pavanmanishd/vector"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	goleak.VerifyTestMain(m)
}

func TestTrace(t *testing.T) {
	var out, logs bytes.Buffer
	err := run([]string{"trace", "--count=3", "--insert-at=1", "--value=9", "--erase-at=0", "--resize=5"}, &out, &logs)
	require.NoError(t, err)

	want := []string{
		"Trace:",
		"\tpush_back(1): len=1 cap=1 in_use=8 B [1]",
		"\tpush_back(2): len=2 cap=2 in_use=16 B [1 2]",
		"\tpush_back(3): len=3 cap=4 in_use=32 B [1 2 3]",
		"\tinsert(1, 9): len=4 cap=4 in_use=32 B [1 9 2 3]",
		"\terase(0): len=3 cap=4 in_use=32 B [9 2 3]",
		"\tresize(5): len=5 cap=5 in_use=40 B [9 2 3 0 0]",
		"\tshrink_to_fit: len=5 cap=5 in_use=40 B [9 2 3 0 0]",
		"\tdestroy: len=0 cap=0 in_use=0 B []",
		"Allocator:",
		"\tallocations: 4, releases: 4, failures: 0, peak: 72 B",
	}
	assert.Equal(t, want, strings.Split(strings.TrimSpace(out.String()), "\n"))
	assert.Empty(t, logs.String(), "info level hides buffer events")
}

func TestTraceIsDefaultCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out, &out))
	assert.Contains(t, out.String(), "\tpush_back(10): len=10 cap=16")
}

func TestTraceRestoresDefaultAllocator(t *testing.T) {
	before := vector.DefaultAllocator()
	var out bytes.Buffer
	require.NoError(t, run([]string{"trace", "--count=1"}, &out, &out))
	assert.Same(t, before, vector.DefaultAllocator())
}

func TestTraceDebugLogging(t *testing.T) {
	var out, logs bytes.Buffer
	require.NoError(t, run([]string{"trace", "--count=1", "--log.level=debug"}, &out, &logs))
	assert.Contains(t, logs.String(), `level=debug msg="allocated buffer" elements=1 bytes=8`)
	assert.Contains(t, logs.String(), `level=debug msg="released buffer" bytes=8 in_use=0`)
}

func TestTraceMemoryLimit(t *testing.T) {
	t.Setenv("VECTOR_MAX_BYTES", "64B")

	var out, logs bytes.Buffer
	err := run([]string{"trace", "--count=20"}, &out, &logs)
	require.ErrorIs(t, err, vector.ErrOutOfMemory)
	// Growing from 4 to 8 slots needs 64 B while the old 32 B are still held.
	assert.EqualError(t, err, "push_back(5): requested 64 B with 32 B of 64 B in use: vector: allocation exceeds memory limit")
	assert.Contains(t, out.String(), "\tlimit: 64 B")
	assert.Contains(t, out.String(), "\tpush_back(4): len=4 cap=4 in_use=32 B [1 2 3 4]")
	assert.NotContains(t, out.String(), "Allocator:")
	assert.Contains(t, logs.String(), `msg="allocation rejected"`)
}

func TestTraceMetrics(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"trace", "--count=4", "--metrics"}, &out, &out))
	assert.Contains(t, out.String(), "# TYPE vector_allocator_allocations_total counter")
	assert.Contains(t, out.String(), "vector_allocator_allocations_total 3")
	assert.Contains(t, out.String(), "vector_allocator_bytes_in_use 0")
}

func TestTraceBadPositions(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"trace", "--count=2", "--insert-at=5"}, &out, &out)
	assert.EqualError(t, err, "insert position 5 out of range [0, 2]")

	err = run([]string{"trace", "--count=0", "--erase-at=0"}, &out, &out)
	assert.EqualError(t, err, "erase position 0 out of range [0, 0)")

	err = run([]string{"trace", "--count=-1"}, &out, &out)
	assert.EqualError(t, err, "count must not be negative, got -1")
}

func TestEnv(t *testing.T) {
	t.Setenv("VECTOR_MAX_BYTES", "2MB")
	t.Setenv("VECTOR_LOG_LEVEL", "warn")

	var out bytes.Buffer
	require.NoError(t, run([]string{"env"}, &out, &out))
	assert.Equal(t, "max_bytes=2.0 MB log_level=warn\n", out.String())
}

func TestUnknownFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"trace", "--bogus"}, &out, &errOut)
	assert.Error(t, err)
}
