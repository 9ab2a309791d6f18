package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_OverlayWinsOverEnvironment(t *testing.T) {
	t.Setenv("RUNTIME_TEST_KEY", "from-env")

	r := NewRuntime()
	r.Reload(map[string]string{"RUNTIME_TEST_KEY": "from-peer"})

	v, ok := r.Lookup("RUNTIME_TEST_KEY")
	require.True(t, ok)
	assert.Equal(t, "from-peer", v)
}

func TestRuntime_FallsBackToEnvironment(t *testing.T) {
	t.Setenv("RUNTIME_FALLBACK_KEY", "from-env")

	r := NewRuntime()

	v, ok := r.Lookup("RUNTIME_FALLBACK_KEY")
	require.True(t, ok)
	assert.Equal(t, "from-env", v)
}

func TestRuntime_EmptyOverlayValueFallsThrough(t *testing.T) {
	t.Setenv("RUNTIME_EMPTY_KEY", "from-env")

	r := NewRuntime()
	r.Reload(map[string]string{"RUNTIME_EMPTY_KEY": ""})

	v, ok := r.Lookup("RUNTIME_EMPTY_KEY")
	require.True(t, ok)
	assert.Equal(t, "from-env", v)
}

func TestRuntime_ReloadReplacesWholeOverlay(t *testing.T) {
	r := NewRuntime()
	r.Reload(map[string]string{"FIRST": "1", "SECOND": "2"})
	r.Reload(map[string]string{"SECOND": "two"})

	_, ok := r.Lookup("FIRST")
	assert.False(t, ok)

	v, ok := r.Lookup("SECOND")
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestRuntime_ReloadCopiesInput(t *testing.T) {
	values := map[string]string{"KEY": "original"}

	r := NewRuntime()
	r.Reload(values)
	values["KEY"] = "mutated"

	v, _ := r.Lookup("KEY")
	assert.Equal(t, "original", v)
}

func TestRuntime_Missing(t *testing.T) {
	r := NewRuntime()
	r.Reload(map[string]string{"PRESENT": "yes"})

	missing := r.Missing("PRESENT", "ABSENT_ONE", "ABSENT_TWO")
	assert.Equal(t, []string{"ABSENT_ONE", "ABSENT_TWO"}, missing)

	assert.Nil(t, r.Missing("PRESENT"))
}

func TestHasMinimumEntropy(t *testing.T) {
	assert.True(t, hasMinimumEntropy("a-reasonably-varied-secret-4921"))
	assert.False(t, hasMinimumEntropy("short"))
	assert.False(t, hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaa"))
}
