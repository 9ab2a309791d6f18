package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok && v != ""
}

func TestRegistry_GetConfiguredKeys(t *testing.T) {
	r := NewRegistry(mapEnv{
		"TOKEN1": "token-one-material-0123456789ab",
		"TOKEN2": "token-two-material-0123456789ab",
	})

	chain, ok := r.Get("token1", "token2")
	require.True(t, ok)
	require.Len(t, chain, 2)
	assert.Equal(t, "token1", chain[0].Name)
	assert.Equal(t, "token-one-material-0123456789ab", chain[0].Material)
	assert.Equal(t, "HS512", chain[0].Algorithm)
	assert.Equal(t, "token2", chain[1].Name)
}

func TestRegistry_AnyMissingKeyFailsWholeGet(t *testing.T) {
	r := NewRegistry(mapEnv{
		"TOKEN1": "token-one-material-0123456789ab",
	})

	chain, ok := r.Get("token1", "token2")
	assert.False(t, ok)
	assert.Nil(t, chain)
}

func TestRegistry_UnknownName(t *testing.T) {
	r := NewRegistry(mapEnv{"TOKEN1": "token-one-material-0123456789ab"})

	_, ok := r.Get("no_such_key")
	assert.False(t, ok)
}

func TestRegistry_EmptyNames(t *testing.T) {
	r := NewRegistry(mapEnv{})

	_, ok := r.Get()
	assert.False(t, ok)
}

func TestRegistry_ReloadSwapsWholeSet(t *testing.T) {
	r := NewRegistry(mapEnv{"TOKEN1": "token-one-material-0123456789ab"})

	_, ok := r.Get("c_user")
	require.False(t, ok)

	r.Reload(mapEnv{
		"C_USER": "c-user-material-0123456789abcdef",
	})

	_, ok = r.Get("c_user")
	assert.True(t, ok)

	// The old set is gone, not merged.
	_, ok = r.Get("token1")
	assert.False(t, ok)
}

func TestRegistry_EmptyMaterialTreatedAsUnset(t *testing.T) {
	r := NewRegistry(mapEnv{"TOKEN1": ""})

	_, ok := r.Get("token1")
	assert.False(t, ok)
}
