package config

import (
	"os"
	"sync/atomic"
)

// Runtime is the overlay of configuration values fetched from the trusted
// peer at bootstrap. Lookups consult the overlay first and fall back to the
// process environment, so locally-set values keep working in development.
//
// Reload replaces the whole overlay through a single atomic pointer swap;
// concurrent readers observe either the previous or the new complete set,
// never a partial mix.
type Runtime struct {
	values atomic.Pointer[map[string]string]
}

func NewRuntime() *Runtime {
	r := &Runtime{}
	empty := map[string]string{}
	r.values.Store(&empty)
	return r
}

// Lookup returns the value for key and whether it is set to a non-empty value.
func (r *Runtime) Lookup(key string) (string, bool) {
	if v, ok := (*r.values.Load())[key]; ok && v != "" {
		return v, true
	}
	if v := os.Getenv(key); v != "" {
		return v, true
	}
	return "", false
}

// Reload swaps in a new overlay wholesale. The map is copied so callers
// cannot mutate the stored set afterwards.
func (r *Runtime) Reload(values map[string]string) {
	next := make(map[string]string, len(values))
	for k, v := range values {
		next[k] = v
	}
	r.values.Store(&next)
}

// Missing reports which of the given keys have no value configured.
func (r *Runtime) Missing(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if _, ok := r.Lookup(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
