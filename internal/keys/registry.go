package keys

import (
	"sync/atomic"
)

// SecretKey is one named piece of secret material. Immutable once loaded;
// the whole set is replaced on reload, never patched in place.
type SecretKey struct {
	Name      string
	Material  string
	Algorithm string
}

// Lookup resolves configuration values by name. *config.Runtime satisfies it.
type Lookup interface {
	Lookup(key string) (string, bool)
}

type keyConfig struct {
	name      string
	envKey    string
	algorithm string
}

const algorithmHS512 = "HS512"

// Key names mirror the issuing service's catalogue. Keys whose material is
// not configured are simply absent from the registry; Get reports them as
// missing rather than failing.
var keyConfigs = []keyConfig{
	{name: "authorization_key", envKey: "AUTHORIZATION_KEY", algorithm: algorithmHS512},
	{name: "token1", envKey: "TOKEN1", algorithm: algorithmHS512},
	{name: "token2", envKey: "TOKEN2", algorithm: algorithmHS512},
	{name: "file_token", envKey: "FILE_TOKEN", algorithm: algorithmHS512},
	{name: "temp_token", envKey: "TEMP_TOKEN", algorithm: algorithmHS512},
	{name: "session_id", envKey: "SESSION_ID", algorithm: algorithmHS512},
	{name: "video_token", envKey: "VIDEO_TOKEN", algorithm: algorithmHS512},
	{name: "c_user", envKey: "C_USER", algorithm: algorithmHS512},
	{name: "server_auth", envKey: "SERVER_AUTH", algorithm: algorithmHS512},
	{name: "server_to_server_key", envKey: "SERVER_TO_SERVER_KEY", algorithm: algorithmHS512},
	{name: "server_to_server_key_1", envKey: "SERVER_TO_SERVER_KEY_1", algorithm: algorithmHS512},
	{name: "server_to_server_key_2", envKey: "SERVER_TO_SERVER_KEY_2", algorithm: algorithmHS512},
}

// Registry caches named secret keys resolved from configuration. Reload
// swaps the entire cached set atomically so concurrent readers never see a
// torn mix of old and new material.
type Registry struct {
	keys atomic.Pointer[map[string]SecretKey]
}

func NewRegistry(env Lookup) *Registry {
	r := &Registry{}
	r.Reload(env)
	return r
}

// Get returns the keys for the given names in order. The second return is
// false when any requested name has no configured material; callers must
// treat that as "cannot authenticate", not as a crash.
func (r *Registry) Get(names ...string) ([]SecretKey, bool) {
	if len(names) == 0 {
		return nil, false
	}

	set := *r.keys.Load()
	out := make([]SecretKey, 0, len(names))
	for _, name := range names {
		key, ok := set[name]
		if !ok {
			return nil, false
		}
		out = append(out, key)
	}
	return out, true
}

// Reload rebuilds the key set from the given configuration source and swaps
// it in wholesale. Safe to call concurrently with in-flight Get calls.
func (r *Registry) Reload(env Lookup) {
	next := make(map[string]SecretKey, len(keyConfigs))
	for _, cfg := range keyConfigs {
		material, ok := env.Lookup(cfg.envKey)
		if !ok {
			continue
		}
		next[cfg.name] = SecretKey{
			Name:      cfg.name,
			Material:  material,
			Algorithm: cfg.algorithm,
		}
	}
	r.keys.Store(&next)
}
