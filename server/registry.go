package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/hupe1980/lloyd"
)

// sessionParams are the request fields that identify a step session.
// A session is replaced when any of them changes.
type sessionParams struct {
	K             int
	Strategy      lloyd.Strategy
	MaxIterations int
}

// entry is a registered session. mu serializes Step calls.
type entry struct {
	mu      sync.Mutex
	session *lloyd.Session
	params  sessionParams
}

// Registry holds step sessions keyed by id. Entries expire after ttl without
// access.
type Registry struct {
	mu    sync.Mutex
	cache *cache.Cache
	newID func() string
}

// NewRegistry creates a registry. Expired entries are purged every
// cleanupInterval; zero disables the janitor and entries are dropped lazily.
func NewRegistry(ttl, cleanupInterval time.Duration) *Registry {
	return &Registry{
		cache: cache.New(ttl, cleanupInterval),
		newID: uuid.NewString,
	}
}

// Acquire returns the session registered under id when its parameters match
// p. An empty or unknown id registers a new session under a fresh id; a known
// id with different parameters is re-registered with a new session under the
// same id. build is only called when a session is created.
func (r *Registry) Acquire(id string, p sessionParams, build func(id string) (*lloyd.Session, error)) (*entry, string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if v, ok := r.cache.Get(id); ok {
			if e := v.(*entry); e.params == p {
				r.cache.SetDefault(id, e)
				return e, id, false, nil
			}
		} else {
			id = ""
		}
	}
	if id == "" {
		id = r.newID()
	}

	sess, err := build(id)
	if err != nil {
		return nil, "", false, err
	}

	e := &entry{session: sess, params: p}
	r.cache.SetDefault(id, e)
	return e, id, true, nil
}

// Get returns the session registered under id and refreshes its expiry.
func (r *Registry) Get(id string) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	r.cache.SetDefault(id, v)
	return v.(*entry), true
}

// Delete removes id and reports whether it was registered.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cache.Get(id); !ok {
		return false
	}
	r.cache.Delete(id)
	return true
}

// Len returns the number of registered sessions, including expired entries
// not yet purged.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
