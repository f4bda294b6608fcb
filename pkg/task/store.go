package task

import (
	"sort"
	"sync"

	"github.com/huandu/go-clone"
)

// Store holds the values a task publishes to the tasks that follow or depend on it. Scalars and lists
// live in separate namespaces: a key may exist as a scalar, as a list, as both, or not at all, and no
// read ever falls back from one namespace to the other.
type Store struct {
	mu      sync.RWMutex
	scalars map[string]string
	lists   map[string][]string
}

// StoreSnapshot is a deep copy of a store's contents.
type StoreSnapshot struct {
	Scalars map[string]string   `json:"scalars"`
	Lists   map[string][]string `json:"lists"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		scalars: make(map[string]string),
		lists:   make(map[string][]string),
	}
}

// Set sets a scalar value, overwriting any previous one.
func (store *Store) Set(key, value string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.scalars[key] = value
}

// Lookup returns the scalar value and whether it was set.
func (store *Store) Lookup(key string) (string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	val, ok := store.scalars[key]

	return val, ok
}

// Push appends values to the list under key, creating the list if needed.
func (store *Store) Push(key string, values ...string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	list, ok := store.lists[key]
	if !ok {
		list = []string{}
	}

	store.lists[key] = append(list, values...)
}

// LookupList returns a copy of the list under key and whether it exists.
func (store *Store) LookupList(key string) ([]string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	list, ok := store.lists[key]
	if !ok {
		return nil, false
	}

	return append([]string{}, list...), true
}

// EnsureList creates an empty list under key if none exists.
func (store *Store) EnsureList(key string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.lists[key]; !ok {
		store.lists[key] = []string{}
	}
}

// Has returns true if a scalar is set under key.
func (store *Store) Has(key string) bool {
	_, ok := store.Lookup(key)
	return ok
}

// HasList returns true if a list exists under key, even an empty one.
func (store *Store) HasList(key string) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()

	_, ok := store.lists[key]

	return ok
}

// Keys returns the sorted scalar keys.
func (store *Store) Keys() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return sortedKeys(store.scalars)
}

// ListKeys returns the sorted list keys.
func (store *Store) ListKeys() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return sortedKeys(store.lists)
}

// Snapshot returns a deep copy of the store contents.
func (store *Store) Snapshot() StoreSnapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()

	return StoreSnapshot{
		Scalars: clone.Clone(store.scalars).(map[string]string),
		Lists:   clone.Clone(store.lists).(map[string][]string),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
