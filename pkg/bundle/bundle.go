// Package bundle holds the small key/value state a screen saves so it can be
// restored after a restart.
package bundle

import (
	"encoding/json"
	"sort"
	"sync"
)

// Bundle is a concurrency-safe key/value store. Values are kept JSON encoded so
// a bundle survives a round trip through persistent storage unchanged.
type Bundle struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func New() *Bundle {
	return &Bundle{values: map[string]json.RawMessage{}}
}

func (b *Bundle) put(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.values[key] = raw
	b.mu.Unlock()
}

func (b *Bundle) get(key string, v any) bool {
	b.mu.RLock()
	raw, ok := b.values[key]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (b *Bundle) PutInt64s(key string, values []int64) {
	if values == nil {
		values = []int64{}
	}
	b.put(key, values)
}

// Int64s returns the slice stored under key. ok is false when the key is
// missing or holds a value of another type.
func (b *Bundle) Int64s(key string) (values []int64, ok bool) {
	ok = b.get(key, &values)
	return values, ok
}

func (b *Bundle) PutInt64(key string, value int64) {
	b.put(key, value)
}

// Int64 returns the value stored under key, or def.
func (b *Bundle) Int64(key string, def int64) int64 {
	var v int64
	if !b.get(key, &v) {
		return def
	}
	return v
}

func (b *Bundle) PutString(key, value string) {
	b.put(key, value)
}

func (b *Bundle) String(key string) (string, bool) {
	var v string
	ok := b.get(key, &v)
	return v, ok
}

func (b *Bundle) Remove(key string) {
	b.mu.Lock()
	delete(b.values, key)
	b.mu.Unlock()
}

func (b *Bundle) Contains(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.values[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (b *Bundle) Keys() []string {
	b.mu.RLock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	b.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the encoded values.
func (b *Bundle) Snapshot() map[string]json.RawMessage {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(b.values))
	for k, v := range b.values {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Restore replaces the bundle's contents with values.
func (b *Bundle) Restore(values map[string]json.RawMessage) {
	fresh := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		fresh[k] = append(json.RawMessage(nil), v...)
	}
	b.mu.Lock()
	b.values = fresh
	b.mu.Unlock()
}
