// Package testutil provides testing utilities.
package testutil

import (
	"sync"
)

// FakeKV is an in-memory store.KV that records every write.
type FakeKV struct {
	mu     sync.Mutex
	values map[string]string
	saves  []Save

	// Error injection for testing
	LoadErr  error
	SaveErr  error
	CloseErr error
}

// Save is one recorded write.
type Save struct {
	Key   string
	Value string
}

// NewFakeKV creates an empty FakeKV.
func NewFakeKV() *FakeKV {
	return &FakeKV{values: make(map[string]string)}
}

// Seed stores a value without recording it as a write.
func (f *FakeKV) Seed(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Load implements store.KV.
func (f *FakeKV) Load(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoadErr != nil {
		return "", false, f.LoadErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

// Save implements store.KV. A failed save is recorded but leaves the stored
// value untouched.
func (f *FakeKV) Save(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, Save{Key: key, Value: value})
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.values[key] = value
	return nil
}

// Close implements store.KV.
func (f *FakeKV) Close() error { return f.CloseErr }

// Saves returns all writes attempted so far.
func (f *FakeKV) Saves() []Save {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Save(nil), f.saves...)
}

// Value returns the stored value for key.
func (f *FakeKV) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}
