package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"codeberg.org/snonux/arkhamtr/internal/cache"
	"codeberg.org/snonux/arkhamtr/internal/glossary"
	"codeberg.org/snonux/arkhamtr/internal/translation"
)

// MockTranslator mocks the translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string

	// BatchResponses are returned by TranslateBatch in order
	BatchResponses []string
	BatchErrors    []error
	BatchCalls     [][]translation.BatchItem
}

// Translate mocks translating text
func (m *MockTranslator) Translate(ctx context.Context, text string, g *glossary.Glossary) (string, error) {
	m.Calls = append(m.Calls, text)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}

	if tr, ok := m.Translations[text]; ok {
		return tr, nil
	}

	// Default mock translation
	return fmt.Sprintf("pt(%s)", text), nil
}

// TranslateBatch mocks a JSON batch request
func (m *MockTranslator) TranslateBatch(ctx context.Context, items []translation.BatchItem, g *glossary.Glossary) (string, error) {
	i := len(m.BatchCalls)
	m.BatchCalls = append(m.BatchCalls, items)

	if i < len(m.BatchErrors) && m.BatchErrors[i] != nil {
		return "", m.BatchErrors[i]
	}
	if i < len(m.BatchResponses) {
		return m.BatchResponses[i], nil
	}
	return "[]", nil
}

// MemoryStore is an in-memory cache.Store
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]cache.Entry
	GetErr  error
	SetErr  error
	Gets    int
	Sets    int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]cache.Entry)}
}

// Get returns the entry for key
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets++
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	e, ok := m.entries[key]
	return e.Target, ok, nil
}

// Set stores the entry for key
func (m *MemoryStore) Set(ctx context.Context, key, source, target, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = cache.Entry{Key: key, Source: source, Target: target, Model: model}
	return nil
}

// Stats counts entries per model
func (m *MemoryStore) Stats(ctx context.Context) (cache.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := cache.Stats{Backend: "memory", ByModel: make(map[string]int)}
	for _, e := range m.entries {
		stats.ByModel[e.Model]++
		stats.Entries++
	}
	return stats, nil
}

// Close does nothing
func (m *MemoryStore) Close() error { return nil }

// Entries returns all entries sorted by key
func (m *MemoryStore) Entries() []cache.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]cache.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
