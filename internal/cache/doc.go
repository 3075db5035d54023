// Package cache provides the persistent translation cache. Entries are keyed
// by the SHA-1 of model, field and source text, so a given key always maps to
// the same translation once written. Two backends are available: a local
// SQLite file (default) and PostgreSQL for caches shared between machines.
package cache
