package processor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/arkhamtr/internal/cache"
	"codeberg.org/snonux/arkhamtr/internal/glossary"
	"codeberg.org/snonux/arkhamtr/internal/metrics"
)

// Translator translates one text, embedding the glossary in its request
type Translator interface {
	Translate(ctx context.Context, text string, g *glossary.Glossary) (string, error)
}

// ResolverConfig configures a Resolver
type ResolverConfig struct {
	// Model names the cache namespace, normally the backend model
	Model string
	// Mask replaces glossary terms with placeholder tokens before translation
	Mask    bool
	Pacer   *Pacer
	Logger  *logrus.Logger
	Metrics *metrics.Collector
}

// Resolver turns a (field, source text) pair into a translation: a cache
// hit when possible, otherwise a paced backend call whose result is
// post-processed with the glossary and cached.
type Resolver struct {
	store      cache.Store
	translator Translator
	glossary   *glossary.Glossary
	config     ResolverConfig
}

// NewResolver creates a resolver
func NewResolver(store cache.Store, translator Translator, g *glossary.Glossary, config ResolverConfig) *Resolver {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &Resolver{
		store:      store,
		translator: translator,
		glossary:   g,
		config:     config,
	}
}

// Glossary returns the glossary used for prompts and post-substitution
func (r *Resolver) Glossary() *glossary.Glossary {
	return r.glossary
}

// Pacer returns the pacer guarding backend calls (may be nil)
func (r *Resolver) Pacer() *Pacer {
	return r.config.Pacer
}

// Lookup returns the cached translation of source for field
func (r *Resolver) Lookup(ctx context.Context, field, source string) (string, bool, error) {
	key := cache.Key(r.config.Model, field, source)

	target, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	ok = ok && target != ""
	r.config.Metrics.CacheLookup(ok)

	return target, ok, nil
}

// Prepare masks glossary terms in source when masking is enabled. The
// returned function restores the masked terms in a translation.
func (r *Resolver) Prepare(source string) (string, func(string) string) {
	if !r.config.Mask {
		return source, func(s string) string { return s }
	}
	return r.glossary.Protect(source)
}

// Commit applies the glossary post-pass to a fresh translation, caches it
// and returns the final text.
func (r *Resolver) Commit(ctx context.Context, field, source, translated string) (string, error) {
	final := r.glossary.Apply(translated)

	key := cache.Key(r.config.Model, field, source)
	if err := r.store.Set(ctx, key, source, final, r.config.Model); err != nil {
		return "", fmt.Errorf("failed to cache translation: %w", err)
	}
	return final, nil
}

// Translate resolves source through the backend, bypassing the cache lookup
func (r *Resolver) Translate(ctx context.Context, field, source string) (string, error) {
	if err := r.config.Pacer.Wait(ctx); err != nil {
		return "", err
	}

	masked, restore := r.Prepare(source)
	translated, err := r.translator.Translate(ctx, masked, r.glossary)
	if err != nil {
		return "", err
	}

	return r.Commit(ctx, field, source, restore(translated))
}

// Resolve returns the translation of source for field and whether it came
// from the cache
func (r *Resolver) Resolve(ctx context.Context, field, source string) (string, bool, error) {
	if target, ok, err := r.Lookup(ctx, field, source); err != nil {
		return "", false, err
	} else if ok {
		return target, true, nil
	}

	target, err := r.Translate(ctx, field, source)
	if err != nil {
		return "", false, err
	}
	return target, false, nil
}
