// Package processor contains the core translation pipeline. It walks card
// files one at a time, resolves every translatable field through the cache
// or the translation backend, applies the glossary post-pass and writes the
// translated JSON together with an audit CSV. The Resolver is shared with the
// CSV batch translator so both paths use the same cache keys and glossary.
package processor
