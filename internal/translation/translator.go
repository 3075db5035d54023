package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"codeberg.org/snonux/arkhamtr/internal/glossary"
	"codeberg.org/snonux/arkhamtr/internal/metrics"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-4.1"
	// DefaultMaxRetries is the number of attempts per text
	DefaultMaxRetries = 5
	// DefaultBaseDelay is the delay before the second attempt; it doubles afterwards
	DefaultBaseDelay = 2 * time.Second
	// DefaultSeed pins sampling for backends that support it
	DefaultSeed = 42
)

// Config configures a Translator
type Config struct {
	Model       string
	Target      language.Tag
	Temperature float32
	Seed        int
	MaxRetries  int
	BaseDelay   time.Duration
	Logger      *logrus.Logger
	Metrics     *metrics.Collector
	// Sleep waits between attempts; nil means a context-aware timer
	Sleep func(ctx context.Context, d time.Duration) error
}

// Translator translates card text with retry and backoff around a Backend
type Translator struct {
	backend Backend
	prompts *PromptBuilder
	config  Config
}

// BatchItem is one element of a JSON batch request or response
type BatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NewTranslator creates a translator, filling unset config fields with defaults
func NewTranslator(backend Backend, config Config) *Translator {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Target == language.Und {
		config.Target = language.BrazilianPortuguese
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultBaseDelay
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.Sleep == nil {
		config.Sleep = sleepContext
	}

	return &Translator{
		backend: backend,
		prompts: NewPromptBuilder(config.Target),
		config:  config,
	}
}

// Model returns the model name used for requests and cache keys
func (t *Translator) Model() string {
	return t.config.Model
}

// Translate translates a single text, embedding the glossary in the prompt.
// Blank text is returned unchanged without a request. Transient failures are
// retried with backoff; a permanent one (bad request, auth, unknown model)
// returns a TranslationError after the first attempt.
func (t *Translator) Translate(ctx context.Context, text string, g *glossary.Glossary) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	system, err := t.prompts.System(g.PromptLines())
	if err != nil {
		return "", err
	}

	out, err := t.complete(ctx, Request{
		Model:       t.config.Model,
		System:      system,
		User:        text,
		Temperature: t.config.Temperature,
		Seed:        t.config.Seed,
	})
	if err != nil {
		return "", err
	}

	if missing := MissingTokens(text, out); len(missing) > 0 {
		t.config.Logger.WithFields(logrus.Fields{
			"missing": strings.Join(missing, " "),
		}).Warn("Translation dropped formatting tokens")
	}

	return out, nil
}

// TranslateBatch sends items as one JSON request and returns the raw
// completion. Validating the response is up to the caller.
func (t *Translator) TranslateBatch(ctx context.Context, items []BatchItem, g *glossary.Glossary) (string, error) {
	system, err := t.prompts.Batch(g.PromptLines())
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode batch: %w", err)
	}

	return t.complete(ctx, Request{
		Model:       t.config.Model,
		System:      system,
		User:        string(payload),
		Temperature: t.config.Temperature,
		Seed:        t.config.Seed,
	})
}

// complete calls the backend up to MaxRetries times, sleeping
// BaseDelay * 2^(attempt-1) between attempts.
func (t *Translator) complete(ctx context.Context, req Request) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= t.config.MaxRetries; attempt++ {
		start := time.Now()
		out, err := t.backend.Complete(ctx, req)
		t.config.Metrics.ObserveRequest(t.backend.Name(), err, time.Since(start))

		if err == nil {
			if out = strings.TrimSpace(out); out != "" {
				return out, nil
			}
			err = ErrEmptyResponse
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("translation cancelled: %w", ctxErr)
		}
		if IsPermanent(err) {
			return "", &TranslationError{Attempts: attempt, Err: err}
		}
		if attempt == t.config.MaxRetries {
			break
		}

		delay := t.config.BaseDelay * time.Duration(1<<(attempt-1))
		t.config.Logger.WithFields(logrus.Fields{
			"attempt":  attempt,
			"delay":    delay.String(),
			"provider": t.backend.Name(),
		}).WithError(err).Warn("Translation attempt failed, retrying")
		t.config.Metrics.IncRetry(t.backend.Name())

		if err := t.config.Sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("translation cancelled: %w", err)
		}
	}

	return "", &TranslationError{Attempts: t.config.MaxRetries, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// tokenPattern matches icon tokens like [action] and placeholders like {x}
var tokenPattern = regexp.MustCompile(`\[[^\[\]\s]+\]|\{[^{}\s]*\}`)

// MissingTokens lists icon and placeholder tokens of source absent from translated
func MissingTokens(source, translated string) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(source, -1) {
		if seen[token] {
			continue
		}
		seen[token] = true
		if !strings.Contains(translated, token) {
			missing = append(missing, token)
		}
	}
	return missing
}
