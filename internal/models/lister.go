package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is returned when listing without an API key
var ErrMissingAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .arkhamtr.yaml")

// modelClient is the part of the OpenAI client the lister needs
type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client modelClient
}

// NewLister creates a new model lister. An empty baseURL uses the OpenAI API.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categories groups model IDs by use
type Categories struct {
	Chat      []string
	Reasoning []string
}

// Categorize sorts model IDs into chat and reasoning models. Audio, image
// and embedding models are dropped since they cannot translate text.
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"), strings.Contains(id, "audio"),
			strings.Contains(id, "realtime"), strings.Contains(id, "transcribe"),
			strings.Contains(id, "dall-e"), strings.Contains(id, "image"),
			strings.Contains(id, "embedding"), strings.Contains(id, "whisper"):
			continue
		case isReasoningModel(id):
			c.Reasoning = append(c.Reasoning, id)
		case strings.Contains(id, "gpt"), strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	sort.Strings(c.Chat)
	sort.Strings(c.Reasoning)
	return c
}

func isReasoningModel(id string) bool {
	for _, prefix := range []string{"o1", "o3", "o4"} {
		if id == prefix || strings.HasPrefix(id, prefix+"-") {
			return true
		}
	}
	return false
}

// ListAvailableModels writes the chat and reasoning models to out
func (l *Lister) ListAvailableModels(ctx context.Context, out io.Writer) error {
	if l.apiKey == "" {
		return ErrMissingAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	c := Categorize(ids)

	fmt.Fprintln(out, "Available OpenAI Models:")
	printSection(out, "Chat/Translation Models:", c.Chat)
	printSection(out, "Reasoning Models (slower, usable with --model):", c.Reasoning)

	return nil
}

func printSection(out io.Writer, title string, ids []string) {
	fmt.Fprintf(out, "\n%s\n", title)
	if len(ids) == 0 {
		fmt.Fprintln(out, "  No models found")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(out, "  %s\n", id)
	}
}
