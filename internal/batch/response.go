package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"codeberg.org/snonux/arkhamtr/internal/translation"
)

// ErrInvalidResponse is returned when a batch response breaks the JSON contract
var ErrInvalidResponse = errors.New("invalid batch response")

// decodeResponse parses a JSON array of {"id","text"} objects and returns the
// translations of the requested ids that appear exactly once with non-empty
// text. Any deviation from the contract is reported as ErrInvalidResponse
// alongside the usable subset.
func decodeResponse(raw string, requested []translation.BatchItem) (map[string]string, error) {
	var items []translation.BatchItem
	if err := json.Unmarshal([]byte(stripFence(raw)), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	want := make(map[string]bool, len(requested))
	for _, item := range requested {
		want[item.ID] = true
	}

	seen := make(map[string]int, len(items))
	texts := make(map[string]string, len(items))
	var problems []string

	for _, item := range items {
		if !want[item.ID] {
			problems = append(problems, fmt.Sprintf("unknown id %q", item.ID))
			continue
		}
		seen[item.ID]++
		text := strings.TrimSpace(item.Text)
		if text == "" {
			problems = append(problems, fmt.Sprintf("empty text for id %q", item.ID))
			continue
		}
		texts[item.ID] = text
	}

	result := make(map[string]string, len(texts))
	for _, item := range requested {
		switch n := seen[item.ID]; {
		case n == 0:
			problems = append(problems, fmt.Sprintf("missing id %q", item.ID))
		case n > 1:
			problems = append(problems, fmt.Sprintf("duplicate id %q", item.ID))
		default:
			if text, ok := texts[item.ID]; ok {
				result[item.ID] = text
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return result, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(problems, "; "))
	}
	return result, nil
}

// stripFence removes a surrounding ```json ... ``` code fence
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
