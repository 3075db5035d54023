package cache

import (
	"context"
	"fmt"
	"strings"
)

// ImportItem is a reviewed field translation to write back into the cache
type ImportItem struct {
	Field  string
	Source string
	Target string
}

// Import upserts reviewed translations under model's keys, returning how
// many items were written. Items with a blank source or target are ignored.
func Import(ctx context.Context, s Store, model string, items []ImportItem) (int, error) {
	written := 0
	for _, item := range items {
		if strings.TrimSpace(item.Source) == "" || strings.TrimSpace(item.Target) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		key := Key(model, item.Field, item.Source)
		if err := s.Set(ctx, key, item.Source, item.Target, model); err != nil {
			return written, fmt.Errorf("failed to import %s translation: %w", item.Field, err)
		}
		written++
	}
	return written, nil
}
