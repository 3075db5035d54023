package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/arkhamtr/internal/translation"
)

func TestDecodeResponse(t *testing.T) {
	requested := []translation.BatchItem{
		{ID: "1:name", Text: "Roland"},
		{ID: "1:text", Text: "Draw 1 card."},
	}

	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `[{"id":"1:name","text":"Roland"},{"id":"1:text","text":"Compre 1 carta."}]`,
			want: map[string]string{"1:name": "Roland", "1:text": "Compre 1 carta."},
		},
		{
			name: "code fence",
			raw:  "```json\n[{\"id\":\"1:name\",\"text\":\"Roland\"},{\"id\":\"1:text\",\"text\":\"Compre 1 carta.\"}]\n```",
			want: map[string]string{"1:name": "Roland", "1:text": "Compre 1 carta."},
		},
		{
			name:    "missing id",
			raw:     `[{"id":"1:name","text":"Roland"}]`,
			want:    map[string]string{"1:name": "Roland"},
			wantErr: true,
		},
		{
			name:    "duplicate id",
			raw:     `[{"id":"1:name","text":"A"},{"id":"1:name","text":"B"},{"id":"1:text","text":"C"}]`,
			want:    map[string]string{"1:text": "C"},
			wantErr: true,
		},
		{
			name:    "empty text",
			raw:     `[{"id":"1:name","text":"  "},{"id":"1:text","text":"C"}]`,
			want:    map[string]string{"1:text": "C"},
			wantErr: true,
		},
		{
			name:    "unknown id",
			raw:     `[{"id":"1:name","text":"A"},{"id":"1:text","text":"B"},{"id":"9:x","text":"C"}]`,
			want:    map[string]string{"1:name": "A", "1:text": "B"},
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     "Sure! Here are your translations.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeResponse(tt.raw, requested)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidResponse)
			} else {
				require.NoError(t, err)
			}
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
