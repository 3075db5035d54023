package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "info"},
		{"LogFormat", flags.LogFormat, "text"},
		{"Lang", flags.Lang, "en"},
		{"Provider", flags.Provider, "openai"},
		{"Model", flags.Model, "gpt-4.1"},
		{"Target", flags.Target, "pt-BR"},
		{"Rate", flags.Rate, 30.0},
		{"MaxRetries", flags.MaxRetries, 5},
		{"RetryDelay", flags.RetryDelay, 2 * time.Second},
		{"Fields", flags.Fields, []string{"name", "subname", "text", "flavor", "traits"}},
		{"CacheDSN", flags.CacheDSN, ".cache.sqlite"},
		{"GlossaryPath", flags.GlossaryPath, "glossary.json"},
		{"GlossaryMode", flags.GlossaryMode, "prompt"},
		{"OutputDir", flags.OutputDir, "out"},
		{"ConvertOutput", flags.ConvertOutput, "out/output.csv"},
		{"BatchSize", flags.BatchSize, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"BaseURL", flags.BaseURL},
		{"MetricsFile", flags.MetricsFile},
		{"Root", flags.Root},
		{"ConvertSource", flags.ConvertSource},
		{"BatchInput", flags.BatchInput},
		{"BatchOutput", flags.BatchOutput},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %q, want empty string", tt.name, tt.value)
			}
		})
	}

	if flags.DryRun {
		t.Error("DryRun should default to false")
	}
}

func TestNewFlagsFieldsAreCopied(t *testing.T) {
	a := NewFlags()
	a.Fields[0] = "changed"

	b := NewFlags()
	if b.Fields[0] != "name" {
		t.Errorf("NewFlags shares the default field list: got %q", b.Fields[0])
	}
}
