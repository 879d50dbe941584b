package yamlutil_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-html2latex/internal/yamlutil"
)

type testRule struct {
	Tag  string `yaml:"tag"`
	Kind string `yaml:"kind"`
}

type testConfig struct {
	Workers int        `yaml:"workers"`
	Rules   []testRule `yaml:"rules"`
}

// ---------------------------------------------------------------------------
// TestDecode - Parses YAML and rejects unknown fields
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name:  "valid YAML",
			input: "workers: 3\nrules:\n  - tag: sup\n    kind: inline\n",
			dest:  &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Workers != 3 {
					t.Errorf("Workers = %d, want 3", cfg.Workers)
				}
				if len(cfg.Rules) != 1 || cfg.Rules[0].Tag != "sup" {
					t.Errorf("Rules = %+v, want one sup rule", cfg.Rules)
				}
			},
		},
		{
			name:    "unknown field",
			input:   "workers: 3\nwokers: 4\n",
			dest:    &testConfig{},
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "invalid syntax",
			input:   "rules: [unclosed",
			dest:    &testConfig{},
			wantErr: errors.New("yamlutil:"),
		},
		{
			name:    "empty input",
			input:   "",
			dest:    &testConfig{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "whitespace only",
			input:   "\n  \n",
			dest:    &testConfig{},
			wantErr: yamlutil.ErrEmptyInput,
		},
		{
			name:    "nil destination",
			input:   "workers: 1",
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Decode(strings.NewReader(tt.input), tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEncode - Serializes Go structs to YAML
// ---------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := testConfig{Workers: 2, Rules: []testRule{{Tag: "sup", Kind: "inline"}}}
	if err := yamlutil.Encode(&buf, cfg); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"workers: 2", "tag: sup", "kind: inline"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}

	var decoded testConfig
	if err := yamlutil.Decode(&buf, &decoded); err != nil {
		t.Fatalf("Decode(Encode()) error: %v", err)
	}
	if decoded.Workers != 2 || len(decoded.Rules) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	err := yamlutil.Decode(strings.NewReader("workers: [1"), &testConfig{})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := yamlutil.FormatError(err); got == "" {
		t.Error("FormatError returned empty string")
	}

	plain := errors.New("plain")
	if got := yamlutil.FormatError(plain); got != "plain" {
		t.Errorf("FormatError(plain) = %q, want %q", got, "plain")
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - Verifies MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Note: This test modifies the global MaxInputSize variable, so it cannot
// run in parallel with other tests to avoid data races.

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	padded := func(n int) string {
		s := "workers: 1\n"
		return s + strings.Repeat(" ", n-len(s))
	}

	t.Run("input at limit succeeds", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		var cfg testConfig
		if err := yamlutil.Decode(strings.NewReader(padded(100)), &cfg); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		var cfg testConfig
		err := yamlutil.Decode(strings.NewReader(padded(101)), &cfg)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})
}
