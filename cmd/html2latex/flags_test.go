package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-html2latex"
	"github.com/alnah/go-html2latex/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-o", "out", "-w", "4", "-c", "exam", "-v",
		"--markdown", "--encoding", "gbk",
		"--decode-entities", "--keep-space", "--no-standalone",
		"--db-url", "postgres://db/exams", "--db-query", "select 1",
		"exam/",
	}

	f, positional, err := parseConvertFlags(args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &convertFlags{
		common:     commonFlags{config: "exam", verbose: true},
		output:     "out",
		workers:    4,
		input:      inputFlags{markdown: true, encoding: "gbk"},
		conversion: conversionFlags{decodeEntities: true, keepSpace: true},
		document:   documentFlags{noStandalone: true},
		database:   databaseFlags{url: "postgres://db/exams", query: "select 1"},
	}
	if diff := cmp.Diff(want, f, cmp.AllowUnexported(
		convertFlags{}, commonFlags{}, inputFlags{}, conversionFlags{}, documentFlags{}, databaseFlags{},
	)); diff != "" {
		t.Errorf("parseConvertFlags() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"exam/"}, positional); diff != "" {
		t.Errorf("positional mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown flag", []string{"--nope"}, ErrUsage},
		{"bad int", []string{"-w", "many"}, ErrUsage},
		{"standalone conflict", []string{"--standalone", "--no-standalone"}, ErrUsage},
		{"quiet and verbose", []string{"-q", "-v"}, ErrUsage},
		{"help", []string{"--help"}, flag.ErrHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var usage bytes.Buffer
			_, _, err := parseConvertFlags(tt.args, &usage)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - Flags over config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("set flags override", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Workers = 2
		cfg.Database.URL = "postgres://file/db"

		mergeFlags(&convertFlags{
			workers:    8,
			input:      inputFlags{markdown: true, encoding: "big5"},
			conversion: conversionFlags{decodeEntities: true, keepSpace: true},
			document:   documentFlags{noStandalone: true},
			database:   databaseFlags{url: "postgres://flag/db"},
		}, cfg)

		if cfg.Workers != 8 || !cfg.Input.Markdown || cfg.Input.Encoding != "big5" {
			t.Errorf("input/workers not merged: %+v", cfg)
		}
		if !cfg.Conversion.DecodeEntities || !cfg.Conversion.KeepInterTagSpace {
			t.Errorf("conversion not merged: %+v", cfg.Conversion)
		}
		if cfg.Output.Standalone {
			t.Error("--no-standalone should disable standalone output")
		}
		if cfg.Database.URL != "postgres://flag/db" {
			t.Errorf("Database.URL = %q", cfg.Database.URL)
		}
	})

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Workers = 2
		cfg.Conversion.DecodeEntities = true
		cfg.Database.Query = "select 1"

		mergeFlags(&convertFlags{}, cfg)

		if cfg.Workers != 2 || !cfg.Conversion.DecodeEntities || !cfg.Output.Standalone {
			t.Errorf("config changed by empty flags: %+v", cfg)
		}
		if cfg.Database.Query != "select 1" {
			t.Errorf("Database.Query = %q", cfg.Database.Query)
		}
	})
}

// ---------------------------------------------------------------------------
// TestDocumentFor - Standalone wrapper selection
// ---------------------------------------------------------------------------

func TestDocumentFor(t *testing.T) {
	t.Parallel()

	bare := config.DefaultConfig()
	bare.Output.Standalone = false
	if got := documentFor(bare).Render([]string{"x"}); got != "x\n" {
		t.Errorf("bare document = %q, want %q", got, "x\n")
	}

	def := config.DefaultConfig()
	if got, want := documentFor(def).Render([]string{"x"}), html2latex.DefaultDocument().Render([]string{"x"}); got != want {
		t.Errorf("default document = %q, want %q", got, want)
	}

	custom := config.DefaultConfig()
	custom.Document.Trailer = []string{`\bibliography{refs}`, `\end{document}`}
	got := documentFor(custom).Render([]string{"x"})
	if !strings.HasPrefix(got, html2latex.DefaultDocumentClass) || !strings.HasSuffix(got, "x\n\\bibliography{refs}\n\\end{document}\n") {
		t.Errorf("custom trailer document = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Config rules reach the converter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Conversion.Rules = []config.RuleConfig{
		{Tag: "kbd", Kind: "inline", Open: `\texttt{`, Close: "}"},
		{Tag: "blockquote", Kind: "environment", Environment: "quote"},
	}

	conv, err := newConverter(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}

	got, err := conv.Convert(context.Background(), "<blockquote><kbd>x</kbd></blockquote>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `\begin{quote}`) || !strings.Contains(got, `\texttt{x}`) {
		t.Errorf("Convert() = %q", got)
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"postgres://app:secret@db:5432/exams", "postgres://app:xxxxx@db:5432/exams"},
		{"postgres://app@db/exams", "postgres://app@db/exams"},
		{"host=db user=app", "host=db user=app"},
		{"host=db password=s3cret", "host=db password=xxxxx"},
		{"host=db user=app password=s3cret dbname=q", "host=db user=app password=xxxxx dbname=q"},
		{"host=db PASSWORD = 's3 \\'cret' dbname=q", "host=db PASSWORD = xxxxx dbname=q"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, false, false).Info("hidden")
	newLogger(&buf, false, false).Warn("shown")
	newLogger(&buf, true, false).Warn("quiet hides warnings")
	newLogger(&buf, false, true).Debug("verbose shows debug")

	out := buf.String()
	if strings.Contains(out, "hidden") || strings.Contains(out, "quiet hides") {
		t.Errorf("unexpected log lines:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "verbose shows debug") {
		t.Errorf("missing log lines:\n%s", out)
	}
}
