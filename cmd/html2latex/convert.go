package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/alnah/go-html2latex"
	"github.com/alnah/go-html2latex/internal/config"
	"github.com/alnah/go-html2latex/internal/fileutil"
	"github.com/alnah/go-html2latex/internal/hints"
	"github.com/alnah/go-html2latex/internal/source"
	"github.com/alnah/go-html2latex/internal/yamlutil"
)

// runConvert loads the fragments, converts them and writes the LaTeX.
// Returns an error wrapping the first failure when any fragment failed.
func runConvert(ctx context.Context, positional []string, flags *convertFlags, env *Environment) error {
	start := env.Now()
	logger := env.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}

	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}

	conv, err := newConverter(cfg, logger)
	if err != nil {
		return err
	}

	in, err := loadInput(ctx, positional, cfg, env)
	if err != nil {
		return err
	}
	logger.Debug("fragments loaded", "count", len(in.fragments))

	results := conv.ConvertAll(ctx, in.fragments)

	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	doc := documentFor(cfg)

	var converted []ConversionResult
	status := env.Stdout
	switch {
	case writesToStdout(in.kind, output):
		// stdout carries the LaTeX: keep status lines off it.
		status = env.Stderr
		converted, err = writeMerged(results, "", doc, env.Stdout)
	case isMergedOutput(output):
		converted, err = writeMerged(results, output, doc, env.Stdout)
	default:
		var paths []string
		paths, err = planOutputs(in, output)
		if err == nil {
			converted = writeEach(results, paths, doc)
		}
	}
	if err != nil {
		return err
	}

	failed := printResults(converted, flags.common.quiet, flags.common.verbose, status, env.Stderr)
	logger.Info("conversion finished",
		"fragments", len(converted),
		"failed", failed,
		"elapsed", env.Now().Sub(start))

	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(converted))
	}
	return nil
}

// loadConfig resolves the config file from --config, then HTML2LATEX_CONFIG.
// No name at all means DefaultConfig.
func loadConfig(name string, envCfg *envConfig) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies CLI flags on top of the config.
// Only flags that were set override config values.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.workers > 0 {
		cfg.Workers = f.workers
	}

	// Input
	if f.input.markdown {
		cfg.Input.Markdown = true
	}
	if f.input.encoding != "" {
		cfg.Input.Encoding = f.input.encoding
	}

	// Conversion
	if f.conversion.decodeEntities {
		cfg.Conversion.DecodeEntities = true
	}
	if f.conversion.keepSpace {
		cfg.Conversion.KeepInterTagSpace = true
	}

	// Document
	if f.document.standalone {
		cfg.Output.Standalone = true
	}
	if f.document.noStandalone {
		cfg.Output.Standalone = false
	}

	// Database
	if f.database.url != "" {
		cfg.Database.URL = f.database.url
	}
	if f.database.query != "" {
		cfg.Database.Query = f.database.query
	}
}

// newConverter builds the library converter from the merged config.
func newConverter(cfg *config.Config, logger *slog.Logger) (*html2latex.Converter, error) {
	rules, err := cfg.Conversion.ToRules()
	if err != nil {
		return nil, err
	}
	return html2latex.NewConverter(
		html2latex.WithDecodeEntities(cfg.Conversion.DecodeEntities),
		html2latex.WithKeepInterTagSpace(cfg.Conversion.KeepInterTagSpace),
		html2latex.WithRules(rules...),
		html2latex.WithWorkers(cfg.Workers),
		html2latex.WithLogger(logger),
	)
}

// loadInput reads the fragments from stdin ("-"), a file or directory, or
// the configured database, in that order of precedence.
func loadInput(ctx context.Context, positional []string, cfg *config.Config, env *Environment) (*inputSet, error) {
	format := html2latex.FormatHTML
	if cfg.Input.Markdown {
		format = html2latex.FormatMarkdown
	}

	if len(positional) == 0 {
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("%w: pass a file, a directory, - for stdin, or --db-url%s",
				ErrNoInput, hints.ForDatabase(""))
		}
		fragments, err := env.Database(ctx, cfg.Database.URL, cfg.Database.Query, format)
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForDatabase(cfg.Database.URL))
		}
		return &inputSet{fragments: fragments, kind: sourceDatabase}, nil
	}

	reader, err := source.NewReader(cfg.Input.Encoding, cfg.Input.Markdown)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForUnknownEncoding())
	}

	root := positional[0]
	if root == "-" {
		f, err := reader.Read(stdinID, env.Stdin, format)
		if err != nil {
			return nil, err
		}
		return &inputSet{fragments: []html2latex.Fragment{f}, kind: sourceStdin}, nil
	}

	paths, err := source.Discover(root)
	if err != nil {
		return nil, err
	}
	fragments, err := reader.ReadFiles(paths)
	if err != nil {
		return nil, err
	}

	in := &inputSet{fragments: fragments, kind: sourceFiles}
	if len(paths) != 1 || paths[0] != root {
		in.baseDir = root
	}
	return in, nil
}

// documentFor returns the wrapper applied to written output: the configured
// standalone document, or an empty one that writes bare bodies.
func documentFor(cfg *config.Config) *html2latex.Document {
	if !cfg.Output.Standalone {
		return &html2latex.Document{}
	}
	doc := html2latex.DefaultDocument()
	if len(cfg.Document.Preamble) > 0 {
		doc.Preamble = cfg.Document.Preamble
	}
	if len(cfg.Document.Trailer) > 0 {
		doc.Trailer = cfg.Document.Trailer
	}
	return doc
}

// runConfigCmd prints the configuration convert would use, before flags.
func runConfigCmd(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	cfg.Database.URL = redactURL(cfg.Database.URL)

	return yamlutil.Encode(env.Stdout, cfg)
}

// dsnPassword matches the password of a keyword/value connection string,
// quoted ('s3 cret', with \' escapes) or bare.
var dsnPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|[^\s']\S*)`)

// redactURL hides the password of a connection string in either URL
// or keyword/value form.
func redactURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		if u.User == nil {
			return raw
		}
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(raw, "${1}xxxxx")
}
