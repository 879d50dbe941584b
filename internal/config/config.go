package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/alnah/go-html2latex/internal/fileutil"
	"github.com/alnah/go-html2latex/internal/latex"
	"github.com/alnah/go-html2latex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// AppName is the directory name used under the user config directory.
const AppName = "go-html2latex"

// Field limits.
const (
	MaxWorkers        = 64
	MaxRules          = 64
	MaxPreambleLines  = 100
	MaxLineLength     = 1024 // one preamble/trailer line or one rule string
	MaxQueryLength    = 8192
	MaxURLLength      = 2048
	MaxEncodingLength = 40
)

var (
	tagNamePattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)
	environmentPattern = regexp.MustCompile(`^[A-Za-z]+\*?$`)
)

func init() {
	// Report field paths with the YAML keys users actually wrote.
	validation.ErrorTag = "yaml"
}

// Config holds all configuration for the CLI.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Conversion ConversionConfig `yaml:"conversion"`
	Document   DocumentConfig   `yaml:"document"`
	Database   DatabaseConfig   `yaml:"database"`
	Workers    int              `yaml:"workers"` // 0 = auto
}

// InputConfig defines how input files are read.
type InputConfig struct {
	Encoding string `yaml:"encoding"` // WHATWG label, e.g. "gbk" (empty = UTF-8)
	Markdown bool   `yaml:"markdown"` // treat every input as Markdown
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Standalone bool   `yaml:"standalone"` // wrap output in a full document
}

// ConversionConfig mirrors the converter options.
type ConversionConfig struct {
	DecodeEntities    bool         `yaml:"decodeEntities"`
	KeepInterTagSpace bool         `yaml:"keepInterTagSpace"`
	Rules             []RuleConfig `yaml:"rules"`
}

// RuleConfig is the YAML form of a conversion rule.
type RuleConfig struct {
	Tag         string `yaml:"tag"`
	Kind        string `yaml:"kind"` // inline, environment or item
	Open        string `yaml:"open,omitempty"`
	Close       string `yaml:"close,omitempty"`
	Environment string `yaml:"environment,omitempty"`
}

// DocumentConfig overrides the standalone document wrapper.
// Empty slices keep the built-in wrapper.
type DocumentConfig struct {
	Preamble []string `yaml:"preamble,omitempty"`
	Trailer  []string `yaml:"trailer,omitempty"`
}

// DatabaseConfig selects the PostgreSQL fragment source.
type DatabaseConfig struct {
	URL   string `yaml:"url,omitempty"` // empty = HTML2LATEX_DB_URL
	Query string `yaml:"query,omitempty"`
}

// Validate checks the whole configuration. Called automatically by
// LoadConfig, but available for callers who construct Config manually.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Input),
		validation.Field(&c.Conversion),
		validation.Field(&c.Document),
		validation.Field(&c.Database),
		validation.Field(&c.Workers, validation.Min(0), validation.Max(MaxWorkers)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// Validate checks the input charset label.
func (i InputConfig) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Encoding,
			validation.Length(0, MaxEncodingLength),
			validation.By(knownEncoding),
		),
	)
}

// Validate checks rule count and every rule.
func (c ConversionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Rules, validation.Length(0, MaxRules)),
	)
}

// Validate checks one rule. Kind-specific fields are required only for the
// kind that uses them.
func (r RuleConfig) Validate() error {
	kind := strings.ToLower(r.Kind)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tag,
			validation.Required,
			validation.Length(1, 32),
			validation.Match(tagNamePattern),
		),
		validation.Field(&r.Kind,
			validation.Required,
			validation.By(func(any) error {
				_, err := latex.ParseKind(r.Kind)
				return err
			}),
		),
		validation.Field(&r.Open,
			validation.Required.When(kind == "inline"),
			validation.Length(0, MaxLineLength),
		),
		validation.Field(&r.Close,
			validation.Required.When(kind == "inline"),
			validation.Length(0, MaxLineLength),
		),
		validation.Field(&r.Environment,
			validation.Required.When(kind == "environment"),
			validation.Match(environmentPattern),
		),
	)
}

// Validate checks the wrapper line counts and lengths.
func (d DocumentConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Preamble,
			validation.Length(0, MaxPreambleLines),
			validation.Each(validation.Length(0, MaxLineLength)),
		),
		validation.Field(&d.Trailer,
			validation.Length(0, MaxPreambleLines),
			validation.Each(validation.Length(0, MaxLineLength)),
		),
	)
}

// Validate checks the database settings.
func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.URL, validation.Length(0, MaxURLLength)),
		validation.Field(&d.Query, validation.Length(0, MaxQueryLength)),
	)
}

// knownEncoding accepts an empty label or any WHATWG encoding label.
func knownEncoding(value any) error {
	label, _ := value.(string)
	if label == "" {
		return nil
	}
	if _, err := htmlindex.Get(label); err != nil {
		return fmt.Errorf("unknown encoding %q", label)
	}
	return nil
}

// ToRules converts the configured rules into converter rules.
// The config must have been validated.
func (c ConversionConfig) ToRules() ([]latex.Rule, error) {
	rules := make([]latex.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		kind, err := latex.ParseKind(rc.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: conversion.rules[%d]: %v", ErrConfigInvalid, i, err)
		}
		rules = append(rules, latex.Rule{
			Tag:         rc.Tag,
			Kind:        kind,
			Open:        rc.Open,
			Close:       rc.Close,
			Environment: rc.Environment,
		})
	}
	return rules, nil
}

// DefaultConfig returns the configuration used when no file is given:
// UTF-8 HTML input, standalone documents, built-in rules only.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Standalone: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yamlutil.Decode(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// current directory, then the user config directory; .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
