// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/hash"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(strings.ToLower(filename)) {
			return p
		}
	}
	return nil
}

// 📊 Report configures the manifest and the console listing.
type Report struct {
	Path    string `json:"path,omitempty" yaml:"path,omitempty" hcl:"path,optional"`
	Console *bool  `json:"console,omitempty" yaml:"console,omitempty" hcl:"console,optional"`
}

// 📚 Config represents the complete configuration of a run
type Config struct {
	Source         string   `json:"source" yaml:"source" hcl:"source,optional"`
	Destination    string   `json:"destination,omitempty" yaml:"destination,omitempty" hcl:"destination,optional"`
	Pattern        string   `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
	Exclude        []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Hash           string   `json:"hash,omitempty" yaml:"hash,omitempty" hcl:"hash,optional"`
	FilenameLayout string   `json:"filename_layout,omitempty" yaml:"filename_layout,omitempty" hcl:"filename_layout,optional"`
	UTC            bool     `json:"utc,omitempty" yaml:"utc,omitempty" hcl:"utc,optional"`
	Report         *Report  `json:"report,omitempty" yaml:"report,omitempty" hcl:"report,block"`

	location string
}

// Option overrides a loaded value, typically from a command line flag.
type Option func(*Config)

func WithSource(s string) Option      { return func(c *Config) { c.Source = s } }
func WithDestination(s string) Option { return func(c *Config) { c.Destination = s } }
func WithPattern(s string) Option     { return func(c *Config) { c.Pattern = s } }
func WithHash(s string) Option        { return func(c *Config) { c.Hash = s } }

func WithReportPath(s string) Option {
	return func(c *Config) {
		if c.Report == nil {
			c.Report = &Report{}
		}
		c.Report.Path = s
	}
}

// 🎯 Load loads the configuration from a file, applies opts and validates
func Load(ctx context.Context, path string, opts ...Option) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	cfg.location = abs
	cfg.Source = cfg.relative(cfg.Source)
	cfg.Destination = cfg.relative(cfg.Destination)
	if cfg.Report != nil {
		cfg.Report.Path = cfg.relative(cfg.Report.Path)
	}

	return finish(cfg, opts)
}

// New builds a configuration from opts alone, for runs without a file.
func New(opts ...Option) (*Config, error) {
	return finish(&Config{}, opts)
}

func finish(cfg *Config, opts []Option) (*Config, error) {
	for _, o := range opts {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// relative resolves p against the directory of the config file.
func (cfg *Config) relative(p string) string {
	if p == "" || filepath.IsAbs(p) || cfg.location == "" {
		return p
	}
	return filepath.Join(filepath.Dir(cfg.location), p)
}

// 🔍 Validate checks the configuration and fills defaults
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		return errors.New("source is required")
	}

	if cfg.Destination == "" {
		cfg.Destination = "."
		if cfg.location != "" {
			cfg.Destination = filepath.Dir(cfg.location)
		}
	}

	var err error
	if cfg.Source, err = filepath.Abs(cfg.Source); err != nil {
		return errors.Errorf("resolving source: %w", err)
	}
	if cfg.Destination, err = filepath.Abs(cfg.Destination); err != nil {
		return errors.Errorf("resolving destination: %w", err)
	}
	if cfg.Source == cfg.Destination {
		return errors.Errorf("source and destination are the same directory: %s", cfg.Source)
	}

	if _, err := regexp.Compile("(?i)" + cfg.Pattern); err != nil {
		return errors.Errorf("invalid pattern %q: %w", cfg.Pattern, err)
	}
	for _, g := range cfg.Exclude {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("invalid exclude pattern %q", g)
		}
	}
	if _, err := hash.ParseAlgorithm(cfg.Hash); err != nil {
		return err
	}
	if strings.ContainsAny(cfg.FilenameLayout, `/\`) {
		return errors.Errorf("filename_layout must not contain path separators: %q", cfg.FilenameLayout)
	}

	if cfg.Report == nil {
		cfg.Report = &Report{}
	}
	if cfg.Report.Path != "" {
		if cfg.Report.Path, err = filepath.Abs(cfg.Report.Path); err != nil {
			return errors.Errorf("resolving report path: %w", err)
		}
	}
	return nil
}

// Algorithm is the configured content hash.
func (cfg *Config) Algorithm() hash.Algorithm {
	algo, _ := hash.ParseAlgorithm(cfg.Hash)
	return algo
}

// Location is the zone destination names are rendered in.
func (cfg *Config) Location() *time.Location {
	if cfg.UTC {
		return time.UTC
	}
	return time.Local
}

// Console reports whether outcome lines should be printed.
func (cfg *Config) Console() bool {
	return cfg.Report == nil || cfg.Report.Console == nil || *cfg.Report.Console
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "*"
	}
	return fmt.Sprintf("%s -> %s (pattern %s, %s)", cfg.Source, cfg.Destination, pattern, cfg.Algorithm())
}
