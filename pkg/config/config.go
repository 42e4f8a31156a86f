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
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

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
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Defaults applied by Validate to unset fields.
const (
	DefaultListen          = ":8080"
	DefaultLogFormat       = "console"
	DefaultSourceCheck     = "legacy"
	DefaultRetryStrategy   = "none"
	DefaultMaxTries        = 3
	DefaultInitialInterval = 200 * time.Millisecond
	DefaultMaxInterval     = 2 * time.Second
)

// 📝 LogConfig selects the log output
type LogConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // console | json
}

// 🌐 APIConfig configures the HTTP surface
type APIConfig struct {
	Listen      string `json:"listen,omitempty" yaml:"listen,omitempty"`
	SourceCheck string `json:"source_check,omitempty" yaml:"source_check,omitempty"` // legacy | strict

	// RequestTimeout bounds each HTTP request, upstream calls included.
	// Empty or 0 leaves requests unbounded.
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
}

// 🔁 RetryConfig is the policy around listing and lookup calls
type RetryConfig struct {
	Strategy        string `json:"strategy,omitempty" yaml:"strategy,omitempty"` // none | exponential
	MaxTries        uint   `json:"max_tries,omitempty" yaml:"max_tries,omitempty"`
	InitialInterval string `json:"initial_interval,omitempty" yaml:"initial_interval,omitempty"`
	MaxInterval     string `json:"max_interval,omitempty" yaml:"max_interval,omitempty"`
}

// 🔐 OAuthConfig holds the OAuth application of an authorized source
type OAuthConfig struct {
	ClientID     string   `json:"client_id" yaml:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectURL  string   `json:"redirect_url,omitempty" yaml:"redirect_url,omitempty"`
	Scopes       []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	AuthURL      string   `json:"auth_url,omitempty" yaml:"auth_url,omitempty"`
	TokenURL     string   `json:"token_url,omitempty" yaml:"token_url,omitempty"`
}

// 📦 SourceConfig declares one data source
type SourceConfig struct {
	GUID    string       `json:"guid" yaml:"guid"`
	Name    string       `json:"name" yaml:"name"`
	Type    string       `json:"type" yaml:"type"`
	Kind    string       `json:"kind" yaml:"kind"`
	Icon    string       `json:"icon,omitempty" yaml:"icon,omitempty"`
	BaseURL string       `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Owner   string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	Timeout string       `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Match   []string     `json:"match,omitempty" yaml:"match,omitempty"`
	Path    string       `json:"path,omitempty" yaml:"path,omitempty"`
	OAuth   *OAuthConfig `json:"oauth,omitempty" yaml:"oauth,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Log     LogConfig      `json:"log" yaml:"log"`
	API     APIConfig      `json:"api" yaml:"api"`
	Retry   RetryConfig    `json:"retry" yaml:"retry"`
	Sources []SourceConfig `json:"sources" yaml:"sources"`

	location string
}

// Location is the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file. A .env file next to it is
// loaded first so ${VAR} references can resolve against it; variables
// already set in the environment win.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	if err := loadDotenv(ctx, filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	cfg.ExpandEnv(os.Getenv)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("sources", len(cfg.Sources)).Msg("configuration loaded")

	return cfg, nil
}

func loadDotenv(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("checking %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Errorf("loading %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loaded dotenv file")
	return nil
}

// envRef matches ${VAR}. A bare $ is literal, so secrets such as ab$cd
// survive expansion.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// 🔤 ExpandEnv replaces ${VAR} in every string field using lookup. Unknown
// variables expand to the empty string.
func (cfg *Config) ExpandEnv(lookup func(string) string) {
	expand := func(s *string) {
		*s = envRef.ReplaceAllStringFunc(*s, func(ref string) string {
			return lookup(ref[2 : len(ref)-1])
		})
	}
	expandAll := func(ss []string) {
		for i := range ss {
			expand(&ss[i])
		}
	}

	expand(&cfg.Log.Format)
	expand(&cfg.API.Listen)
	expand(&cfg.API.SourceCheck)
	expand(&cfg.API.RequestTimeout)
	expand(&cfg.Retry.Strategy)
	expand(&cfg.Retry.InitialInterval)
	expand(&cfg.Retry.MaxInterval)

	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		for _, s := range []*string{&src.GUID, &src.Name, &src.Type, &src.Kind, &src.Icon, &src.BaseURL, &src.Owner, &src.Timeout, &src.Path} {
			expand(s)
		}
		expandAll(src.Match)

		if src.OAuth != nil {
			for _, s := range []*string{&src.OAuth.ClientID, &src.OAuth.ClientSecret, &src.OAuth.RedirectURL, &src.OAuth.AuthURL, &src.OAuth.TokenURL} {
				expand(s)
			}
			expandAll(src.OAuth.Scopes)
		}
	}
}
