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
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/projhub/pkg/aggregate"
	"github.com/walteh/projhub/pkg/retry"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errors.Errorf("log.format: unknown format %q (want console or json)", cfg.Log.Format)
	}

	if cfg.API.Listen == "" {
		cfg.API.Listen = DefaultListen
	}
	if cfg.API.SourceCheck == "" {
		cfg.API.SourceCheck = DefaultSourceCheck
	}
	switch cfg.API.SourceCheck {
	case "legacy", "strict":
	default:
		return errors.Errorf("api.source_check: unknown mode %q (want legacy or strict)", cfg.API.SourceCheck)
	}

	if _, err := parseDuration(cfg.API.RequestTimeout, 0); err != nil {
		return errors.Errorf("api.request_timeout: %w", err)
	}

	if err := cfg.Retry.validate(); err != nil {
		return err
	}

	if len(cfg.Sources) == 0 {
		return errors.New("sources: at least one data source is required")
	}

	seen := make(map[string]string, len(cfg.Sources))
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if err := src.validate(cfg.location); err != nil {
			return errors.Errorf("sources[%d] (%s): %w", i, src.Name, err)
		}

		guid, _ := source.CanonicalGUID(src.GUID)
		if prev, dup := seen[guid]; dup {
			return errors.Errorf("sources[%d] (%s): guid %s already used by %q", i, src.Name, guid, prev)
		}
		seen[guid] = src.Name
	}

	return nil
}

func (r *RetryConfig) validate() error {
	if r.Strategy == "" {
		r.Strategy = DefaultRetryStrategy
	}
	switch r.Strategy {
	case "none", "exponential":
	default:
		return errors.Errorf("retry.strategy: unknown strategy %q (want none or exponential)", r.Strategy)
	}

	if r.MaxTries == 0 {
		r.MaxTries = DefaultMaxTries
	}
	if _, err := parseDuration(r.InitialInterval, DefaultInitialInterval); err != nil {
		return errors.Errorf("retry.initial_interval: %w", err)
	}
	if _, err := parseDuration(r.MaxInterval, DefaultMaxInterval); err != nil {
		return errors.Errorf("retry.max_interval: %w", err)
	}
	return nil
}

func (s *SourceConfig) validate(location string) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if _, ok := source.CanonicalGUID(s.GUID); !ok {
		return errors.Errorf("invalid guid %q", s.GUID)
	}
	if s.Type == "" {
		return errors.New("type is required")
	}

	kind, err := source.ParseKind(s.Kind)
	if err != nil {
		return err
	}
	if kind == source.KindAuthorized && (s.OAuth == nil || s.OAuth.ClientID == "") {
		return errors.New("authorized sources require oauth.client_id")
	}

	if _, err := parseDuration(s.Timeout, 0); err != nil {
		return errors.Errorf("timeout: %w", err)
	}

	for _, pattern := range s.Match {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("match: invalid pattern %q", pattern)
		}
	}

	// relative file paths are relative to the config file
	if s.Path != "" && location != "" && !filepath.IsAbs(s.Path) {
		s.Path = filepath.Join(filepath.Dir(location), s.Path)
	}

	return nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.Errorf("negative duration %s", s)
	}
	return d, nil
}

// 🔄 SourceConfigs converts the validated sources for source.Build
func (cfg *Config) SourceConfigs() ([]source.Config, error) {
	out := make([]source.Config, 0, len(cfg.Sources))
	for i, s := range cfg.Sources {
		timeout, err := parseDuration(s.Timeout, 0)
		if err != nil {
			return nil, errors.Errorf("sources[%d] (%s): timeout: %w", i, s.Name, err)
		}

		sc := source.Config{
			DataSource: source.DataSource{
				GUID:    s.GUID,
				Name:    s.Name,
				Icon:    s.Icon,
				Kind:    source.Kind(s.Kind),
				Type:    s.Type,
				BaseURL: s.BaseURL,
				Owner:   s.Owner,
			},
			Timeout: timeout,
			Path:    s.Path,
			Match:   s.Match,
		}

		if s.OAuth != nil {
			sc.OAuth = &source.OAuthConfig{
				ClientID:     s.OAuth.ClientID,
				ClientSecret: s.OAuth.ClientSecret,
				RedirectURL:  s.OAuth.RedirectURL,
				Scopes:       s.OAuth.Scopes,
				AuthURL:      s.OAuth.AuthURL,
				TokenURL:     s.OAuth.TokenURL,
			}
		}

		out = append(out, sc)
	}
	return out, nil
}

// ⏱️ RequestTimeout is the per request deadline of the HTTP API, 0 for none
func (cfg *Config) RequestTimeout() (time.Duration, error) {
	d, err := parseDuration(cfg.API.RequestTimeout, 0)
	if err != nil {
		return 0, errors.Errorf("api.request_timeout: %w", err)
	}
	return d, nil
}

// 🔁 RetryPolicy builds the configured retry policy
func (cfg *Config) RetryPolicy() (retry.Policy, error) {
	if cfg.Retry.Strategy != "exponential" {
		return retry.None{}, nil
	}

	initial, err := parseDuration(cfg.Retry.InitialInterval, DefaultInitialInterval)
	if err != nil {
		return nil, errors.Errorf("retry.initial_interval: %w", err)
	}
	maxInterval, err := parseDuration(cfg.Retry.MaxInterval, DefaultMaxInterval)
	if err != nil {
		return nil, errors.Errorf("retry.max_interval: %w", err)
	}

	return retry.Exponential{
		MaxTries:        cfg.Retry.MaxTries,
		InitialInterval: initial,
		MaxInterval:     maxInterval,
		Permanent:       aggregate.Permanent,
	}, nil
}
