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

package source

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔐 OAuthConfig holds the OAuth application credentials of a source
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	AuthURL      string // overrides the implementation's default endpoint
	TokenURL     string // overrides the implementation's default endpoint
}

// 📦 Config is everything a Factory needs to build one adaptee
type Config struct {
	DataSource
	Timeout time.Duration // per request, 0 means none
	Path    string        // local file, for file backed sources
	Match   []string      // doublestar patterns on host/path for URI lookups
	OAuth   *OAuthConfig
}

// 🏭 Factory builds the adaptee for a source type
type Factory func(ctx context.Context, cfg Config) (Adaptee, error)

var (
	// 🗺️ factories is a map of source types to factories
	factories = make(map[string]Factory)
)

// 📝 Register registers a factory for a source type
func Register(typ string, factory Factory) {
	factories[typ] = factory
}

// 🎯 Get returns the factory for a source type
func Get(typ string) Factory {
	return factories[typ]
}

// 📋 Types lists the registered source types
func Types() []string {
	types := make([]string, 0, len(factories))
	for typ := range factories {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// 🏗️ Build creates every adaptee and returns the registry holding them
func Build(ctx context.Context, cfgs []Config) (*Registry, error) {
	logger := zerolog.Ctx(ctx)

	entries := make([]Entry, 0, len(cfgs))
	for i, cfg := range cfgs {
		factory := Get(cfg.Type)
		if factory == nil {
			return nil, errors.Errorf("sources[%d] (%s): unknown type %q, available: %v", i, cfg.Name, cfg.Type, Types())
		}

		adaptee, err := factory(ctx, cfg)
		if err != nil {
			return nil, errors.Errorf("sources[%d] (%s): creating %s adaptee: %w", i, cfg.Name, cfg.Type, err)
		}

		entry, err := NewEntry(cfg.DataSource, adaptee, cfg.Match...)
		if err != nil {
			return nil, errors.Errorf("sources[%d]: %w", i, err)
		}

		logger.Debug().
			Str("guid", cfg.GUID).
			Str("name", cfg.Name).
			Str("type", cfg.Type).
			Str("kind", string(cfg.Kind)).
			Msg("registered data source")

		entries = append(entries, entry)
	}

	return NewRegistry(entries...)
}
