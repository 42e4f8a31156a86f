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
	"net/url"

	"github.com/walteh/projhub/pkg/project"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind is the access model of a data source
type Kind string

const (
	// KindPublic sources are listed without credentials
	KindPublic Kind = "public"
	// KindAuthorized sources require an OAuth access token
	KindAuthorized Kind = "authorized"
)

// 🔍 ParseKind validates a configured kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPublic, KindAuthorized:
		return Kind(s), nil
	default:
		return "", errors.Errorf("unknown source kind %q (want %q or %q)", s, KindPublic, KindAuthorized)
	}
}

// 📚 DataSource describes a registered external system
type DataSource struct {
	GUID    string `json:"guid"`
	Name    string `json:"name"`
	Icon    string `json:"icon,omitempty"`
	Kind    Kind   `json:"kind"`
	Type    string `json:"type"`
	BaseURL string `json:"baseUrl,omitempty"`
	Owner   string `json:"owner,omitempty"`
}

// 🌍 PublicSource lists projects that need no credentials
type PublicSource interface {
	// 📂 ListPublicProjects lists the projects visible for ownerHint
	ListPublicProjects(ctx context.Context, ownerHint string) ([]project.Project, error)
}

// 🔐 AuthorizedSource lists projects on behalf of an OAuth-authenticated user
type AuthorizedSource interface {
	// 🔗 AuthorizationURL builds the URL the user is sent to for consent
	AuthorizationURL(state string) string

	// 🔄 ExchangeCode trades an authorization code for tokens
	ExchangeCode(ctx context.Context, code string) (project.OAuthTokens, error)

	// 📂 ListProjects lists the projects visible to accessToken
	ListProjects(ctx context.Context, accessToken string) ([]project.Project, error)
}

// 🧭 URIResolver looks a single project up by its URI
type URIResolver interface {
	// 🎯 ResolveProject returns the project uri points at
	ResolveProject(ctx context.Context, uri *url.URL) (project.Project, error)
}

// 🧩 Adaptee is what a Factory builds: the capabilities an implementation
// declares. Nil fields are capabilities the implementation does not have.
type Adaptee struct {
	Public     PublicSource
	Authorized AuthorizedSource
	Resolver   URIResolver
}

// 📌 Entry is a registered source with its capabilities narrowed to the
// source's kind.
type Entry struct {
	source     DataSource
	public     PublicSource
	authorized AuthorizedSource
	resolver   URIResolver
	match      []string
}

// 🏭 NewEntry narrows adaptee to the kind of ds. It fails when the adaptee
// lacks the capability the kind requires. match holds the doublestar
// patterns used to route wizard lookups to this source.
func NewEntry(ds DataSource, adaptee Adaptee, match ...string) (Entry, error) {
	entry := Entry{
		source:   ds,
		resolver: adaptee.Resolver,
		match:    match,
	}

	switch ds.Kind {
	case KindPublic:
		if adaptee.Public == nil {
			return Entry{}, errors.Errorf("source %s (%s): type %q has no public listing", ds.GUID, ds.Name, ds.Type)
		}
		entry.public = adaptee.Public
	case KindAuthorized:
		if adaptee.Authorized == nil {
			return Entry{}, errors.Errorf("source %s (%s): type %q has no oauth support", ds.GUID, ds.Name, ds.Type)
		}
		entry.authorized = adaptee.Authorized
	default:
		return Entry{}, errors.Errorf("source %s (%s): unknown kind %q", ds.GUID, ds.Name, ds.Kind)
	}

	return entry, nil
}

// Source returns the data source description.
func (e Entry) Source() DataSource { return e.source }

// Public returns the public capability, if the entry is a public source.
func (e Entry) Public() (PublicSource, bool) { return e.public, e.public != nil }

// Authorized returns the OAuth capability, if the entry is an authorized source.
func (e Entry) Authorized() (AuthorizedSource, bool) { return e.authorized, e.authorized != nil }

// Resolver returns the URI lookup capability, if the adaptee declared one.
func (e Entry) Resolver() (URIResolver, bool) { return e.resolver, e.resolver != nil }

// Match returns the wizard routing patterns.
func (e Entry) Match() []string { return e.match }
