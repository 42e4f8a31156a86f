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

package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"github.com/walteh/projhub/pkg/source/oauth"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2/endpoints"
)

const perPage = 100

func init() {
	source.Register("github", New)
}

// 🎯 Source talks to the GitHub REST API
type Source struct {
	name       string
	owner      string
	baseURL    *url.URL
	httpClient *http.Client
	flow       *oauth.Flow
}

// 🏭 New creates a GitHub adaptee. Public listing and URI lookups are always
// available; the OAuth capability needs an oauth block.
func New(ctx context.Context, cfg source.Config) (source.Adaptee, error) {
	s, err := newSource(cfg)
	if err != nil {
		return source.Adaptee{}, err
	}

	adaptee := source.Adaptee{
		Public:   s,
		Resolver: s,
	}
	if s.flow != nil {
		adaptee.Authorized = s
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", s.name).
		Str("base_url", s.baseURL.String()).
		Bool("oauth", s.flow != nil).
		Msg("created github source")

	return adaptee, nil
}

func newSource(cfg source.Config) (*Source, error) {
	s := &Source{
		name:       cfg.Name,
		owner:      cfg.Owner,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Errorf("parsing base url: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		s.baseURL = u
	} else {
		s.baseURL = github.NewClient(nil).BaseURL
	}

	if cfg.OAuth != nil {
		flow, err := oauth.New(cfg.OAuth, endpoints.GitHub, s.httpClient)
		if err != nil {
			return nil, errors.Errorf("configuring oauth: %w", err)
		}
		s.flow = flow
	}

	return s, nil
}

// client returns an API client, authenticated when httpClient carries a token.
func (s *Source) client(httpClient *http.Client) *github.Client {
	client := github.NewClient(httpClient)
	u := *s.baseURL
	client.BaseURL = &u
	return client
}

// 📂 ListPublicProjects lists the public repositories of ownerHint, or of the
// configured owner when the hint is empty
func (s *Source) ListPublicProjects(ctx context.Context, ownerHint string) ([]project.Project, error) {
	owner := ownerHint
	if owner == "" {
		owner = s.owner
	}
	if owner == "" {
		return nil, errors.Errorf("%w: an owner is required to list public github repositories", source.ErrInvalidRequest)
	}

	zerolog.Ctx(ctx).Debug().Str("source", s.name).Str("owner", owner).Msg("listing public repositories")

	client := s.client(s.httpClient)
	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var projects []project.Project
	for {
		repos, resp, err := client.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, errors.Errorf("listing repositories of %s: %w", owner, classify(err))
		}

		projects = appendRepos(projects, repos)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return projects, nil
}

// 🔗 AuthorizationURL returns the GitHub consent URL
func (s *Source) AuthorizationURL(state string) string {
	return s.flow.AuthorizationURL(state)
}

// 🔄 ExchangeCode trades a GitHub authorization code for tokens
func (s *Source) ExchangeCode(ctx context.Context, code string) (project.OAuthTokens, error) {
	zerolog.Ctx(ctx).Debug().Str("source", s.name).Msg("exchanging authorization code")
	return s.flow.ExchangeCode(ctx, code)
}

// 📂 ListProjects lists every repository the token's user can see
func (s *Source) ListProjects(ctx context.Context, accessToken string) ([]project.Project, error) {
	if accessToken == "" {
		return nil, errors.Errorf("%w: empty access token", source.ErrUpstreamAuth)
	}

	zerolog.Ctx(ctx).Debug().Str("source", s.name).Msg("listing repositories of authenticated user")

	client := s.client(s.flow.Client(ctx, accessToken))
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var projects []project.Project
	for {
		repos, resp, err := client.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, errors.Errorf("listing repositories of authenticated user: %w", classify(err))
		}

		projects = appendRepos(projects, repos)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return projects, nil
}

// 🎯 ResolveProject fetches the repository a github.com URI points at
func (s *Source) ResolveProject(ctx context.Context, uri *url.URL) (project.Project, error) {
	owner, name, err := parseRepo(uri.Path)
	if err != nil {
		return project.Project{}, errors.Errorf("%w: %w", source.ErrInvalidRequest, err)
	}

	zerolog.Ctx(ctx).Debug().Str("source", s.name).Str("owner", owner).Str("repo", name).Msg("resolving repository")

	repo, _, err := s.client(s.httpClient).Repositories.Get(ctx, owner, name)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return project.Project{}, errors.Errorf("%w: %s/%s", source.ErrProjectNotFound, owner, name)
		}
		return project.Project{}, errors.Errorf("getting repository %s/%s: %w", owner, name, classify(err))
	}

	return toProject(repo), nil
}

// 🔍 parseRepo splits "/owner/repo[.git][/...]" into owner and repo
func parseRepo(path string) (owner, name string, err error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository path %q", path)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

func appendRepos(projects []project.Project, repos []*github.Repository) []project.Project {
	for _, repo := range repos {
		projects = append(projects, toProject(repo))
	}
	return projects
}

func toProject(repo *github.Repository) project.Project {
	return project.Project{
		ID:               repo.GetID(),
		Name:             repo.GetName(),
		ShortDescription: project.Shorten(repo.GetDescription()),
		Description:      repo.GetDescription(),
		SourceURI:        repo.GetHTMLURL(),
	}
}

func statusOf(err error) int {
	var gerr *github.ErrorResponse
	if errors.As(err, &gerr) && gerr.Response != nil {
		return gerr.Response.StatusCode
	}
	return 0
}

// classify tags token rejections so callers can tell them apart
func classify(err error) error {
	if statusOf(err) == http.StatusUnauthorized {
		return errors.Errorf("%w: %w", source.ErrUpstreamAuth, err)
	}
	return err
}
