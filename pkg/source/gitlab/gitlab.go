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

package gitlab

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"github.com/walteh/projhub/pkg/source/oauth"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	defaultBaseURL = "https://gitlab.com"
	perPage        = 100
)

func init() {
	source.Register("gitlab", New)
}

// 🦊 Source talks to a GitLab instance
type Source struct {
	name       string
	owner      string
	baseURL    string
	httpClient *http.Client
	flow       *oauth.Flow
}

// 🏭 New creates a GitLab adaptee for gitlab.com or a self-managed instance
func New(ctx context.Context, cfg source.Config) (source.Adaptee, error) {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return source.Adaptee{}, errors.Errorf("parsing base url: %w", err)
	}

	s := &Source{
		name:       cfg.Name,
		owner:      cfg.Owner,
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	adaptee := source.Adaptee{
		Public:   s,
		Resolver: s,
	}

	if cfg.OAuth != nil {
		flow, err := oauth.New(cfg.OAuth, endpointFor(base), s.httpClient)
		if err != nil {
			return source.Adaptee{}, errors.Errorf("configuring oauth: %w", err)
		}
		s.flow = flow
		adaptee.Authorized = s
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", s.name).
		Str("base_url", base).
		Bool("oauth", s.flow != nil).
		Msg("created gitlab source")

	return adaptee, nil
}

// endpointFor returns the oauth endpoints of the instance at base
func endpointFor(base string) oauth2.Endpoint {
	if base == defaultBaseURL {
		return endpoints.GitLab
	}
	return oauth2.Endpoint{
		AuthURL:  base + "/oauth/authorize",
		TokenURL: base + "/oauth/token",
	}
}

func (s *Source) client(token string) (*gitlab.Client, error) {
	opts := []gitlab.ClientOptionFunc{
		gitlab.WithBaseURL(s.baseURL),
		gitlab.WithHTTPClient(s.httpClient),
		// retries belong to the aggregation layer's policy
		gitlab.WithoutRetries(),
	}
	if token != "" {
		return gitlab.NewOAuthClient(token, opts...)
	}
	return gitlab.NewClient("", opts...)
}

// 📂 ListPublicProjects lists the public projects of a user
func (s *Source) ListPublicProjects(ctx context.Context, ownerHint string) ([]project.Project, error) {
	owner := ownerHint
	if owner == "" {
		owner = s.owner
	}
	if owner == "" {
		return nil, errors.Errorf("%w: an owner is required to list public gitlab projects", source.ErrInvalidRequest)
	}

	zerolog.Ctx(ctx).Debug().Str("source", s.name).Str("owner", owner).Msg("listing public projects")

	client, err := s.client("")
	if err != nil {
		return nil, errors.Errorf("creating gitlab client: %w", err)
	}

	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
		Visibility:  gitlab.Ptr(gitlab.PublicVisibility),
	}

	var projects []project.Project
	for {
		page, resp, err := client.Projects.ListUserProjects(owner, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, errors.Errorf("listing projects of %s: %w", owner, classify(err))
		}

		projects = appendProjects(projects, page)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return projects, nil
}

// 🔗 AuthorizationURL returns the GitLab consent URL
func (s *Source) AuthorizationURL(state string) string {
	return s.flow.AuthorizationURL(state)
}

// 🔄 ExchangeCode trades a GitLab authorization code for tokens
func (s *Source) ExchangeCode(ctx context.Context, code string) (project.OAuthTokens, error) {
	zerolog.Ctx(ctx).Debug().Str("source", s.name).Msg("exchanging authorization code")
	return s.flow.ExchangeCode(ctx, code)
}

// 📂 ListProjects lists the projects the token's user is a member of
func (s *Source) ListProjects(ctx context.Context, accessToken string) ([]project.Project, error) {
	if accessToken == "" {
		return nil, errors.Errorf("%w: empty access token", source.ErrUpstreamAuth)
	}

	zerolog.Ctx(ctx).Debug().Str("source", s.name).Msg("listing member projects")

	client, err := s.client(accessToken)
	if err != nil {
		return nil, errors.Errorf("creating gitlab client: %w", err)
	}

	opts := &gitlab.ListProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage, Page: 1},
		Membership:  gitlab.Ptr(true),
	}

	var projects []project.Project
	for {
		page, resp, err := client.Projects.ListProjects(opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, errors.Errorf("listing member projects: %w", classify(err))
		}

		projects = appendProjects(projects, page)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return projects, nil
}

// 🎯 ResolveProject fetches the project a GitLab URI points at. A path that
// names no project, such as a group, yields an empty project carrying only
// the URI.
func (s *Source) ResolveProject(ctx context.Context, uri *url.URL) (project.Project, error) {
	path := projectPath(uri.Path)
	if path == "" {
		return project.Project{}, errors.Errorf("%w: no project path in %q", source.ErrInvalidRequest, uri.String())
	}

	zerolog.Ctx(ctx).Debug().Str("source", s.name).Str("path", path).Msg("resolving project")

	client, err := s.client("")
	if err != nil {
		return project.Project{}, errors.Errorf("creating gitlab client: %w", err)
	}

	p, _, err := client.Projects.GetProject(path, nil, gitlab.WithContext(ctx))
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return project.Project{SourceURI: uri.String()}, nil
		}
		return project.Project{}, errors.Errorf("getting project %s: %w", path, classify(err))
	}

	return toProject(p), nil
}

// 🔍 projectPath strips ".git" and the "/-/..." suffix GitLab uses for
// sub pages
func projectPath(p string) string {
	p, _, _ = strings.Cut(p, "/-/")
	p = strings.Trim(p, "/")
	return strings.TrimSuffix(p, ".git")
}

func appendProjects(projects []project.Project, page []*gitlab.Project) []project.Project {
	for _, p := range page {
		projects = append(projects, toProject(p))
	}
	return projects
}

func toProject(p *gitlab.Project) project.Project {
	return project.Project{
		ID:               int64(p.ID),
		Name:             p.Name,
		ShortDescription: project.Shorten(p.Description),
		Description:      p.Description,
		SourceURI:        p.WebURL,
	}
}

func statusOf(err error) int {
	var gerr *gitlab.ErrorResponse
	if errors.As(err, &gerr) && gerr.Response != nil {
		return gerr.Response.StatusCode
	}
	return 0
}

func classify(err error) error {
	if statusOf(err) == http.StatusUnauthorized {
		return errors.Errorf("%w: %w", source.ErrUpstreamAuth, err)
	}
	return err
}
