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
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projhub/pkg/source"
)

// fakeGitHub serves the handful of endpoints the source calls
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/users/walteh/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "public listing should not send credentials")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"id":3,"name":"third","description":"","html_url":"https://github.com/walteh/third"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/users/walteh/repos?page=2>; rel="next"`, srv.URL))
		fmt.Fprint(w, `[{"id":1,"name":"copyrc","description":"copy files\nfrom repos","html_url":"https://github.com/walteh/copyrc"},{"id":2,"name":"projhub","description":"aggregates","html_url":"https://github.com/walteh/projhub"}]`)
	})

	mux.HandleFunc("/users/nobody/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})

	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Bad credentials"}`)
			return
		}
		fmt.Fprint(w, `[{"id":10,"name":"private","description":"secret","html_url":"https://github.com/walteh/private"}]`)
	})

	mux.HandleFunc("/repos/walteh/projhub", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":2,"name":"projhub","description":"aggregates","html_url":"https://github.com/walteh/projhub"}`)
	})

	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm(), "token request should be a form")
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" {
			fmt.Fprint(w, `{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`)
			return
		}
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"), "client id should be sent")
		fmt.Fprint(w, `{"access_token":"good-token","token_type":"bearer","scope":"repo"}`)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server, withOAuth bool) source.Config {
	cfg := source.Config{
		DataSource: source.DataSource{
			GUID:    "6a3a9c52-0d1e-4c8f-9b7a-2e5f1d3c4b01",
			Name:    "GitHub",
			Kind:    source.KindPublic,
			Type:    "github",
			BaseURL: srv.URL,
			Owner:   "walteh",
		},
	}
	if withOAuth {
		cfg.Kind = source.KindAuthorized
		cfg.OAuth = &source.OAuthConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "https://projhub.example.com/callback",
			Scopes:       []string{"repo"},
			TokenURL:     srv.URL + "/login/oauth/access_token",
		}
	}
	return cfg
}

func testContext() context.Context {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

func TestNew(t *testing.T) {
	srv := fakeGitHub(t)
	ctx := testContext()

	t.Run("without_oauth", func(t *testing.T) {
		adaptee, err := New(ctx, testConfig(srv, false))
		require.NoError(t, err, "creating source should succeed")
		assert.NotNil(t, adaptee.Public, "public listing should be declared")
		assert.NotNil(t, adaptee.Resolver, "uri lookup should be declared")
		assert.Nil(t, adaptee.Authorized, "oauth should not be declared without credentials")
	})

	t.Run("with_oauth", func(t *testing.T) {
		adaptee, err := New(ctx, testConfig(srv, true))
		require.NoError(t, err, "creating source should succeed")
		assert.NotNil(t, adaptee.Authorized, "oauth should be declared")
	})

	t.Run("oauth_without_client_id", func(t *testing.T) {
		cfg := testConfig(srv, true)
		cfg.OAuth.ClientID = ""
		_, err := New(ctx, cfg)
		require.Error(t, err, "missing client id should fail")
		assert.Contains(t, err.Error(), "client_id", "error should name the missing field")
	})

	t.Run("bad_base_url", func(t *testing.T) {
		cfg := testConfig(srv, false)
		cfg.BaseURL = "://nope"
		_, err := New(ctx, cfg)
		require.Error(t, err, "invalid base url should fail")
	})
}

func TestListPublicProjects(t *testing.T) {
	srv := fakeGitHub(t)
	ctx := testContext()

	adaptee, err := New(ctx, testConfig(srv, false))
	require.NoError(t, err, "creating source should succeed")

	t.Run("follows_pagination", func(t *testing.T) {
		projects, err := adaptee.Public.ListPublicProjects(ctx, "walteh")
		require.NoError(t, err, "listing should succeed")
		require.Len(t, projects, 3, "both pages should be listed")

		assert.Equal(t, int64(1), projects[0].ID, "id should be mapped")
		assert.Equal(t, "copyrc", projects[0].Name, "name should be mapped")
		assert.Equal(t, "copy files", projects[0].ShortDescription, "short description should be the first line")
		assert.Equal(t, "copy files\nfrom repos", projects[0].Description, "description should be kept")
		assert.Equal(t, "https://github.com/walteh/copyrc", projects[0].SourceURI, "uri should be mapped")
		assert.Equal(t, "third", projects[2].Name, "second page should be appended")
	})

	t.Run("empty_hint_uses_configured_owner", func(t *testing.T) {
		projects, err := adaptee.Public.ListPublicProjects(ctx, "")
		require.NoError(t, err, "listing should succeed")
		assert.Len(t, projects, 3, "configured owner should be listed")
	})

	t.Run("no_owner_at_all", func(t *testing.T) {
		cfg := testConfig(srv, false)
		cfg.Owner = ""
		a, err := New(ctx, cfg)
		require.NoError(t, err, "creating source should succeed")

		_, err = a.Public.ListPublicProjects(ctx, "")
		require.Error(t, err, "listing without owner should fail")
		assert.ErrorIs(t, err, source.ErrInvalidRequest, "error should be an invalid request")
	})

	t.Run("upstream_failure", func(t *testing.T) {
		_, err := adaptee.Public.ListPublicProjects(ctx, "nobody")
		require.Error(t, err, "server error should fail")
		assert.NotErrorIs(t, err, source.ErrUpstreamAuth, "server error is not an auth failure")
	})
}

func TestAuthorizedFlow(t *testing.T) {
	srv := fakeGitHub(t)
	ctx := testContext()

	adaptee, err := New(ctx, testConfig(srv, true))
	require.NoError(t, err, "creating source should succeed")
	auth := adaptee.Authorized

	t.Run("authorization_url", func(t *testing.T) {
		raw := auth.AuthorizationURL("xyz")
		u, err := url.Parse(raw)
		require.NoError(t, err, "authorization url should parse")

		assert.Equal(t, "github.com", u.Host, "default github endpoint should be used")
		assert.Equal(t, "client-id", u.Query().Get("client_id"), "client id should be set")
		assert.Equal(t, "xyz", u.Query().Get("state"), "state should be passed through")
		assert.Equal(t, "code", u.Query().Get("response_type"), "response type should be code")
		assert.Equal(t, "repo", u.Query().Get("scope"), "scope should be set")
		assert.Equal(t, "https://projhub.example.com/callback", u.Query().Get("redirect_uri"), "redirect should be set")
	})

	t.Run("exchange_good_code", func(t *testing.T) {
		tokens, err := auth.ExchangeCode(ctx, "good-code")
		require.NoError(t, err, "exchange should succeed")
		assert.Equal(t, "good-token", tokens.AccessToken, "access token should be returned")
		assert.Equal(t, "Bearer", tokens.TokenType, "token type should be normalized")
	})

	t.Run("exchange_bad_code", func(t *testing.T) {
		_, err := auth.ExchangeCode(ctx, "stale-code")
		require.Error(t, err, "exchange should fail")
		assert.ErrorIs(t, err, source.ErrOAuthExchange, "error should be an oauth exchange error")
		assert.Contains(t, err.Error(), "incorrect or expired", "error should carry the provider description")
	})

	t.Run("exchange_empty_code", func(t *testing.T) {
		_, err := auth.ExchangeCode(ctx, "")
		assert.ErrorIs(t, err, source.ErrOAuthExchange, "empty code should be an oauth exchange error")
	})

	t.Run("list_with_token", func(t *testing.T) {
		projects, err := auth.ListProjects(ctx, "good-token")
		require.NoError(t, err, "listing should succeed")
		require.Len(t, projects, 1, "one repository should be listed")
		assert.Equal(t, "private", projects[0].Name, "private repository should be listed")
	})

	t.Run("list_with_rejected_token", func(t *testing.T) {
		_, err := auth.ListProjects(ctx, "expired-token")
		require.Error(t, err, "listing should fail")
		assert.ErrorIs(t, err, source.ErrUpstreamAuth, "rejected token should be an auth error")
	})
}

func TestResolveProject(t *testing.T) {
	srv := fakeGitHub(t)
	ctx := testContext()

	adaptee, err := New(ctx, testConfig(srv, false))
	require.NoError(t, err, "creating source should succeed")

	tests := []struct {
		name    string
		uri     string
		wantID  int64
		wantErr error
	}{
		{
			name:   "repository_uri",
			uri:    "https://github.com/walteh/projhub",
			wantID: 2,
		},
		{
			name:   "git_suffix_and_subpath",
			uri:    "https://github.com/walteh/projhub.git/tree/main",
			wantID: 2,
		},
		{
			name:    "unknown_repository",
			uri:     "https://github.com/walteh/missing",
			wantErr: source.ErrProjectNotFound,
		},
		{
			name:    "owner_only",
			uri:     "https://github.com/walteh",
			wantErr: source.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.uri)
			require.NoError(t, err, "test uri should parse")

			got, err := adaptee.Resolver.ResolveProject(ctx, u)
			if tt.wantErr != nil {
				require.Error(t, err, "resolve should fail")
				assert.ErrorIs(t, err, tt.wantErr, "error kind should match")
				return
			}

			require.NoError(t, err, "resolve should succeed")
			assert.Equal(t, tt.wantID, got.ID, "project id should match")
		})
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{name: "plain", path: "/walteh/copyrc", wantOwner: "walteh", wantName: "copyrc"},
		{name: "trailing_slash", path: "/walteh/copyrc/", wantOwner: "walteh", wantName: "copyrc"},
		{name: "git_suffix", path: "/walteh/copyrc.git", wantOwner: "walteh", wantName: "copyrc"},
		{name: "empty", path: "", wantErr: true},
		{name: "owner_only", path: "/walteh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := parseRepo(tt.path)
			if tt.wantErr {
				require.Error(t, err, "parseRepo should return error")
				return
			}

			require.NoError(t, err, "parseRepo should succeed")
			assert.Equal(t, tt.wantOwner, owner, "owner should match")
			assert.Equal(t, tt.wantName, name, "name should match")
		})
	}
}
