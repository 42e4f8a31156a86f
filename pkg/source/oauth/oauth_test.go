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



package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("client_id") != "client" || r.PostForm.Get("code") != "validcode" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","refresh_token":"again","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *source.OAuthConfig
		errContains string
	}{
		{
			name:        "nil_config",
			errContains: "oauth configuration is required",
		},
		{
			name:        "missing_client_id",
			cfg:         &source.OAuthConfig{ClientSecret: "s"},
			errContains: "client_id is required",
		},
		{
			name: "valid",
			cfg:  &source.OAuthConfig{ClientID: "client"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, err := New(tt.cfg, oauth2.Endpoint{}, nil)
			if tt.errContains != "" {
				require.Error(t, err, "New should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should explain the failure")
				return
			}
			require.NoError(t, err, "New should succeed")
			assert.NotNil(t, flow, "flow should be created")
		})
	}
}

func TestAuthorizationURL(t *testing.T) {
	flow, err := New(&source.OAuthConfig{
		ClientID:    "client",
		RedirectURL: "https://example.org/callback",
		Scopes:      []string{"read:user", "repo"},
		AuthURL:     "https://auth.example.org/authorize",
	}, oauth2.Endpoint{AuthURL: "https://default.example.org/authorize"}, nil)
	require.NoError(t, err, "creating flow")

	u, err := url.Parse(flow.AuthorizationURL("xyz"))
	require.NoError(t, err, "url should parse")

	assert.Equal(t, "auth.example.org", u.Host, "configured auth url should override the default")
	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"), "client id should be carried")
	assert.Equal(t, "xyz", q.Get("state"), "state should be echoed")
	assert.Equal(t, "read:user repo", q.Get("scope"), "scopes should be space separated")
	assert.Equal(t, "https://example.org/callback", q.Get("redirect_uri"), "redirect url should be carried")
}

func TestExchangeCode(t *testing.T) {
	srv := tokenServer(t)
	flow, err := New(&source.OAuthConfig{ClientID: "client", ClientSecret: "secret"},
		oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token"}, srv.Client())
	require.NoError(t, err, "creating flow")

	tests := []struct {
		name        string
		code        string
		wantToken   string
		errContains string
	}{
		{
			name:      "valid_code",
			code:      "validcode",
			wantToken: "tok",
		},
		{
			name:        "rejected_code",
			code:        "badcode",
			errContains: "The code passed is incorrect or expired.",
		},
		{
			name:        "empty_code",
			code:        "",
			errContains: "empty authorization code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := flow.ExchangeCode(context.Background(), tt.code)
			if tt.errContains != "" {
				require.Error(t, err, "exchange should fail")
				assert.True(t, errors.Is(err, source.ErrOAuthExchange), "error should be an exchange failure")
				assert.Contains(t, err.Error(), tt.errContains, "error should carry the provider message")
				return
			}
			require.NoError(t, err, "exchange should succeed")
			assert.Equal(t, tt.wantToken, tokens.AccessToken, "access token should match")
			assert.Equal(t, "again", tokens.RefreshToken, "refresh token should match")
			assert.False(t, tokens.Expiry.IsZero(), "expiry should be set from expires_in")
		})
	}
}

func TestExchangeCodeUpstreamFailure(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"server_error"}`))
	}))
	t.Cleanup(failing.Close)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name     string
		tokenURL string
	}{
		{
			name:     "server_error",
			tokenURL: failing.URL + "/token",
		},
		{
			name:     "unreachable",
			tokenURL: closedURL + "/token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, err := New(&source.OAuthConfig{ClientID: "client", TokenURL: tt.tokenURL}, oauth2.Endpoint{}, nil)
			require.NoError(t, err, "creating flow")

			_, err = flow.ExchangeCode(context.Background(), "validcode")
			require.Error(t, err, "exchange should fail")
			assert.False(t, errors.Is(err, source.ErrOAuthExchange), "an outage should not be reported as a rejected code")
		})
	}
}
