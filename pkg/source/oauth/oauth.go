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

// Package oauth implements the authorization code flow shared by the
// authorized source types.
package oauth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

// 🔐 Flow builds consent URLs and exchanges authorization codes
type Flow struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// 🏭 New creates a flow for cfg. Endpoint URLs left empty in cfg fall back
// to def.
func New(cfg *source.OAuthConfig, def oauth2.Endpoint, httpClient *http.Client) (*Flow, error) {
	if cfg == nil {
		return nil, errors.New("oauth configuration is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("oauth client_id is required")
	}

	endpoint := def
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	// one request per exchange; auto detection would retry a rejected code
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Flow{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
	}, nil
}

// 🔗 AuthorizationURL returns the consent URL carrying state
func (f *Flow) AuthorizationURL(state string) string {
	return f.config.AuthCodeURL(state)
}

// 🔄 ExchangeCode trades code for tokens. A code the provider rejects is
// reported as source.ErrOAuthExchange; transport failures and 5xx answers are
// returned as plain errors.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (project.OAuthTokens, error) {
	logger := zerolog.Ctx(ctx)

	if code == "" {
		return project.OAuthTokens{}, errors.Errorf("%w: empty authorization code", source.ErrOAuthExchange)
	}

	tok, err := f.config.Exchange(f.Context(ctx), code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rejected(rerr) {
			logger.Debug().
				Str("error_code", rerr.ErrorCode).
				Str("error_description", rerr.ErrorDescription).
				Msg("token endpoint rejected the code")
			return project.OAuthTokens{}, errors.WithDetails(
				errors.Errorf("%w: %s", source.ErrOAuthExchange, describe(rerr)),
				"error_code", rerr.ErrorCode,
			)
		}
		// unreachable or failing token endpoint, not a verdict on the code
		return project.OAuthTokens{}, errors.Errorf("requesting token: %w", err)
	}

	return project.OAuthTokens{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// Context returns ctx carrying the flow's http client for the oauth2 package.
func (f *Flow) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
}

// 🌐 Client returns an http client that authenticates with accessToken
func (f *Flow) Client(ctx context.Context, accessToken string) *http.Client {
	return oauth2.NewClient(f.Context(ctx), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

// rejected reports whether the token endpoint answered with a verdict on the
// request: an OAuth error code on a non 5xx answer, or any 4xx.
func rejected(rerr *oauth2.RetrieveError) bool {
	status := 0
	if rerr.Response != nil {
		status = rerr.Response.StatusCode
	}
	if status >= http.StatusInternalServerError {
		return false
	}
	return rerr.ErrorCode != "" || status >= http.StatusBadRequest
}

func describe(rerr *oauth2.RetrieveError) string {
	switch {
	case rerr.ErrorDescription != "":
		return rerr.ErrorDescription
	case rerr.ErrorCode != "":
		return rerr.ErrorCode
	case rerr.Response != nil:
		return rerr.Response.Status
	default:
		return "token endpoint rejected the request"
	}
}
