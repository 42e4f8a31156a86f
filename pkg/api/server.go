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

// Package api is the HTTP surface over the aggregation service.
package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/aggregate"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// Service is what the routes need from the aggregation layer.
type Service interface {
	Sources() []source.DataSource
	Source(guid string) (source.DataSource, bool)
	IsExistingSource(guid string) bool
	ListProjects(ctx context.Context, guid, accessToken string, opts ...aggregate.ListOption) ([]project.Project, error)
	GetProjectByGUID(ctx context.Context, guid, accessToken string, id int64, opts ...aggregate.ListOption) (project.Project, error)
	AuthorizationURL(ctx context.Context, guid, state string) (string, bool)
	ExchangeCode(ctx context.Context, code, guid string) (project.OAuthTokens, bool, error)
	FetchProjectByURI(ctx context.Context, uri *url.URL) (project.Project, error)
}

var _ Service = (*aggregate.Service)(nil)

// SourceCheck selects how the wizard data source routes guard the guid.
type SourceCheck string

const (
	// SourceCheckLegacy answers 404 when the guid IS registered, matching
	// what the wizard routes have always done.
	// TODO(product): confirm the intended check and drop one of the modes.
	SourceCheckLegacy SourceCheck = "legacy"
	// SourceCheckStrict answers 404 when the guid is NOT registered.
	SourceCheckStrict SourceCheck = "strict"
)

// ParseSourceCheck validates a configured mode
func ParseSourceCheck(s string) (SourceCheck, error) {
	switch SourceCheck(s) {
	case SourceCheckLegacy, SourceCheckStrict:
		return SourceCheck(s), nil
	default:
		return "", errors.Errorf("unknown source check %q (want %q or %q)", s, SourceCheckLegacy, SourceCheckStrict)
	}
}

// rejects reports whether the guard stops a request for a guid whose
// registration status is exists.
func (c SourceCheck) rejects(exists bool) bool {
	if c == SourceCheckStrict {
		return !exists
	}
	return exists
}

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
	sourceCheck SourceCheck
	metrics     http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithSourceCheck sets the guard used by the wizard data source routes
func WithSourceCheck(c SourceCheck) ServerOption {
	return func(cfg *serverConfig) {
		cfg.sourceCheck = c
	}
}

// WithMetricsHandler mounts h at /metrics
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metrics = h
	}
}

// NewServer creates and configures the HTTP router with the given service and options
func NewServer(svc Service, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		sourceCheck: SourceCheckLegacy,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/healthz", healthHandler(svc))
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}

	r.Mount("/api/wizard", WizardRouter(svc, cfg.sourceCheck))
	r.Mount("/api/dataSource", DataSourceRouter(svc))

	return r
}

// LoggingMiddleware attaches a request scoped logger to the context and
// logs every request at debug level.
func LoggingMiddleware(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			logger := base.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(logger.WithContext(r.Context()))

			next.ServeHTTP(ww, r)

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("http request")
		})
	}
}

func healthHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		WriteJSONResponse(w, map[string]any{
			"status":  "ok",
			"sources": len(svc.Sources()),
		}, http.StatusOK)
	}
}
