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

// Package aggregate is the single entry point for project queries across
// every registered data source.
package aggregate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/retry"
	"github.com/walteh/projhub/pkg/source"
	"github.com/walteh/projhub/pkg/telemetry"
	"gitlab.com/tozd/go/errors"
)

// Operation names used in logs, metrics and upstream errors.
const (
	OpListPublic     = "list_public"
	OpListAuthorized = "list_authorized"
	OpExchange       = "exchange_code"
	OpResolve        = "resolve_uri"
)

// Service dispatches project queries to the adaptee registered under a
// data source GUID. It holds no per-request state.
type Service struct {
	registry *source.Registry
	retry    retry.Policy
	metrics  *telemetry.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithRetry sets the policy wrapped around listing and lookup calls. Code
// exchanges are never retried.
func WithRetry(p retry.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.retry = p
		}
	}
}

// WithMetrics records every upstream call on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a Service over reg. Without options calls run once.
func New(reg *source.Registry, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		retry:    retry.None{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListOption tunes a listing call.
type ListOption func(*listOptions)

type listOptions struct {
	owner string
}

// WithOwner sets the owner hint for public listings. Sources fall back to
// their configured owner when it is empty.
func WithOwner(owner string) ListOption {
	return func(o *listOptions) {
		o.owner = owner
	}
}

// Permanent reports errors no retry can fix. It is the classifier meant for
// retry.Exponential.
func Permanent(err error) bool {
	return errors.Is(err, source.ErrUpstreamAuth) ||
		errors.Is(err, source.ErrInvalidRequest) ||
		errors.Is(err, source.ErrProjectNotFound) ||
		errors.Is(err, source.ErrOAuthExchange)
}

// Sources returns the registered data sources in configuration order.
func (s *Service) Sources() []source.DataSource {
	return s.registry.List()
}

// Source returns the data source registered under guid.
func (s *Service) Source(guid string) (source.DataSource, bool) {
	entry, ok := s.registry.Resolve(guid)
	if !ok {
		return source.DataSource{}, false
	}
	return entry.Source(), true
}

// IsExistingSource reports whether guid names a registered data source.
func (s *Service) IsExistingSource(guid string) bool {
	return s.registry.Exists(guid)
}

// ListProjects lists the projects of the source registered under guid. An
// empty accessToken routes to the public capability, a non-empty one to the
// authorized capability. A source without the required capability fails
// with source.ErrCapabilityMismatch; there is no fallback between the two.
func (s *Service) ListProjects(ctx context.Context, guid, accessToken string, opts ...ListOption) ([]project.Project, error) {
	o := &listOptions{}
	for _, opt := range opts {
		opt(o)
	}

	entry, err := s.resolve(guid)
	if err != nil {
		return nil, err
	}
	ds := entry.Source()

	logger := zerolog.Ctx(ctx).With().Str("source", ds.Name).Str("guid", ds.GUID).Logger()

	if accessToken == "" {
		pub, ok := entry.Public()
		if !ok {
			return nil, errors.Errorf("%w: %s requires an access token", source.ErrCapabilityMismatch, ds.Name)
		}

		owner := o.owner
		if owner == "" {
			owner = ds.Owner
		}

		logger.Debug().Str("owner", owner).Msg("listing public projects")
		return call(ctx, s, s.retry, ds, OpListPublic, func(ctx context.Context) ([]project.Project, error) {
			return pub.ListPublicProjects(ctx, owner)
		})
	}

	auth, ok := entry.Authorized()
	if !ok {
		return nil, errors.Errorf("%w: %s does not accept access tokens", source.ErrCapabilityMismatch, ds.Name)
	}

	logger.Debug().Msg("listing authorized projects")
	return call(ctx, s, s.retry, ds, OpListAuthorized, func(ctx context.Context) ([]project.Project, error) {
		return auth.ListProjects(ctx, accessToken)
	})
}

// GetProjectByGUID returns the project with id from the source registered
// under guid. It fetches the full listing and filters it in memory; a listing
// with the id more than once fails with project.ErrDuplicateID.
func (s *Service) GetProjectByGUID(ctx context.Context, guid, accessToken string, id int64, opts ...ListOption) (project.Project, error) {
	projects, err := s.ListProjects(ctx, guid, accessToken, opts...)
	if err != nil {
		return project.Project{}, err
	}

	p, err := project.Find(projects, id)
	switch {
	case errors.Is(err, project.ErrNotFound):
		return project.Project{}, errors.Errorf("%w: id %d in source %s", source.ErrProjectNotFound, id, guid)
	case err != nil:
		return project.Project{}, errors.Errorf("source %s: %w", guid, err)
	}
	return p, nil
}

// AuthorizationURL returns the consent URL of an OAuth source. The bool is
// false when guid is unknown or the source does not support OAuth. An empty
// state is replaced by a random one.
func (s *Service) AuthorizationURL(ctx context.Context, guid, state string) (string, bool) {
	entry, ok := s.registry.Resolve(guid)
	if !ok {
		return "", false
	}
	auth, ok := entry.Authorized()
	if !ok {
		return "", false
	}

	if state == "" {
		state = uuid.NewString()
	}

	zerolog.Ctx(ctx).Debug().Str("source", entry.Source().Name).Msg("issuing authorization url")
	return auth.AuthorizationURL(state), true
}

// ExchangeCode trades code for tokens at the OAuth source registered under
// guid. ok is false, with a nil error, when guid is unknown or the source
// does not support OAuth. A rejected code fails with source.ErrOAuthExchange.
func (s *Service) ExchangeCode(ctx context.Context, code, guid string) (tokens project.OAuthTokens, ok bool, err error) {
	entry, found := s.registry.Resolve(guid)
	if !found {
		return project.OAuthTokens{}, false, nil
	}
	auth, found := entry.Authorized()
	if !found {
		return project.OAuthTokens{}, false, nil
	}

	tokens, err = call(ctx, s, retry.None{}, entry.Source(), OpExchange, func(ctx context.Context) (project.OAuthTokens, error) {
		return auth.ExchangeCode(ctx, code)
	})
	if err != nil {
		return project.OAuthTokens{}, true, err
	}
	return tokens, true, nil
}

func (s *Service) resolve(guid string) (source.Entry, error) {
	entry, ok := s.registry.Resolve(guid)
	if !ok {
		return source.Entry{}, errors.Errorf("%w: %q", source.ErrSourceNotFound, guid)
	}
	return entry, nil
}

// call runs fn under policy, records it and wraps failures that did not
// originate from the caller's input.
func call[T any](ctx context.Context, s *Service, policy retry.Policy, ds source.DataSource, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	start := time.Now()

	err := policy.Do(ctx, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})

	s.metrics.Observe(ds.Name, op, start, err)

	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("source", ds.Name).Str("op", op).Msg("upstream call failed")

		var zero T
		if errors.Is(err, source.ErrInvalidRequest) || errors.Is(err, source.ErrProjectNotFound) || errors.Is(err, source.ErrOAuthExchange) {
			return zero, err
		}
		return zero, source.NewUpstreamError(ds.Name, op, err)
	}

	return result, nil
}
