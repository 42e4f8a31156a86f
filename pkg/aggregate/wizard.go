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

package aggregate

import (
	"context"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// FetchProjectByURI looks up the project uri points at. The first source,
// in configuration order, that can resolve URIs and whose match patterns
// accept "host/path" handles the lookup. The result may be an empty shell
// (see project.Project.IsEmptyShell) when the host knows the path but it is
// not a project.
func (s *Service) FetchProjectByURI(ctx context.Context, uri *url.URL) (project.Project, error) {
	logger := zerolog.Ctx(ctx)

	if uri == nil || uri.Host == "" {
		return project.Project{}, errors.Errorf("%w: source uri must be absolute", source.ErrInvalidRequest)
	}

	key := routeKey(uri)

	for _, entry := range s.registry.Entries() {
		resolver, ok := entry.Resolver()
		if !ok {
			continue
		}

		matched, err := matchAny(entry.Match(), key)
		if err != nil {
			return project.Project{}, errors.Errorf("matching %s against %s: %w", key, entry.Source().Name, err)
		}
		if !matched {
			continue
		}

		logger.Debug().Str("source", entry.Source().Name).Str("uri", uri.String()).Msg("resolving project uri")

		return call(ctx, s, s.retry, entry.Source(), OpResolve, func(ctx context.Context) (project.Project, error) {
			return resolver.ResolveProject(ctx, uri)
		})
	}

	return project.Project{}, errors.Errorf("%w: no data source handles %s", source.ErrProjectNotFound, key)
}

// routeKey is the lower cased host followed by the path without trailing slash
func routeKey(uri *url.URL) string {
	return strings.ToLower(uri.Host) + strings.TrimSuffix(uri.Path, "/")
}

func matchAny(patterns []string, key string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
