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

package file

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projhub/pkg/source"
)

const fixture = `projects:
  - id: 1
    owner: walteh
    name: copyrc
    description: |
      copy files from remote repositories
      and keep them in sync
    uri: https://github.com/walteh/copyrc
  - id: 2
    owner: walteh
    name: projhub
    short_description: project aggregation
    description: aggregates projects from code hosts
    uri: https://github.com/walteh/projhub
  - id: 3
    owner: someone
    name: other
    uri: https://gitlab.example.com/someone/other
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing fixture should succeed")
	return path
}

func newTestSource(t *testing.T, owner string) source.Adaptee {
	t.Helper()
	adaptee, err := New(context.Background(), source.Config{
		DataSource: source.DataSource{Name: "fixture", Owner: owner},
		Path:       writeFixture(t, fixture),
	})
	require.NoError(t, err, "creating source should succeed")
	return adaptee
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		path        func(t *testing.T) string
		errContains string
	}{
		{
			name:        "empty_path",
			path:        func(t *testing.T) string { return "" },
			errContains: "cannot be empty",
		},
		{
			name:        "missing_file",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			errContains: "file not found",
		},
		{
			name:        "unknown_field",
			path:        func(t *testing.T) string { return writeFixture(t, "projects:\n  - id: 1\n    stars: 4\n") },
			errContains: "stars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), source.Config{Path: tt.path(t)})
			require.Error(t, err, "creating source should fail")
			assert.Contains(t, err.Error(), tt.errContains, "error should explain the failure")
		})
	}

	t.Run("declares_public_and_resolver_only", func(t *testing.T) {
		adaptee := newTestSource(t, "")
		assert.NotNil(t, adaptee.Public, "public listing should be declared")
		assert.NotNil(t, adaptee.Resolver, "uri lookup should be declared")
		assert.Nil(t, adaptee.Authorized, "oauth should never be declared")
	})
}

func TestListPublicProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("filters_by_hint", func(t *testing.T) {
		projects, err := newTestSource(t, "").Public.ListPublicProjects(ctx, "walteh")
		require.NoError(t, err, "listing should succeed")
		require.Len(t, projects, 2, "only walteh's projects should be listed")
		assert.Equal(t, "copy files from remote repositories", projects[0].ShortDescription, "short description should be derived")
		assert.Equal(t, "project aggregation", projects[1].ShortDescription, "explicit short description should be kept")
	})

	t.Run("falls_back_to_configured_owner", func(t *testing.T) {
		projects, err := newTestSource(t, "someone").Public.ListPublicProjects(ctx, "")
		require.NoError(t, err, "listing should succeed")
		require.Len(t, projects, 1, "configured owner should filter")
		assert.Equal(t, int64(3), projects[0].ID, "project id should match")
	})

	t.Run("no_owner_lists_everything", func(t *testing.T) {
		projects, err := newTestSource(t, "").Public.ListPublicProjects(ctx, "")
		require.NoError(t, err, "listing should succeed")
		assert.Len(t, projects, 3, "all projects should be listed")
	})
}

func TestResolveProject(t *testing.T) {
	adaptee := newTestSource(t, "")
	ctx := context.Background()

	u, _ := url.Parse("https://github.com/walteh/projhub.git")
	got, err := adaptee.Resolver.ResolveProject(ctx, u)
	require.NoError(t, err, "resolve should succeed")
	assert.Equal(t, int64(2), got.ID, "project should match by uri")

	u, _ = url.Parse("https://github.com/walteh/missing")
	_, err = adaptee.Resolver.ResolveProject(ctx, u)
	assert.ErrorIs(t, err, source.ErrProjectNotFound, "unknown uri should not be found")
}
