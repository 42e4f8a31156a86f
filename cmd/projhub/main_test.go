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



package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/projhub/pkg/project"
)

const localGUID = "0c4c7b3e-5d1a-4f2e-9b8a-6e3d2c1f0a9b"

const projectsFixture = `projects:
  - id: 1
    owner: walteh
    name: copyrc
    description: copy files from remote repositories
    uri: https://github.com/walteh/copyrc
  - id: 2
    owner: walteh
    name: projhub
    description: aggregates projects from code hosts
    uri: https://github.com/walteh/projhub
`

// writeWorkspace writes a config with one file backed source and returns
// its path
func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "projects.yaml"), []byte(projectsFixture), 0644)
	require.NoError(t, err, "writing projects file")

	cfg := `sources:
  - guid: ` + localGUID + `
    name: local
    type: file
    kind: public
    path: projects.yaml
    match: ["github.com/**"]
`
	path := filepath.Join(dir, "projhub.yaml")
	err = os.WriteFile(path, []byte(cfg), 0644)
	require.NoError(t, err, "writing config file")
	return path
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunProjects(t *testing.T) {
	cfg := writeWorkspace(t)

	t.Run("list", func(t *testing.T) {
		code, stdout, stderr := execute(t, "-c", cfg, "-o", "json", "projects", "list", "--source", localGUID)
		require.Equal(t, 0, code, "list should succeed: %s", stderr)

		var projects []project.Project
		require.NoError(t, json.Unmarshal([]byte(stdout), &projects), "output should be json")
		require.Len(t, projects, 2, "both projects should be listed")
		assert.Equal(t, "copyrc", projects[0].Name, "projects should keep file order")
		assert.Equal(t, "copy files from remote repositories", projects[0].ShortDescription, "short description should be derived")
	})

	t.Run("get", func(t *testing.T) {
		code, stdout, stderr := execute(t, "-c", cfg, "-o", "json", "projects", "get", "--source", localGUID, "--id", "2")
		require.Equal(t, 0, code, "get should succeed: %s", stderr)

		var p project.Project
		require.NoError(t, json.Unmarshal([]byte(stdout), &p), "output should be json")
		assert.Equal(t, "projhub", p.Name, "project 2 should be returned")
	})

	t.Run("get_missing_id", func(t *testing.T) {
		code, _, stderr := execute(t, "-c", cfg, "projects", "get", "--source", localGUID, "--id", "42")
		assert.Equal(t, 1, code, "unknown id should fail")
		assert.Contains(t, stderr, "project not found", "error should name the failure")
	})

	t.Run("unknown_source", func(t *testing.T) {
		code, _, stderr := execute(t, "-c", cfg, "projects", "list", "--source", "nope")
		assert.Equal(t, 1, code, "unknown source should fail")
		assert.Contains(t, stderr, "❌ ", "errors should be printed by the console")
		assert.Contains(t, stderr, "data source not found", "error should name the failure")
	})
}

func TestRunWizard(t *testing.T) {
	cfg := writeWorkspace(t)

	tests := []struct {
		name        string
		uri         string
		wantCode    int
		wantName    string
		errContains string
	}{
		{
			name:     "matching_uri",
			uri:      "https://github.com/walteh/projhub/",
			wantName: "projhub",
		},
		{
			name:        "no_source_matches",
			uri:         "https://gitlab.com/walteh/projhub",
			wantCode:    1,
			errContains: "no data source handles gitlab.com/walteh/projhub",
		},
		{
			name:        "relative_uri",
			uri:         "walteh/projhub",
			wantCode:    1,
			errContains: "invalid source uri",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, "-c", cfg, "-o", "json", "wizard", tt.uri)
			require.Equal(t, tt.wantCode, code, "exit code should match: %s", stderr)

			if tt.errContains != "" {
				assert.Contains(t, stderr, tt.errContains, "error should explain the failure")
				return
			}

			var p project.Project
			require.NoError(t, json.Unmarshal([]byte(stdout), &p), "output should be json")
			assert.Equal(t, tt.wantName, p.Name, "resolved project should match")
		})
	}
}

func TestRunSources(t *testing.T) {
	cfg := writeWorkspace(t)

	code, stdout, stderr := execute(t, "-c", cfg, "-o", "json", "sources")
	require.Equal(t, 0, code, "sources should succeed: %s", stderr)
	assert.Contains(t, stdout, localGUID, "listing should include the guid")

	code, _, stderr = execute(t, "-c", cfg, "sources", "check")
	require.Equal(t, 0, code, "check should succeed: %s", stderr)
	assert.Contains(t, stderr, "local", "check should report the source")
	assert.Contains(t, stderr, "2 projects", "check should report the project count")
	assert.Contains(t, stderr, "1 source(s) answered", "check should summarize the probes")
}

func TestRunOAuthOnPublicSource(t *testing.T) {
	cfg := writeWorkspace(t)

	code, _, stderr := execute(t, "-c", cfg, "oauth", "url", "--source", localGUID)
	assert.Equal(t, 1, code, "public sources have no authorization url")
	assert.Contains(t, stderr, "does not support OAuth", "error should explain the failure")
}

func TestRunWithoutConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	code, _, stderr := execute(t, "-c", missing, "sources")
	assert.Equal(t, 1, code, "a missing config should fail")
	assert.Contains(t, stderr, "loading config", "error should mention the config")

	code, stdout, stderr := execute(t, "-c", missing, "version")
	require.Equal(t, 0, code, "version should not need a config: %s", stderr)
	assert.Contains(t, stdout, "🚀 projhub version info:", "version banner should be printed")
}

func TestNeedsConfig(t *testing.T) {
	root, err := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err, "building root command")

	find := func(path ...string) *cobra.Command {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "finding %v", path)
		return cmd
	}

	assert.False(t, needsConfig(find("version")), "version needs no config")
	assert.True(t, needsConfig(find("serve")), "serve needs a config")
	assert.True(t, needsConfig(find("sources", "check")), "sources check needs a config")
}
