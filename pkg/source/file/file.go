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

// Package file serves projects from a local YAML document. It backs
// offline setups and demos where no code host is reachable.
package file

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/projhub/pkg/project"
	"github.com/walteh/projhub/pkg/source"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	source.Register("file", New)
}

// document is the on-disk format
type document struct {
	Projects []entry `yaml:"projects"`
}

type entry struct {
	Owner           string `yaml:"owner"`
	project.Project `yaml:",inline"`
}

// 📄 Source lists the projects of a YAML file. The file is read on every
// call so edits show up without a restart.
type Source struct {
	name  string
	owner string
	path  string
}

// 🏭 New creates a file adaptee. It only supports public listing and URI
// lookups.
func New(ctx context.Context, cfg source.Config) (source.Adaptee, error) {
	if cfg.Path == "" {
		return source.Adaptee{}, errors.New("file path cannot be empty")
	}

	s := &Source{name: cfg.Name, owner: cfg.Owner, path: cfg.Path}

	// fail at startup on a missing or malformed file
	if _, err := s.load(ctx); err != nil {
		return source.Adaptee{}, err
	}

	return source.Adaptee{Public: s, Resolver: s}, nil
}

func (s *Source) load(ctx context.Context) ([]entry, error) {
	zerolog.Ctx(ctx).Debug().Str("source", s.name).Str("path", s.path).Msg("reading project file")

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("file not found: %s", s.path)
		}
		return nil, errors.Errorf("reading %s: %w", s.path, err)
	}

	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing %s: %w", s.path, err)
	}

	for i := range doc.Projects {
		if doc.Projects[i].ShortDescription == "" {
			doc.Projects[i].ShortDescription = project.Shorten(doc.Projects[i].Description)
		}
	}

	return doc.Projects, nil
}

// 📂 ListPublicProjects lists the projects of ownerHint (or the configured
// owner). With neither set every project in the file is returned.
func (s *Source) ListPublicProjects(ctx context.Context, ownerHint string) ([]project.Project, error) {
	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	owner := ownerHint
	if owner == "" {
		owner = s.owner
	}

	projects := make([]project.Project, 0, len(entries))
	for _, e := range entries {
		if owner != "" && !strings.EqualFold(e.Owner, owner) {
			continue
		}
		projects = append(projects, e.Project)
	}

	return projects, nil
}

// 🎯 ResolveProject returns the project whose uri matches
func (s *Source) ResolveProject(ctx context.Context, uri *url.URL) (project.Project, error) {
	entries, err := s.load(ctx)
	if err != nil {
		return project.Project{}, err
	}

	want := normalize(uri.String())
	for _, e := range entries {
		if normalize(e.SourceURI) == want {
			return e.Project, nil
		}
	}

	return project.Project{}, errors.Errorf("%w: %s", source.ErrProjectNotFound, uri.String())
}

func normalize(uri string) string {
	return strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(uri), "/"), ".git")
}
