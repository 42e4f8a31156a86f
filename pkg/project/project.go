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

// Package project holds the normalized values returned by every source.
package project

import (
	"strings"
	"time"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned by Find when no project carries the id
	ErrNotFound = errors.Base("no project with this id")
	// ErrDuplicateID is returned by Find when more than one project carries the id
	ErrDuplicateID = errors.Base("project id is not unique")
)

// shortDescriptionLimit caps ShortDescription in runes.
const shortDescriptionLimit = 140

// 📦 Project is a normalized project record. ID is only unique within the
// source that produced it.
type Project struct {
	ID               int64  `json:"id" yaml:"id"`
	Name             string `json:"name" yaml:"name"`
	ShortDescription string `json:"shortDescription" yaml:"short_description"`
	Description      string `json:"description" yaml:"description"`
	SourceURI        string `json:"sourceUri" yaml:"uri"`
}

// 🐚 IsEmptyShell reports whether the project carries no descriptive data.
// Some hosts answer lookups of groups or uninstantiated instances this way.
func (p Project) IsEmptyShell() bool {
	return p.Name == "" && p.ShortDescription == "" && p.Description == ""
}

// 🔑 OAuthTokens is the result of a successful code exchange. It is handed
// back to the caller as is and never stored.
type OAuthTokens struct {
	AccessToken  string    `json:"accessToken"`
	TokenType    string    `json:"tokenType,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// ✂️ Shorten derives a short description from a longer one: the first line,
// cut at shortDescriptionLimit runes.
func Shorten(description string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(description), "\n")
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) <= shortDescriptionLimit {
		return line
	}

	runes := []rune(line)
	return strings.TrimSpace(string(runes[:shortDescriptionLimit-1])) + "…"
}

// 🔍 Find returns the single project with the given id. A listing that
// carries the id more than once fails with ErrDuplicateID.
func Find(projects []Project, id int64) (Project, error) {
	var (
		found Project
		count int
	)
	for _, p := range projects {
		if p.ID == id {
			found = p
			count++
		}
	}

	switch count {
	case 0:
		return Project{}, errors.Errorf("%w: %d", ErrNotFound, id)
	case 1:
		return found, nil
	default:
		return Project{}, errors.Errorf("%w: %d appears %d times", ErrDuplicateID, id, count)
	}
}
