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

package source

import (
	"strings"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Registry maps data source GUIDs to entries. It is never written after
// NewRegistry returns, so concurrent reads need no locking.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// 🏭 NewRegistry builds a registry from entries, rejecting invalid and
// duplicate GUIDs.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}

	for i, entry := range entries {
		guid, ok := CanonicalGUID(entry.source.GUID)
		if !ok {
			return nil, errors.Errorf("entry[%d] (%s): invalid guid %q", i, entry.source.Name, entry.source.GUID)
		}

		if existing, dup := r.entries[guid]; dup {
			return nil, errors.Errorf("entry[%d] (%s): guid %s already registered by %q", i, entry.source.Name, guid, existing.source.Name)
		}

		entry.source.GUID = guid
		r.entries[guid] = entry
		r.order = append(r.order, guid)
	}

	return r, nil
}

// 🔑 CanonicalGUID returns the lookup key for s. UUIDs in any accepted
// spelling map to their lower case hyphenated form; other identifiers are
// opaque and only trimmed. Empty identifiers and the nil UUID are rejected.
func CanonicalGUID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return s, true
	}
	if id == uuid.Nil {
		return "", false
	}

	return id.String(), true
}

// 🔍 Resolve returns the entry registered under guid
func (r *Registry) Resolve(guid string) (Entry, bool) {
	key, ok := CanonicalGUID(guid)
	if !ok {
		return Entry{}, false
	}

	entry, ok := r.entries[key]
	return entry, ok
}

// ✅ Exists reports whether a source is registered under guid
func (r *Registry) Exists(guid string) bool {
	_, ok := r.Resolve(guid)
	return ok
}

// 📋 Entries returns the entries in registration order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, guid := range r.order {
		out = append(out, r.entries[guid])
	}
	return out
}

// 📋 List returns the data sources in registration order
func (r *Registry) List() []DataSource {
	out := make([]DataSource, 0, len(r.order))
	for _, guid := range r.order {
		out = append(out, r.entries[guid].source)
	}
	return out
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	return len(r.order)
}
