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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrSourceNotFound is returned when no source is registered under a guid
	ErrSourceNotFound = errors.Base("data source not found")

	// ErrCapabilityMismatch is returned when a call needs a capability the
	// source's kind does not expose
	ErrCapabilityMismatch = errors.Base("data source does not support this operation")

	// ErrOAuthExchange is returned when the provider rejects an authorization code
	ErrOAuthExchange = errors.Base("oauth code exchange failed")

	// ErrUpstream marks any failure talking to the external system
	ErrUpstream = errors.Base("upstream source failed")

	// ErrUpstreamAuth is returned when the external system rejects the access token
	ErrUpstreamAuth = errors.Base("upstream source rejected the access token")

	// ErrProjectNotFound is returned when no project matches a lookup
	ErrProjectNotFound = errors.Base("project not found")

	// ErrInvalidRequest is returned for malformed caller input
	ErrInvalidRequest = errors.Base("invalid request")
)

// 💥 UpstreamError wraps a failure of an adaptee call with the source and
// operation it happened in. It matches ErrUpstream, and whatever the
// wrapped error matches.
type UpstreamError struct {
	Source string
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports ErrUpstream as a match.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// 🔁 NewUpstreamError wraps err unless it is nil or already an UpstreamError.
func NewUpstreamError(sourceName, op string, err error) error {
	if err == nil {
		return nil
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return err
	}

	return errors.WithStack(&UpstreamError{Source: sourceName, Op: op, Err: err})
}
