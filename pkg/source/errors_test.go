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
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestUpstreamError(t *testing.T) {
	t.Run("matches_upstream_and_cause", func(t *testing.T) {
		err := NewUpstreamError("GitHub", "list", errors.Errorf("listing: %w", ErrUpstreamAuth))

		assert.ErrorIs(t, err, ErrUpstream, "should match the upstream sentinel")
		assert.ErrorIs(t, err, ErrUpstreamAuth, "should match the wrapped cause")
		assert.NotErrorIs(t, err, ErrSourceNotFound, "should not match unrelated sentinels")

		var upstream *UpstreamError
		assert.True(t, errors.As(err, &upstream), "should unwrap to UpstreamError")
		assert.Equal(t, "GitHub", upstream.Source, "source should be kept")
		assert.Equal(t, "list", upstream.Op, "op should be kept")
	})

	t.Run("nil_stays_nil", func(t *testing.T) {
		assert.NoError(t, NewUpstreamError("GitHub", "list", nil), "nil error should stay nil")
	})

	t.Run("does_not_double_wrap", func(t *testing.T) {
		inner := NewUpstreamError("GitHub", "list", errors.New("boom"))
		outer := NewUpstreamError("Other", "retry", inner)
		assert.Equal(t, inner, outer, "already wrapped error should be returned as is")
	})
}
