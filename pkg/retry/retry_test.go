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

package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

var errFlaky = errors.Base("flaky")

func counter(failures int, err error) (func(ctx context.Context) error, *int) {
	calls := 0
	return func(ctx context.Context) error {
		calls++
		if calls <= failures {
			return err
		}
		return nil
	}, &calls
}

func TestNone(t *testing.T) {
	op, calls := counter(1, errFlaky)

	err := None{}.Do(context.Background(), op)
	assert.ErrorIs(t, err, errFlaky, "error should be returned as is")
	assert.Equal(t, 1, *calls, "operation should run exactly once")
}

func TestExponential(t *testing.T) {
	fast := Exponential{
		MaxTries:        3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}

	t.Run("recovers_after_transient_failures", func(t *testing.T) {
		op, calls := counter(2, errFlaky)
		require.NoError(t, fast.Do(context.Background(), op), "third attempt should succeed")
		assert.Equal(t, 3, *calls, "operation should run three times")
	})

	t.Run("gives_up_after_max_tries", func(t *testing.T) {
		op, calls := counter(10, errFlaky)
		err := fast.Do(context.Background(), op)
		assert.ErrorIs(t, err, errFlaky, "last error should be returned")
		assert.Equal(t, 3, *calls, "operation should stop at max tries")
	})

	t.Run("permanent_errors_stop_immediately", func(t *testing.T) {
		p := fast
		p.Permanent = func(err error) bool { return errors.Is(err, errFlaky) }

		op, calls := counter(10, errFlaky)
		err := p.Do(context.Background(), op)
		assert.ErrorIs(t, err, errFlaky, "permanent error should be returned unwrapped")
		assert.Equal(t, 1, *calls, "permanent error should not be retried")
	})

	t.Run("context_errors_are_permanent", func(t *testing.T) {
		op, calls := counter(10, context.DeadlineExceeded)
		err := fast.Do(context.Background(), op)
		assert.ErrorIs(t, err, context.DeadlineExceeded, "context error should be returned")
		assert.Equal(t, 1, *calls, "context error should not be retried")
	})

	t.Run("cancelled_context_stops_waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := Exponential{MaxTries: 5, InitialInterval: time.Hour, MaxInterval: time.Hour}

		op := func(ctx context.Context) error {
			cancel()
			return errFlaky
		}
		err := slow.Do(ctx, op)
		assert.ErrorIs(t, err, context.Canceled, "cancellation should end the retry loop")
	})
}
