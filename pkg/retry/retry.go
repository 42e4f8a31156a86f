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

// Package retry holds the policies applied around upstream calls.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔁 Policy runs an operation, possibly more than once
type Policy interface {
	Do(ctx context.Context, op func(ctx context.Context) error) error
}

// 1️⃣ None runs the operation exactly once
type None struct{}

// Do runs op once.
func (None) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return op(ctx)
}

// 📈 Exponential retries with randomized exponential backoff until the
// operation succeeds, MaxTries is reached or ctx is done.
type Exponential struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// Permanent reports errors that must not be retried. Context
	// cancellation is always permanent.
	Permanent func(error) bool
}

// Do runs op under the backoff schedule.
func (e Exponential) Do(ctx context.Context, op func(ctx context.Context) error) error {
	logger := zerolog.Ctx(ctx)

	b := backoff.NewExponentialBackOff()
	if e.InitialInterval > 0 {
		b.InitialInterval = e.InitialInterval
	}
	if e.MaxInterval > 0 {
		b.MaxInterval = e.MaxInterval
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debug().Err(err).Dur("next", next).Msg("retrying upstream call")
		}),
	}
	if e.MaxTries > 0 {
		opts = append(opts, backoff.WithMaxTries(e.MaxTries))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op(ctx)
		if err == nil {
			return struct{}{}, nil
		}
		if e.isPermanent(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, opts...)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}

func (e Exponential) isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return e.Permanent != nil && e.Permanent(err)
}
