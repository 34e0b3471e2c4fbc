// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package runner

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errExpired is returned by poll when the condition did not hold before the
// deadline. Callers translate it into ErrTimeout or ErrAssertion.
var errExpired = errors.New("condition not met before deadline")

// poll calls check every interval until it reports true or timeout elapses.
// The final check runs at or after the deadline, so a condition that never
// holds fails no earlier than timeout. Errors from check are treated as
// "not yet" and reported with the expiry, except ErrSessionClosed.
func poll(ctx context.Context, timeout, interval time.Duration, check func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		probeCtx, cancel := context.WithTimeout(ctx, max(time.Until(deadline), interval))
		ok, err := check(probeCtx)
		cancel()
		if err == nil && ok {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrSessionClosed) {
				return err
			}
			lastErr = err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr != nil {
				return fmt.Errorf("%w (last error: %v)", errExpired, lastErr)
			}
			return errExpired
		}
		timer := time.NewTimer(min(interval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// waitState polls until loc is in state.
func waitState(ctx context.Context, p Page, loc Locator, state string, timeout, interval time.Duration) (ElementState, error) {
	var last ElementState
	err := poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		es, err := p.Query(ctx, loc)
		if err != nil {
			return false, err
		}
		last = es
		return es.In(state), nil
	})
	return last, err
}

// sleep suspends for d unless ctx ends first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
