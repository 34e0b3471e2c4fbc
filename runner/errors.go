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
	"errors"
	"fmt"
)

var (
	// ErrLaunch means the browser or page could not be started.
	ErrLaunch = errors.New("launch failed")
	// ErrNavigation means the target address was unreachable or did not finish loading.
	ErrNavigation = errors.New("navigation failed")
	// ErrTimeout means a wait condition did not become true in time.
	ErrTimeout = errors.New("timeout")
	// ErrAssertion means the observed page state contradicts the expectation.
	ErrAssertion = errors.New("assertion failed")
	// ErrCapture means a screenshot could not be taken or written.
	ErrCapture = errors.New("capture failed")
	// ErrSessionClosed means a step was issued against a released session.
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidStep means a step is missing parameters its kind requires.
	ErrInvalidStep = errors.New("invalid step")
)

// StepError reports the first failing step of a scenario.
type StepError struct {
	Scenario    string
	Index       int
	Kind        Kind
	Description string
	Err         error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("scenario %s: step %d (%s: %s): %v", e.Scenario, e.Index, e.Kind, e.Description, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
