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
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scenario is an ordered list of steps run against one page.
type Scenario struct {
	Name  string
	Steps []Step
}

// Validate checks the scenario before any browser is started.
func (sc Scenario) Validate() error {
	if strings.TrimSpace(sc.Name) == "" {
		return fmt.Errorf("%w: scenario has no name", ErrInvalidStep)
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: scenario %s has no steps", ErrInvalidStep, sc.Name)
	}
	for i, s := range sc.Steps {
		if err := s.Validate(); err != nil {
			return &StepError{Scenario: sc.Name, Index: i, Kind: s.Kind, Description: s.String(), Err: err}
		}
	}
	return nil
}

// StepResult records how one executed step went.
type StepResult struct {
	Index       int
	Kind        Kind
	Description string
	Duration    time.Duration
	// Observed is the state the step established or verified, e.g.
	// "visible" or the captured file name. It never holds timings.
	Observed string
	// Artifact is the file written by a capture step.
	Artifact string
	Err      error
}

// Result is the outcome of one scenario run. Steps holds every step that was
// started, the failing one last.
type Result struct {
	Scenario  string
	StartedAt time.Time
	Duration  time.Duration
	Steps     []StepResult
	Artifacts []string
	Err       error
}

// Passed reports whether every step completed.
func (r *Result) Passed() bool {
	return r.Err == nil
}

// Runner executes scenarios. A Runner holds no per-scenario state and may
// run several scenarios concurrently, each in its own Session.
type Runner struct {
	launcher Launcher
	opts     Options
}

// New returns a Runner that acquires sessions from l.
func New(l Launcher, opts Options) *Runner {
	return &Runner{launcher: l, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (r *Runner) Options() Options {
	return r.opts
}

func (r *Runner) logf(format string, args ...any) {
	if r.opts.Logf != nil {
		r.opts.Logf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Run acquires a session, executes the steps of sc in order and releases the
// session exactly once, whatever happened. It stops at the first failing
// step and returns a *StepError describing it.
func (r *Runner) Run(ctx context.Context, sc Scenario) (res *Result, err error) {
	res = &Result{Scenario: sc.Name, StartedAt: time.Now()}
	defer func() {
		res.Duration = time.Since(res.StartedAt)
		res.Err = err
	}()

	if err := sc.Validate(); err != nil {
		return res, err
	}

	sess, err := AcquireSession(ctx, r.launcher, r.opts)
	if err != nil {
		return res, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	defer func() {
		if rerr := sess.Release(); rerr != nil {
			r.logf("scenario %s: releasing session: %v", sc.Name, rerr)
		}
	}()

	for i, step := range sc.Steps {
		r.logf("STEP %d: %s", i, step)
		sr, serr := r.RunStep(ctx, sess, step)
		sr.Index = i
		res.Steps = append(res.Steps, sr)
		if sr.Artifact != "" {
			res.Artifacts = append(res.Artifacts, sr.Artifact)
		}
		if serr != nil {
			r.logf("STEP FAILED: %s [%d]: %v", step, i, serr)
			r.debugFailure(ctx, sess, sc.Name, i)
			return res, &StepError{Scenario: sc.Name, Index: i, Kind: step.Kind, Description: step.String(), Err: serr}
		}
	}
	return res, nil
}

// RunStep performs a single step against the session's page.
func (r *Runner) RunStep(ctx context.Context, s *Session, step Step) (StepResult, error) {
	sr := StepResult{Kind: step.Kind, Description: step.String()}
	start := time.Now()
	err := r.runStep(ctx, s, step, &sr)
	sr.Duration = time.Since(start)
	sr.Err = err
	return sr, err
}

func (r *Runner) timeoutFor(step Step) time.Duration {
	if step.Timeout > 0 {
		return step.Timeout
	}
	return r.opts.Timeout
}

func (r *Runner) runStep(ctx context.Context, s *Session, step Step, sr *StepResult) error {
	p, err := s.Page()
	if err != nil {
		return err
	}
	if err := step.Validate(); err != nil {
		return err
	}
	timeout := r.timeoutFor(step)
	interval := r.opts.PollInterval

	switch step.Kind {
	case KindNavigate:
		target, err := r.opts.ResolveURL(step.URL)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNavigation, err)
		}
		navTimeout := r.opts.NavigationTimeout
		if step.Timeout > 0 {
			navTimeout = step.Timeout
		}
		nctx, cancel := context.WithTimeout(ctx, navTimeout)
		defer cancel()
		if err := p.Navigate(nctx, target); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNavigation, target, err)
		}
		sr.Observed = step.URL

	case KindWaitForSelector:
		state := step.state()
		if _, err := waitState(ctx, p, step.Locator, state, timeout, interval); err != nil {
			return waitError(ErrTimeout, err, "waiting %s for %s to be %s", timeout, step.Locator, state)
		}
		sr.Observed = state

	case KindWaitForTimeout:
		if err := sleep(ctx, step.Duration); err != nil {
			return err
		}

	case KindWaitForPredicate:
		err := poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
			return p.Evaluate(ctx, step.Expression)
		})
		if err != nil {
			return waitError(ErrTimeout, err, "waiting %s for %s", timeout, oneLine(step.Expression))
		}
		sr.Observed = "true"

	case KindPointerSequence:
		var ox, oy float64
		if !step.Locator.IsZero() {
			box, err := r.visibleBox(ctx, p, step.Locator, timeout)
			if err != nil {
				return err
			}
			ox, oy = box.Center()
		}
		events := expandPointer(ox, oy, step.Pointer)
		actx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := p.Pointer(actx, events); err != nil {
			return fmt.Errorf("pointer sequence: %w", err)
		}
		sr.Observed = fmt.Sprintf("%d events", len(events))

	case KindKeyPress:
		actx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := p.Press(actx, step.Key); err != nil {
			return fmt.Errorf("press %s: %w", step.Key, err)
		}
		sr.Observed = step.Key

	case KindAssertVisible, KindAssertHidden:
		want := StateVisible
		if step.Kind == KindAssertHidden {
			want = StateHidden
		}
		last, err := waitState(ctx, p, step.Locator, want, timeout, interval)
		if err != nil {
			return waitError(ErrAssertion, err, "expected %s to be %s within %s (matches: %d, visible: %t)", step.Locator, want, timeout, last.Count, last.Visible)
		}
		sr.Observed = want

	case KindCaptureScreenshot:
		opts := ScreenshotOptions{FullPage: step.FullPage}
		if !step.Locator.IsZero() {
			if _, err := waitState(ctx, p, step.Locator, StateVisible, timeout, interval); err != nil {
				return waitError(ErrTimeout, err, "waiting %s for %s to be visible", timeout, step.Locator)
			}
			loc := step.Locator
			opts.Locator = &loc
		}
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		buf, err := p.Screenshot(cctx, opts)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCapture, err)
		}
		path := r.outputPath(step.Path)
		if err := writeFile(path, buf); err != nil {
			return fmt.Errorf("%w: %w", ErrCapture, err)
		}
		r.logf("Saved screenshot to %s", path)
		sr.Artifact = path
		sr.Observed = filepath.Base(path)

	case KindClick, KindHover, KindScrollIntoView:
		if _, err := waitState(ctx, p, step.Locator, StateVisible, timeout, interval); err != nil {
			return waitError(ErrTimeout, err, "waiting %s for %s to be visible", timeout, step.Locator)
		}
		actx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		var err error
		switch step.Kind {
		case KindClick:
			err = p.Click(actx, step.Locator)
		case KindHover:
			err = p.Hover(actx, step.Locator)
		default:
			err = p.ScrollIntoView(actx, step.Locator)
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", step.Kind, step.Locator, err)
		}

	case KindAssertText:
		var got string
		err := poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
			t, err := p.Text(ctx, step.Locator)
			if err != nil {
				return false, err
			}
			got = t
			return textMatches(t, step.Value, step.Exact), nil
		})
		if err != nil {
			return waitError(ErrAssertion, err, "expected %s text %q, got %q", step.Locator, step.Value, got)
		}
		sr.Observed = step.Value

	case KindAssertAttribute:
		var got string
		var present bool
		err := poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
			v, ok, err := p.Attribute(ctx, step.Locator, step.Attribute)
			if err != nil {
				return false, err
			}
			got, present = v, ok
			return ok && textMatches(v, step.Value, step.Exact), nil
		})
		if err != nil {
			if !present {
				return waitError(ErrAssertion, err, "expected %s to have attribute %s", step.Locator, step.Attribute)
			}
			return waitError(ErrAssertion, err, "expected %s[%s] = %q, got %q", step.Locator, step.Attribute, step.Value, got)
		}
		sr.Observed = step.Value

	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, step.Kind)
	}
	return nil
}

func (r *Runner) visibleBox(ctx context.Context, p Page, loc Locator, timeout time.Duration) (Box, error) {
	if _, err := waitState(ctx, p, loc, StateVisible, timeout, r.opts.PollInterval); err != nil {
		return Box{}, waitError(ErrTimeout, err, "waiting %s for %s to be visible", timeout, loc)
	}
	bctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	box, err := p.BoundingBox(bctx, loc)
	if err != nil {
		return Box{}, fmt.Errorf("bounding box of %s: %w", loc, err)
	}
	return box, nil
}

// waitError maps a poll expiry to kind. Other errors (context cancellation,
// closed session) are returned as they are.
func waitError(kind, err error, format string, args ...any) error {
	if !errors.Is(err, errExpired) {
		return err
	}
	msg := fmt.Sprintf(format, args...)
	if err == errExpired {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: %s: %v", kind, msg, err)
}

func textMatches(got, want string, exact bool) bool {
	got = strings.Join(strings.Fields(got), " ")
	want = strings.Join(strings.Fields(want), " ")
	if exact {
		return got == want
	}
	return strings.Contains(strings.ToLower(got), strings.ToLower(want))
}

func (r *Runner) outputPath(p string) string {
	if filepath.IsAbs(p) || r.opts.OutputDir == "" {
		return p
	}
	return filepath.Join(r.opts.OutputDir, p)
}

// debugFailure saves a best-effort screenshot of the page after a failed step.
func (r *Runner) debugFailure(ctx context.Context, s *Session, scenario string, idx int) {
	if r.opts.DebugDir == "" {
		return
	}
	p, err := s.Page()
	if err != nil {
		return
	}
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	buf, err := p.Screenshot(dctx, ScreenshotOptions{})
	if err != nil {
		r.logf("DEBUG: Failed to capture screenshot: %v", err)
		return
	}
	name := filepath.Join(r.opts.DebugDir, fmt.Sprintf("debug-%s-step%d.png", fileSafe(scenario), idx))
	if err := writeFile(name, buf); err != nil {
		r.logf("DEBUG: Failed to save screenshot: %v", err)
		return
	}
	r.logf("DEBUG: Saved screenshot to %s", name)
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("failed to create directory for screenshot: %w", err)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot to file: %w", err)
	}
	return nil
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
