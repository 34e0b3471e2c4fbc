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
	"fmt"
	"strings"
	"time"
)

// Kind identifies the action a Step performs.
type Kind string

const (
	KindNavigate          Kind = "navigate"
	KindWaitForSelector   Kind = "wait-for-selector"
	KindWaitForTimeout    Kind = "wait-for-timeout"
	KindWaitForPredicate  Kind = "wait-for-predicate"
	KindPointerSequence   Kind = "pointer-sequence"
	KindKeyPress          Kind = "key-press"
	KindAssertVisible     Kind = "assert-visible"
	KindAssertHidden      Kind = "assert-hidden"
	KindCaptureScreenshot Kind = "capture-screenshot"
	KindClick             Kind = "click"
	KindHover             Kind = "hover"
	KindScrollIntoView    Kind = "scroll-into-view"
	KindAssertText        Kind = "assert-text"
	KindAssertAttribute   Kind = "assert-attribute"
)

var knownKinds = map[Kind]bool{
	KindNavigate:          true,
	KindWaitForSelector:   true,
	KindWaitForTimeout:    true,
	KindWaitForPredicate:  true,
	KindPointerSequence:   true,
	KindKeyPress:          true,
	KindAssertVisible:     true,
	KindAssertHidden:      true,
	KindCaptureScreenshot: true,
	KindClick:             true,
	KindHover:             true,
	KindScrollIntoView:    true,
	KindAssertText:        true,
	KindAssertAttribute:   true,
}

// Valid reports whether k is a step kind the runner knows how to execute.
func (k Kind) Valid() bool {
	return knownKinds[k]
}

// PointerEvent is one element of a pointer sequence. X and Y are offsets from
// the step's anchor (the centre of its locator's bounding box) or absolute
// viewport coordinates when the step has no locator. A move with Steps > 1 is
// delivered as that many interpolated moves ending at (X, Y).
type PointerEvent struct {
	Action string
	X, Y   float64
	Steps  int
}

// Step is one immutable action of a scenario. Only the fields relevant to
// Kind are consulted.
type Step struct {
	Kind        Kind
	Description string

	URL        string
	Locator    Locator
	State      string
	Expression string
	Timeout    time.Duration
	Duration   time.Duration
	Pointer    []PointerEvent
	Key        string
	Path       string
	FullPage   bool
	Attribute  string
	Value      string
	Exact      bool
}

// WithTimeout returns a copy of s with its per-step timeout set to d.
func (s Step) WithTimeout(d time.Duration) Step {
	s.Timeout = d
	return s
}

// Describe returns a copy of s with a human readable description.
func (s Step) Describe(desc string) Step {
	s.Description = desc
	return s
}

// String describes the step for logs and error messages.
func (s Step) String() string {
	if s.Description != "" {
		return s.Description
	}
	switch s.Kind {
	case KindNavigate:
		return fmt.Sprintf("navigate %s", s.URL)
	case KindWaitForSelector:
		return fmt.Sprintf("wait for %s to be %s", s.Locator, s.state())
	case KindWaitForTimeout:
		return fmt.Sprintf("wait %s", s.Duration)
	case KindWaitForPredicate:
		return fmt.Sprintf("wait for %s", oneLine(s.Expression))
	case KindPointerSequence:
		if s.Locator.IsZero() {
			return fmt.Sprintf("pointer sequence (%d events)", len(s.Pointer))
		}
		return fmt.Sprintf("pointer sequence on %s (%d events)", s.Locator, len(s.Pointer))
	case KindKeyPress:
		return fmt.Sprintf("press %s", s.Key)
	case KindAssertVisible:
		return fmt.Sprintf("expect %s visible", s.Locator)
	case KindAssertHidden:
		return fmt.Sprintf("expect %s hidden", s.Locator)
	case KindCaptureScreenshot:
		if s.Locator.IsZero() {
			return fmt.Sprintf("screenshot %s", s.Path)
		}
		return fmt.Sprintf("screenshot %s to %s", s.Locator, s.Path)
	case KindClick:
		return fmt.Sprintf("click %s", s.Locator)
	case KindHover:
		return fmt.Sprintf("hover %s", s.Locator)
	case KindScrollIntoView:
		return fmt.Sprintf("scroll %s into view", s.Locator)
	case KindAssertText:
		if !s.Exact {
			return fmt.Sprintf("expect %s text containing %q", s.Locator, s.Value)
		}
		return fmt.Sprintf("expect %s text %q", s.Locator, s.Value)
	case KindAssertAttribute:
		if !s.Exact {
			return fmt.Sprintf("expect %s[%s] containing %q", s.Locator, s.Attribute, s.Value)
		}
		return fmt.Sprintf("expect %s[%s] = %q", s.Locator, s.Attribute, s.Value)
	}
	return string(s.Kind)
}

func (s Step) state() string {
	if s.State == "" {
		return StateVisible
	}
	return s.State
}

// Validate checks that the step carries the parameters its kind requires.
func (s Step) Validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStep, s.Kind)
	}
	needLocator := func() error {
		if s.Locator.IsZero() {
			return fmt.Errorf("%w: %s requires a locator", ErrInvalidStep, s.Kind)
		}
		return nil
	}
	switch s.Kind {
	case KindNavigate:
		if s.URL == "" {
			return fmt.Errorf("%w: navigate requires a url", ErrInvalidStep)
		}
	case KindWaitForSelector:
		switch s.state() {
		case StateAttached, StateVisible, StateHidden, StateDetached:
		default:
			return fmt.Errorf("%w: unknown wait state %q", ErrInvalidStep, s.State)
		}
		return needLocator()
	case KindWaitForTimeout:
		if s.Duration <= 0 {
			return fmt.Errorf("%w: wait-for-timeout requires a positive duration", ErrInvalidStep)
		}
	case KindWaitForPredicate:
		if strings.TrimSpace(s.Expression) == "" {
			return fmt.Errorf("%w: wait-for-predicate requires an expression", ErrInvalidStep)
		}
	case KindPointerSequence:
		if len(s.Pointer) == 0 {
			return fmt.Errorf("%w: pointer-sequence requires events", ErrInvalidStep)
		}
		for i, ev := range s.Pointer {
			switch ev.Action {
			case PointerMove, PointerDown, PointerUp:
			default:
				return fmt.Errorf("%w: pointer event %d has unknown action %q", ErrInvalidStep, i, ev.Action)
			}
		}
	case KindKeyPress:
		if s.Key == "" {
			return fmt.Errorf("%w: key-press requires a key", ErrInvalidStep)
		}
	case KindCaptureScreenshot:
		if s.Path == "" {
			return fmt.Errorf("%w: capture-screenshot requires a path", ErrInvalidStep)
		}
	case KindAssertAttribute:
		if s.Attribute == "" {
			return fmt.Errorf("%w: assert-attribute requires an attribute name", ErrInvalidStep)
		}
		return needLocator()
	case KindAssertVisible, KindAssertHidden, KindClick, KindHover, KindScrollIntoView, KindAssertText:
		return needLocator()
	}
	return nil
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}

// --- Constructors ---

// Navigate loads url, which may be relative to the base URL.
func Navigate(url string) Step {
	return Step{Kind: KindNavigate, URL: url}
}

// WaitFor waits until loc reaches state.
func WaitFor(loc Locator, state string) Step {
	return Step{Kind: KindWaitForSelector, Locator: loc, State: state}
}

// WaitVisible waits until loc is visible.
func WaitVisible(loc Locator) Step {
	return WaitFor(loc, StateVisible)
}

// Sleep suspends for d. Only for animations without an observable completion signal.
func Sleep(d time.Duration) Step {
	return Step{Kind: KindWaitForTimeout, Duration: d}
}

// WaitUntil polls the boolean JavaScript expression until it is true.
func WaitUntil(expr string) Step {
	return Step{Kind: KindWaitForPredicate, Expression: expr}
}

// Pointer replays events anchored at the centre of loc. A zero loc means the
// coordinates are absolute.
func Pointer(loc Locator, events ...PointerEvent) Step {
	return Step{Kind: KindPointerSequence, Locator: loc, Pointer: events}
}

// Drag presses at the centre of loc, moves by (dx, dy) in steps interpolated
// moves and releases.
func Drag(loc Locator, dx, dy float64, steps int) Step {
	return Pointer(loc,
		PointerEvent{Action: PointerMove},
		PointerEvent{Action: PointerDown},
		PointerEvent{Action: PointerMove, X: dx, Y: dy, Steps: steps},
		PointerEvent{Action: PointerUp, X: dx, Y: dy},
	)
}

// Press dispatches a single key, e.g. "Escape".
func Press(key string) Step {
	return Step{Kind: KindKeyPress, Key: key}
}

// ExpectVisible asserts that loc is visible.
func ExpectVisible(loc Locator) Step {
	return Step{Kind: KindAssertVisible, Locator: loc}
}

// ExpectHidden asserts that loc is hidden or absent.
func ExpectHidden(loc Locator) Step {
	return Step{Kind: KindAssertHidden, Locator: loc}
}

// Screenshot captures the viewport to path.
func Screenshot(path string) Step {
	return Step{Kind: KindCaptureScreenshot, Path: path}
}

// FullScreenshot captures the whole page to path.
func FullScreenshot(path string) Step {
	return Step{Kind: KindCaptureScreenshot, Path: path, FullPage: true}
}

// ElementScreenshot captures the area of loc to path.
func ElementScreenshot(loc Locator, path string) Step {
	return Step{Kind: KindCaptureScreenshot, Locator: loc, Path: path}
}

// Click clicks the centre of loc.
func Click(loc Locator) Step {
	return Step{Kind: KindClick, Locator: loc}
}

// Hover moves the pointer over loc.
func Hover(loc Locator) Step {
	return Step{Kind: KindHover, Locator: loc}
}

// ScrollIntoView scrolls loc into the viewport.
func ScrollIntoView(loc Locator) Step {
	return Step{Kind: KindScrollIntoView, Locator: loc}
}

// ExpectText asserts that the text content of loc contains want.
func ExpectText(loc Locator, want string) Step {
	return Step{Kind: KindAssertText, Locator: loc, Value: want}
}

// ExpectExactText asserts that the trimmed text content of loc equals want.
func ExpectExactText(loc Locator, want string) Step {
	return Step{Kind: KindAssertText, Locator: loc, Value: want, Exact: true}
}

// ExpectAttribute asserts that attribute name of loc equals want.
func ExpectAttribute(loc Locator, name, want string) Step {
	return Step{Kind: KindAssertAttribute, Locator: loc, Attribute: name, Value: want, Exact: true}
}

// ExpectAttributeContains asserts that attribute name of loc contains want,
// ignoring case.
func ExpectAttributeContains(loc Locator, name, want string) Step {
	return Step{Kind: KindAssertAttribute, Locator: loc, Attribute: name, Value: want}
}
