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
	"sync"
	"time"
)

// fakePage is an in-memory Page. Elements are keyed by Locator.String().
type fakePage struct {
	mu sync.Mutex

	elements map[string]ElementState
	texts    map[string]string
	attrs    map[string]map[string]string
	boxes    map[string]Box
	// predicates maps an expression to the number of evaluations after
	// which it becomes true. A negative value never does.
	predicates map[string]int
	evals      map[string]int
	// onClick mutates the page when the element is clicked.
	onClick map[string]func(*fakePage)

	navErr    error
	failQuery error
	shotErr   error

	calls   []string
	pointer []PointerEvent
	closed  int
}

func newFakePage() *fakePage {
	return &fakePage{
		elements:   make(map[string]ElementState),
		texts:      make(map[string]string),
		attrs:      make(map[string]map[string]string),
		boxes:      make(map[string]Box),
		predicates: make(map[string]int),
		evals:      make(map[string]int),
		onClick:    make(map[string]func(*fakePage)),
	}
}

func (f *fakePage) show(loc Locator) *fakePage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements[loc.String()] = ElementState{Count: 1, Visible: true}
	return f
}

func (f *fakePage) hide(loc Locator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements[loc.String()] = ElementState{Count: 1}
}

func (f *fakePage) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("navigate %s", url)
	return f.navErr
}

func (f *fakePage) Query(ctx context.Context, loc Locator) (ElementState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failQuery != nil {
		return ElementState{}, f.failQuery
	}
	return f.elements[loc.String()], nil
}

func (f *fakePage) Evaluate(ctx context.Context, expr string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals[expr]++
	n, ok := f.predicates[expr]
	if !ok {
		return false, errors.New("ReferenceError: not defined")
	}
	return n >= 0 && f.evals[expr] > n, nil
}

func (f *fakePage) Click(ctx context.Context, loc Locator) error {
	f.mu.Lock()
	f.record("click %s", loc)
	fn := f.onClick[loc.String()]
	f.mu.Unlock()
	if fn != nil {
		fn(f)
	}
	return nil
}

func (f *fakePage) Hover(ctx context.Context, loc Locator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("hover %s", loc)
	return nil
}

func (f *fakePage) ScrollIntoView(ctx context.Context, loc Locator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("scroll %s", loc)
	return nil
}

func (f *fakePage) BoundingBox(ctx context.Context, loc Locator) (Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boxes[loc.String()]
	if !ok {
		return Box{}, errors.New("no box")
	}
	return b, nil
}

func (f *fakePage) Text(ctx context.Context, loc Locator) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.texts[loc.String()], nil
}

func (f *fakePage) Attribute(ctx context.Context, loc Locator, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.attrs[loc.String()][name]
	return v, ok, nil
}

func (f *fakePage) Pointer(ctx context.Context, events []PointerEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointer = append(f.pointer, events...)
	f.record("pointer %d", len(events))
	return nil
}

func (f *fakePage) Press(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("press %s", key)
	return nil
}

func (f *fakePage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("screenshot")
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return []byte("\x89PNG fake"), nil
}

func (f *fakePage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeLauncher struct {
	page     *fakePage
	err      error
	launched int
}

func (l *fakeLauncher) Launch(ctx context.Context, opts Options) (Page, error) {
	l.launched++
	if l.err != nil {
		return nil, l.err
	}
	return l.page, nil
}

func testOptions(dir string) Options {
	opts := DefaultOptions()
	opts.Timeout = 200 * time.Millisecond
	opts.NavigationTimeout = time.Second
	opts.PollInterval = 10 * time.Millisecond
	opts.OutputDir = dir
	opts.Logf = func(string, ...any) {}
	return opts
}
