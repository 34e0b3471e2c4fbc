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
	"fmt"
	"sync"
)

// ScreenshotOptions selects what a capture covers. A nil Locator captures the
// viewport, or the whole page when FullPage is set.
type ScreenshotOptions struct {
	Locator  *Locator
	FullPage bool
}

// Page is one browser page as seen by the runner. Implementations only
// perform single observations or actions; waiting and polling are done by
// the runner.
type Page interface {
	// Navigate loads url and returns once the page's load event fired.
	Navigate(ctx context.Context, url string) error
	// Query observes the element matched by loc.
	Query(ctx context.Context, loc Locator) (ElementState, error)
	// Evaluate evaluates a JavaScript expression that yields a boolean.
	Evaluate(ctx context.Context, expr string) (bool, error)
	Click(ctx context.Context, loc Locator) error
	Hover(ctx context.Context, loc Locator) error
	ScrollIntoView(ctx context.Context, loc Locator) error
	BoundingBox(ctx context.Context, loc Locator) (Box, error)
	// Text returns the text content of loc.
	Text(ctx context.Context, loc Locator) (string, error)
	// Attribute returns the value of attribute name of loc and whether it is set.
	Attribute(ctx context.Context, loc Locator, name string) (string, bool, error)
	// Pointer dispatches events in order. Coordinates are absolute and moves
	// are single-step.
	Pointer(ctx context.Context, events []PointerEvent) error
	Press(ctx context.Context, key string) error
	Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
	// Close closes the page and the browser that owns it.
	Close() error
}

// Launcher starts a browser and opens one page in it.
type Launcher interface {
	Launch(ctx context.Context, opts Options) (Page, error)
}

// Session owns one browser page for the lifetime of a scenario.
type Session struct {
	mu       sync.Mutex
	page     Page
	released bool
}

// AcquireSession starts a browser and opens a page. The caller must call
// Release on every exit path.
func AcquireSession(ctx context.Context, l Launcher, opts Options) (*Session, error) {
	p, err := l.Launch(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: launcher returned no page", ErrLaunch)
	}
	return &Session{page: p}, nil
}

// Page returns the session's page, or ErrSessionClosed after Release.
func (s *Session) Page() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrSessionClosed
	}
	return s.page, nil
}

// Release closes the page and browser. Only the first call has an effect.
func (s *Session) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil
	}
	s.released = true
	p := s.page
	s.page = nil
	s.mu.Unlock()
	return p.Close()
}
