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

package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/ttbt-io/weddingverify/runner"
)

// Playwright launches Chromium through playwright-go. The driver and browser
// binaries must be installed, see Install.
type Playwright struct{}

// Install downloads the Playwright driver and Chromium.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// Launch implements runner.Launcher.
func (Playwright) Launch(ctx context.Context, opts runner.Options) (runner.Page, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if ms, ok := millis(ctx); ok {
		launch.Timeout = playwright.Float(ms)
	}
	b, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	pg, err := b.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return &pwPage{pw: pw, browser: b, page: pg}, nil
}

type pwPage struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// millis converts the time left until ctx's deadline into a Playwright
// timeout. Playwright treats 0 as "no timeout", so an expired context maps
// to 1ms.
func millis(ctx context.Context) (float64, bool) {
	d, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	return max(float64(time.Until(d).Milliseconds()), 1), true
}

// await runs f until it returns or ctx is done, whichever comes first. It
// bounds Playwright calls that take no timeout of their own.
func await[T any](ctx context.Context, f func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := f()
		ch <- result{v, err}
	}()
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *pwPage) locator(loc runner.Locator) playwright.Locator {
	return p.matches(loc).Nth(loc.Nth)
}

// matches returns every element matching loc, ignoring Nth.
func (p *pwPage) matches(loc runner.Locator) playwright.Locator {
	var l playwright.Locator
	switch {
	case loc.CSS != "":
		l = p.page.Locator(loc.CSS)
		if loc.Role != "" {
			l = l.And(p.role(loc))
		}
	case loc.TestID != "":
		l = p.page.GetByTestId(loc.TestID)
	case loc.Role != "":
		l = p.role(loc)
	case loc.Label != "":
		l = p.page.GetByLabel(loc.Label)
	default:
		l = p.page.GetByText(loc.Text)
	}
	if loc.Text != "" && (loc.CSS != "" || loc.TestID != "" || loc.Role != "" || loc.Label != "") {
		l = l.Filter(playwright.LocatorFilterOptions{HasText: loc.Text})
	}
	return l
}

func (p *pwPage) role(loc runner.Locator) playwright.Locator {
	var o playwright.PageGetByRoleOptions
	if loc.Name != "" {
		o.Name = loc.Name
	}
	return p.page.GetByRole(playwright.AriaRole(loc.Role), o)
}

func (p *pwPage) Navigate(ctx context.Context, url string) error {
	o := playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad}
	if ms, ok := millis(ctx); ok {
		o.Timeout = playwright.Float(ms)
	}
	_, err := p.page.Goto(url, o)
	return err
}

func (p *pwPage) Query(ctx context.Context, loc runner.Locator) (runner.ElementState, error) {
	n, err := p.matches(loc).Count()
	if err != nil {
		return runner.ElementState{}, err
	}
	// Matches before the selected one do not count.
	n = max(n-loc.Nth, 0)
	if n == 0 {
		return runner.ElementState{}, nil
	}
	visible, err := p.locator(loc).IsVisible()
	if err != nil {
		return runner.ElementState{}, err
	}
	return runner.ElementState{Count: n, Visible: visible}, nil
}

func (p *pwPage) Evaluate(ctx context.Context, expr string) (bool, error) {
	v, err := await(ctx, func() (any, error) {
		return p.page.Evaluate(predicateExpr(expr))
	})
	if err != nil {
		return false, err
	}
	ok, _ := v.(bool)
	return ok, nil
}

func (p *pwPage) Click(ctx context.Context, loc runner.Locator) error {
	o := playwright.LocatorClickOptions{}
	if ms, ok := millis(ctx); ok {
		o.Timeout = playwright.Float(ms)
	}
	return p.locator(loc).Click(o)
}

func (p *pwPage) Hover(ctx context.Context, loc runner.Locator) error {
	o := playwright.LocatorHoverOptions{}
	if ms, ok := millis(ctx); ok {
		o.Timeout = playwright.Float(ms)
	}
	return p.locator(loc).Hover(o)
}

func (p *pwPage) ScrollIntoView(ctx context.Context, loc runner.Locator) error {
	o := playwright.LocatorScrollIntoViewIfNeededOptions{}
	if ms, ok := millis(ctx); ok {
		o.Timeout = playwright.Float(ms)
	}
	return p.locator(loc).ScrollIntoViewIfNeeded(o)
}

func (p *pwPage) BoundingBox(ctx context.Context, loc runner.Locator) (runner.Box, error) {
	o := playwright.LocatorBoundingBoxOptions{}
	if ms, ok := millis(ctx); ok {
		o.Timeout = playwright.Float(ms)
	}
	r, err := p.locator(loc).BoundingBox(o)
	if err != nil {
		return runner.Box{}, err
	}
	if r == nil {
		return runner.Box{}, fmt.Errorf("%s is not rendered", loc)
	}
	return runner.Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}

func (p *pwPage) Text(ctx context.Context, loc runner.Locator) (string, error) {
	o := playwright.LocatorTextContentOptions{}
	if ms, ok := millis(ctx); ok {
		o.Timeout = playwright.Float(ms)
	}
	return p.locator(loc).TextContent(o)
}

func (p *pwPage) Attribute(ctx context.Context, loc runner.Locator, name string) (string, bool, error) {
	l := p.locator(loc)
	eo := playwright.LocatorEvaluateOptions{}
	ao := playwright.LocatorGetAttributeOptions{}
	if ms, ok := millis(ctx); ok {
		eo.Timeout = playwright.Float(ms)
		ao.Timeout = playwright.Float(ms)
	}
	present, err := l.Evaluate(`(el, name) => el.hasAttribute(name)`, name, eo)
	if err != nil {
		return "", false, err
	}
	if ok, _ := present.(bool); !ok {
		return "", false, nil
	}
	v, err := l.GetAttribute(name, ao)
	return v, true, err
}

func (p *pwPage) Pointer(ctx context.Context, events []runner.PointerEvent) error {
	m := p.page.Mouse()
	for _, ev := range events {
		var err error
		switch ev.Action {
		case runner.PointerDown:
			if err = m.Move(ev.X, ev.Y); err == nil {
				err = m.Down()
			}
		case runner.PointerUp:
			if err = m.Move(ev.X, ev.Y); err == nil {
				err = m.Up()
			}
		default:
			err = m.Move(ev.X, ev.Y)
		}
		if err != nil {
			return fmt.Errorf("%s at (%.0f, %.0f): %w", ev.Action, ev.X, ev.Y, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (p *pwPage) Press(ctx context.Context, key string) error {
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, p.page.Keyboard().Press(key)
	})
	return err
}

func (p *pwPage) Screenshot(ctx context.Context, opts runner.ScreenshotOptions) ([]byte, error) {
	var timeout *float64
	if ms, ok := millis(ctx); ok {
		timeout = playwright.Float(ms)
	}
	if opts.Locator != nil {
		return p.locator(*opts.Locator).Screenshot(playwright.LocatorScreenshotOptions{
			Type:    playwright.ScreenshotTypePng,
			Timeout: timeout,
		})
	}
	return p.page.Screenshot(playwright.PageScreenshotOptions{
		Type:     playwright.ScreenshotTypePng,
		FullPage: playwright.Bool(opts.FullPage),
		Timeout:  timeout,
	})
}

func (p *pwPage) Close() error {
	return errors.Join(p.page.Close(), p.browser.Close(), p.pw.Stop())
}
