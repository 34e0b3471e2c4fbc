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
	"log"
	"strings"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ttbt-io/weddingverify/runner"
)

// Chrome launches Chromium through the DevTools protocol. When
// Options.ChromeURL is set it attaches to that browser instead of starting a
// local one.
type Chrome struct{}

// Launch implements runner.Launcher.
func (Chrome) Launch(ctx context.Context, opts runner.Options) (runner.Page, error) {
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}

	// The browser outlives the launch call; its lifetime ends with Close.
	base := context.WithoutCancel(ctx)
	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if opts.ChromeURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(base, opts.ChromeURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(base, execOptions(opts)...)
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logf), chromedp.WithErrorf(logf))

	p := &chromePage{ctx: tabCtx, cancel: tabCancel, allocCancel: allocCancel}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			if ev.Type == runtime.APITypeError {
				args := make([]string, len(ev.Args))
				for i, arg := range ev.Args {
					args[i] = string(arg.Value)
				}
				logf("JS CONSOLE (%s): %s", ev.Type, strings.Join(args, " "))
			}
		case *runtime.EventExceptionThrown:
			logf("JS EXCEPTION: %s", ev.ExceptionDetails.Text)
		}
	})

	// The first Run starts the browser and must use the tab context itself;
	// a derived deadline would stop the whole browser when it expires.
	errc := make(chan error, 1)
	go func() {
		errc <- chromedp.Run(tabCtx,
			chromedp.EmulateViewport(int64(opts.Viewport.Width), int64(opts.Viewport.Height)),
			network.ClearBrowserCookies(),
		)
	}()
	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func execOptions(opts runner.Options) []chromedp.ExecAllocatorOption {
	o := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.Viewport.Width, opts.Viewport.Height),
	)
	if !opts.Headless {
		o = append(o, chromedp.Flag("headless", false))
	}
	return o
}

type chromePage struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// run executes actions in the tab, bounded by ctx.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	rctx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	if d, ok := ctx.Deadline(); ok {
		var dcancel context.CancelFunc
		rctx, dcancel = context.WithDeadline(rctx, d)
		defer dcancel()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	err := chromedp.Run(rctx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *chromePage) locate(ctx context.Context, loc runner.Locator, op, arg string, res any) error {
	expr, err := locateExpr(loc, op, arg)
	if err != nil {
		return err
	}
	return p.run(ctx, chromedp.Evaluate(expr, res))
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *chromePage) Query(ctx context.Context, loc runner.Locator) (runner.ElementState, error) {
	var res stateResult
	if err := p.locate(ctx, loc, "state", "", &res); err != nil {
		return runner.ElementState{}, err
	}
	return runner.ElementState{Count: res.Count, Visible: res.Visible}, nil
}

func (p *chromePage) Evaluate(ctx context.Context, expr string) (bool, error) {
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(predicateExpr(expr), &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (p *chromePage) box(ctx context.Context, loc runner.Locator) (boxResult, error) {
	var res boxResult
	if err := p.locate(ctx, loc, "box", "", &res); err != nil {
		return res, err
	}
	if !res.Found {
		return res, fmt.Errorf("no element matches %s", loc)
	}
	return res, nil
}

func (p *chromePage) BoundingBox(ctx context.Context, loc runner.Locator) (runner.Box, error) {
	b, err := p.box(ctx, loc)
	if err != nil {
		return runner.Box{}, err
	}
	return runner.Box{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}, nil
}

func (p *chromePage) ScrollIntoView(ctx context.Context, loc runner.Locator) error {
	var ok bool
	if err := p.locate(ctx, loc, "scroll", "", &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no element matches %s", loc)
	}
	return nil
}

// center scrolls loc into view and returns the viewport coordinates of its
// centre.
func (p *chromePage) center(ctx context.Context, loc runner.Locator) (float64, float64, error) {
	if err := p.ScrollIntoView(ctx, loc); err != nil {
		return 0, 0, err
	}
	b, err := p.BoundingBox(ctx, loc)
	if err != nil {
		return 0, 0, err
	}
	x, y := b.Center()
	return x, y, nil
}

func (p *chromePage) Click(ctx context.Context, loc runner.Locator) error {
	x, y, err := p.center(ctx, loc)
	if err != nil {
		return err
	}
	return p.run(ctx, chromedp.MouseClickXY(x, y))
}

func (p *chromePage) Hover(ctx context.Context, loc runner.Locator) error {
	x, y, err := p.center(ctx, loc)
	if err != nil {
		return err
	}
	return p.run(ctx, input.DispatchMouseEvent(input.MouseMoved, x, y))
}

func (p *chromePage) Text(ctx context.Context, loc runner.Locator) (string, error) {
	var res textResult
	if err := p.locate(ctx, loc, "text", "", &res); err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("no element matches %s", loc)
	}
	return res.Text, nil
}

func (p *chromePage) Attribute(ctx context.Context, loc runner.Locator, name string) (string, bool, error) {
	var res attrResult
	if err := p.locate(ctx, loc, "attr", name, &res); err != nil {
		return "", false, err
	}
	if !res.Found {
		return "", false, fmt.Errorf("no element matches %s", loc)
	}
	return res.Value, res.Present, nil
}

func (p *chromePage) Pointer(ctx context.Context, events []runner.PointerEvent) error {
	return p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		pressed := false
		for _, ev := range events {
			var params *input.DispatchMouseEventParams
			switch ev.Action {
			case runner.PointerDown:
				pressed = true
				params = input.DispatchMouseEvent(input.MousePressed, ev.X, ev.Y).
					WithButton(input.Left).WithButtons(1).WithClickCount(1)
			case runner.PointerUp:
				pressed = false
				params = input.DispatchMouseEvent(input.MouseReleased, ev.X, ev.Y).
					WithButton(input.Left).WithClickCount(1)
			default:
				params = input.DispatchMouseEvent(input.MouseMoved, ev.X, ev.Y)
				if pressed {
					params = params.WithButton(input.Left).WithButtons(1)
				}
			}
			if err := params.Do(ctx); err != nil {
				return fmt.Errorf("%s at (%.0f, %.0f): %w", ev.Action, ev.X, ev.Y, err)
			}
		}
		return nil
	}))
}

func (p *chromePage) Press(ctx context.Context, key string) error {
	seq, err := keySequence(key)
	if err != nil {
		return err
	}
	return p.run(ctx, chromedp.KeyEvent(seq))
}

func (p *chromePage) Screenshot(ctx context.Context, opts runner.ScreenshotOptions) ([]byte, error) {
	var buf []byte
	switch {
	case opts.Locator != nil:
		if err := p.ScrollIntoView(ctx, *opts.Locator); err != nil {
			return nil, err
		}
		b, err := p.box(ctx, *opts.Locator)
		if err != nil {
			return nil, err
		}
		if b.Width <= 0 || b.Height <= 0 {
			return nil, fmt.Errorf("%s has an empty bounding box", opts.Locator)
		}
		err = p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{X: b.PageX, Y: b.PageY, Width: b.Width, Height: b.Height, Scale: 1}).
				Do(ctx)
			return err
		}))
		if err != nil {
			return nil, err
		}
	case opts.FullPage:
		if err := p.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
			return nil, err
		}
	default:
		if err := p.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
			return nil, err
		}
	}
	if len(buf) == 0 {
		return nil, errors.New("empty screenshot")
	}
	return buf, nil
}

// Close closes the tab and, for a locally started browser, the browser.
func (p *chromePage) Close() error {
	err := chromedp.Cancel(p.ctx)
	p.cancel()
	p.allocCancel()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
