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
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Viewport is the page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// ParseViewport parses "WIDTHxHEIGHT".
func ParseViewport(s string) (Viewport, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Viewport{}, fmt.Errorf("invalid viewport %q, want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return Viewport{}, fmt.Errorf("invalid viewport width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return Viewport{}, fmt.Errorf("invalid viewport height %q", h)
	}
	return Viewport{Width: width, Height: height}, nil
}

// Options configures a Runner and the sessions it acquires.
type Options struct {
	BaseURL           string
	Headless          bool
	Timeout           time.Duration // per step
	NavigationTimeout time.Duration
	PollInterval      time.Duration
	Viewport          Viewport

	// ChromeURL is the remote debugging endpoint of an already running
	// browser. Empty means the driver launches its own.
	ChromeURL string

	// OutputDir is the directory relative screenshot paths are written to.
	OutputDir string
	// DebugDir receives a best-effort screenshot of the page when a step
	// fails. Empty disables it.
	DebugDir string

	// Logf receives progress messages. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		Headless:          true,
		Timeout:           DefaultStepTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		PollInterval:      DefaultPollInterval,
		Viewport:          Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		OutputDir:         DefaultOutputDir,
	}
}

// FromEnv overlays the environment on o.
func (o Options) FromEnv() (Options, error) {
	return o.FromLookup(os.LookupEnv)
}

// FromLookup overlays the variables returned by lookup on o.
func (o Options) FromLookup(lookup func(string) (string, bool)) (Options, error) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		o.BaseURL = v
	}
	if v, ok := lookup(EnvHeadless); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return o, fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		o.Headless = b
	}
	if v, ok := lookup(EnvStepTimeout); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return o, fmt.Errorf("%s: invalid millisecond value %q", EnvStepTimeout, v)
		}
		o.Timeout = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup(EnvChromeURL); ok && v != "" {
		o.ChromeURL = v
	}
	return o, nil
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseURL == "" {
		o.BaseURL = d.BaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = d.Viewport
	}
	return o
}

// ResolveURL resolves ref against the base URL. Absolute references are
// returned unchanged.
func (o Options) ResolveURL(ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if r.IsAbs() {
		return r.String(), nil
	}
	base, err := url.Parse(o.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", o.BaseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("base url %q is not absolute", o.BaseURL)
	}
	return base.ResolveReference(r).String(), nil
}
