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

package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/ttbt-io/weddingverify/browser"
	"github.com/ttbt-io/weddingverify/runner"
)

type cliFlags struct {
	baseURL   *string
	headless  *bool
	timeoutMS *int
	navMS     *int
	viewport  *string
	engine    *string
	chromeURL *string
	outputDir *string
	debugDir  *string
	parallel  *int
	file      *string
	list      *bool
	reportDir *string
	goldens   *string
	install   *bool
}

func newFlags(fs *flag.FlagSet) *cliFlags {
	d := runner.DefaultOptions()
	return &cliFlags{
		baseURL:   fs.String("base-url", d.BaseURL, "Address of the site under test (env "+runner.EnvBaseURL+")"),
		headless:  fs.Bool("headless", d.Headless, "Run the browser without a visible window (env "+runner.EnvHeadless+")"),
		timeoutMS: fs.Int("timeout", int(d.Timeout/time.Millisecond), "Per-step timeout in milliseconds (env "+runner.EnvStepTimeout+")"),
		navMS:     fs.Int("nav-timeout", int(d.NavigationTimeout/time.Millisecond), "Navigation timeout in milliseconds"),
		viewport:  fs.String("viewport", d.Viewport.String(), "Viewport size as WIDTHxHEIGHT"),
		engine:    fs.String("engine", browser.EngineChromedp, fmt.Sprintf("Browser engine, one of %v", browser.Engines)),
		chromeURL: fs.String("chrome-url", "", "The url of the remote debugging port (env "+runner.EnvChromeURL+")"),
		outputDir: fs.String("output-dir", d.OutputDir, "Directory to save screenshots"),
		debugDir:  fs.String("debug-dir", "", "Directory for debug screenshots of failed steps"),
		parallel:  fs.Int("parallel", 1, "Number of scenarios to run concurrently"),
		file:      fs.String("file", "", "YAML file with scenarios to run instead of the built-in ones"),
		list:      fs.Bool("list", false, "List the available scenarios and exit"),
		reportDir: fs.String("report-dir", "", "Directory to archive run reports in"),
		goldens:   fs.String("goldens", "", "Directory of golden run summaries to compare with"),
		install:   fs.Bool("install", false, "Install the Playwright driver and browser, then exit"),
	}
}

// options resolves the runner options: defaults, then the environment, then
// flags set explicitly on the command line.
func (f *cliFlags) options(fs *flag.FlagSet, lookup func(string) (string, bool)) (runner.Options, error) {
	opts := runner.DefaultOptions()
	opts, err := opts.FromLookup(lookup)
	if err != nil {
		return opts, err
	}
	opts.OutputDir = *f.outputDir
	opts.DebugDir = *f.debugDir
	opts.NavigationTimeout = time.Duration(*f.navMS) * time.Millisecond

	vp, err := runner.ParseViewport(*f.viewport)
	if err != nil {
		return opts, err
	}
	opts.Viewport = vp

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "base-url":
			opts.BaseURL = *f.baseURL
		case "headless":
			opts.Headless = *f.headless
		case "timeout":
			opts.Timeout = time.Duration(*f.timeoutMS) * time.Millisecond
		case "chrome-url":
			opts.ChromeURL = *f.chromeURL
		}
	})
	if opts.Timeout <= 0 || opts.NavigationTimeout <= 0 {
		return opts, fmt.Errorf("timeouts must be positive")
	}
	if *f.parallel < 1 {
		return opts, fmt.Errorf("-parallel must be at least 1")
	}
	return opts, nil
}
