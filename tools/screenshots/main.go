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

// The screenshots tool takes a full page capture of every site page at each
// requested viewport, plus close-ups of the interactive components.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/ttbt-io/weddingverify/browser"
	"github.com/ttbt-io/weddingverify/runner"
)

var (
	chromeURL  = flag.String("chrome-url", "", "The url of the remote debugging port")
	outputDir  = flag.String("output-dir", "/screenshots", "Directory to save screenshots")
	baseURL    = flag.String("base-url", runner.DefaultBaseURL, "The site to capture")
	pages      = flag.String("pages", "/,/photos,/heart,/registry,/things-to-do", "Comma separated list of pages")
	viewports  = flag.String("viewports", "1280x800,390x844", "Comma separated list of viewports")
	settle     = flag.Duration("settle", 3*time.Second, "How long to let each page animate before capturing it")
	engineName = flag.String("engine", browser.EngineChromedp, "The browser driver: "+strings.Join(browser.Engines, ", "))
)

func main() {
	flag.Parse()

	var vps []runner.Viewport
	for _, s := range strings.Split(*viewports, ",") {
		vp, err := runner.ParseViewport(s)
		if err != nil {
			log.Fatalf("--viewports: %v", err)
		}
		vps = append(vps, vp)
	}

	engine, err := browser.ForEngine(*engineName)
	if err != nil {
		log.Fatalf("--engine: %v", err)
	}
	if *chromeURL == "" {
		log.Print("--chrome-url not set, launching a local browser")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second) // very generous timeout
	defer cancel()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	log.Println("Starting screenshot generation...")

	for _, vp := range vps {
		opts := runner.DefaultOptions()
		opts.BaseURL = *baseURL
		opts.ChromeURL = *chromeURL
		opts.Viewport = vp
		opts.OutputDir = *outputDir
		opts.DebugDir = *outputDir
		r := runner.New(engine, opts)

		for _, sc := range []runner.Scenario{
			tourScenario(vp, splitPages(*pages), *settle),
			componentScenario(vp, *settle),
		} {
			if _, err := r.Run(ctx, sc); err != nil {
				log.Fatalf("Failed to generate screenshots: %v", err)
			}
		}
	}

	log.Println("Screenshots generated successfully.")
}

func splitPages(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// pageFile names the capture of page p at viewport vp, e.g.
// "photos-1280x800.png". The root page is "home".
func pageFile(p string, vp runner.Viewport) string {
	name := strings.Trim(path.Clean("/"+p), "/")
	if name == "" {
		name = "home"
	}
	return fmt.Sprintf("%s-%s.png", strings.ReplaceAll(name, "/", "_"), vp)
}

func tourScenario(vp runner.Viewport, pages []string, settle time.Duration) runner.Scenario {
	sc := runner.Scenario{Name: "tour-" + vp.String()}
	for _, p := range pages {
		sc.Steps = append(sc.Steps,
			runner.Navigate(p),
			runner.Sleep(settle),
			runner.FullScreenshot(pageFile(p, vp)),
		)
	}
	return sc
}

func componentScenario(vp runner.Viewport, settle time.Duration) runner.Scenario {
	suffix := "-" + vp.String() + ".png"
	return runner.Scenario{
		Name: "components-" + vp.String(),
		Steps: []runner.Step{
			runner.Navigate("/"),
			runner.ScrollIntoView(runner.CSS(`div[role="timer"]`)),
			runner.ElementScreenshot(runner.CSS(`div[role="timer"]`), "countdown"+suffix),
			runner.Navigate("/photos"),
			runner.ElementScreenshot(runner.CSS(".grid"), "gallery-grid"+suffix),
			runner.Navigate("/heart"),
			runner.Sleep(settle),
			runner.ElementScreenshot(runner.CSS("canvas"), "heart"+suffix),
		},
	}
}
