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
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ttbt-io/weddingverify/browser"
	"github.com/ttbt-io/weddingverify/report"
	"github.com/ttbt-io/weddingverify/runner"
	"github.com/ttbt-io/weddingverify/scenarios"
)

var flags = newFlags(flag.CommandLine)

// main runs the named scenarios (all of them by default) against the site.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [scenario ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if *flags.install {
		if err := browser.Install(); err != nil {
			log.Fatalf("Failed to install playwright: %v", err)
		}
		log.Println("Playwright installed.")
		return
	}

	list, err := selectScenarios(*flags.file, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	if *flags.list {
		for _, sc := range list {
			fmt.Printf("%-14s %d steps\n", sc.Name, len(sc.Steps))
		}
		return
	}

	opts, err := flags.options(flag.CommandLine, os.LookupEnv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	launcher, err := browser.ForEngine(*flags.engine)
	if err != nil {
		log.Fatal(err)
	}

	var store *report.Store
	if *flags.reportDir != "" {
		if os.Getenv(report.EnvReportKey) == "" {
			log.Printf("Warning: No %s provided. Reports will be stored UNENCRYPTED.", report.EnvReportKey)
		}
		if store, err = report.OpenStore(*flags.reportDir, os.Getenv(report.EnvReportKey)); err != nil {
			log.Fatalf("Failed to open report store: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Running %d scenario(s) against %s with %s", len(list), opts.BaseURL, *flags.engine)
	outcomes := runAll(ctx, runner.New(launcher, opts), *flags.engine, list, *flags.parallel, store, *flags.goldens)

	failed := 0
	for _, o := range outcomes {
		if o.ok() {
			log.Printf("PASS %s (%s)", o.scenario, o.duration.Round(time.Millisecond))
			continue
		}
		failed++
		if o.err != nil {
			log.Printf("FAIL %s: %v", o.scenario, o.err)
		}
		if o.diff != "" {
			log.Printf("FAIL %s: structure changed:\n%s", o.scenario, o.diff)
		}
	}
	if failed > 0 {
		stop()
		log.Fatalf("%d of %d scenario(s) failed", failed, len(outcomes))
	}
	log.Printf("All %d scenario(s) passed.", len(outcomes))
}

func selectScenarios(file string, names []string) ([]runner.Scenario, error) {
	if file == "" {
		if len(names) == 0 {
			return scenarios.All(), nil
		}
		var out []runner.Scenario
		for _, n := range names {
			sc, err := scenarios.Get(n)
			if err != nil {
				return nil, err
			}
			out = append(out, sc)
		}
		return out, nil
	}

	loaded, err := scenarios.LoadFile(file)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return loaded, nil
	}
	byName := make(map[string]runner.Scenario, len(loaded))
	for _, sc := range loaded {
		byName[sc.Name] = sc
	}
	var out []runner.Scenario
	for _, n := range names {
		sc, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%s: no scenario named %q", file, n)
		}
		out = append(out, sc)
	}
	return out, nil
}

type outcome struct {
	scenario string
	duration time.Duration
	err      error
	// diff is the structural difference from the golden file.
	diff string
	// drift is the structural difference from the previous archived run.
	// It is reported but does not fail the scenario.
	drift string
}

func (o outcome) ok() bool {
	return o.err == nil && o.diff == ""
}

// runAll runs every scenario in its own session, at most parallel at a time.
// A failing scenario does not stop the others.
func runAll(ctx context.Context, r *runner.Runner, engine string, list []runner.Scenario, parallel int, store *report.Store, goldens string) []outcome {
	outcomes := make([]outcome, len(list))
	var mu sync.Mutex // serializes archive comparisons of the same scenario

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, sc := range list {
		g.Go(func() error {
			res, err := r.Run(ctx, sc)
			o := outcome{scenario: sc.Name, duration: res.Duration, err: err}
			rep := report.FromResult(res, r.Options().BaseURL, engine)

			if goldens != "" {
				diff, gerr := report.CompareGolden(goldens, rep)
				if gerr != nil {
					o.err = errors.Join(o.err, gerr)
				}
				o.diff = diff
			}
			if store != nil {
				mu.Lock()
				if prev, perr := store.Latest(sc.Name); perr == nil {
					o.drift = report.Diff(prev.Structure(), rep.Structure(), "previous", "current")
					if o.drift != "" {
						log.Printf("%s: structure differs from run %s:\n%s", sc.Name, prev.ID, o.drift)
					}
				}
				if serr := store.Save(rep); serr != nil {
					log.Printf("%s: failed to save report: %v", sc.Name, serr)
				} else {
					log.Printf("%s: saved report %s", sc.Name, rep.ID)
				}
				mu.Unlock()
			}
			outcomes[i] = o
			return nil
		})
	}
	g.Wait()
	return outcomes
}
