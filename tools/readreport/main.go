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

// The readreport tool prints archived run reports, decrypting them with
// REPORT_KEY when the archive is encrypted.
//
//	readreport [-report-dir dir] [-structure] [scenario[/id]]...
//
// Without arguments it lists the archived scenarios and their run ids. A bare
// scenario name prints its latest report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ttbt-io/weddingverify/report"
)

var (
	reportDir = flag.String("report-dir", "reports", "Directory of the report archive")
	structure = flag.Bool("structure", false, "Print the structural summary instead of the full report")
)

func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: .env: %v", err)
	}

	passphrase := os.Getenv(report.EnvReportKey)
	if passphrase == "" {
		log.Printf("Warning: No %s provided. Reading the archive as plaintext.", report.EnvReportKey)
	}
	store, err := report.OpenStore(*reportDir, passphrase)
	if err != nil {
		log.Fatalf("Failed to open report archive: %v", err)
	}

	if flag.NArg() == 0 {
		if err := list(store); err != nil {
			log.Fatalf("Failed to list reports: %v", err)
		}
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, arg := range flag.Args() {
		r, err := read(store, arg)
		if err != nil {
			log.Printf("%s: %v", arg, err)
			continue
		}
		fmt.Printf("=========== %s ===========\n", arg)
		if *structure {
			fmt.Println(strings.Join(r.Structure(), "\n"))
			continue
		}
		if err := enc.Encode(r); err != nil {
			log.Printf("JSON: %s: %v", arg, err)
		}
	}
}

// read resolves "scenario" to its latest report and "scenario/id" to that run.
// Scenario names may themselves contain slashes, so the id is the last
// element.
func read(store *report.Store, arg string) (*report.Report, error) {
	if scenario, id, ok := cutLast(arg, "/"); ok {
		if r, err := store.Load(scenario, id); err == nil {
			return r, nil
		}
	}
	return store.Latest(arg)
}

func cutLast(s, sep string) (before, after string, ok bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func list(store *report.Store) error {
	names, err := store.Scenarios()
	if err != nil {
		return err
	}
	for _, name := range names {
		ids, err := store.List(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d runs)\n", name, len(ids))
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}
