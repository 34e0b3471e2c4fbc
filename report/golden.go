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

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// EnvUpdateGoldens rewrites golden files instead of comparing when set to
// "true".
const EnvUpdateGoldens = "UPDATE_GOLDENS"

// Diff returns a unified diff of two structural summaries, or "" if they are
// equal.
func Diff(expected, actual []string, fromFile, toFile string) string {
	a := strings.Join(expected, "\n")
	b := strings.Join(actual, "\n")
	if a == b {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a + "\n"),
		B:        difflib.SplitLines(b + "\n"),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
	return diff
}

// GoldenPath returns the golden file for scenario under dir.
func GoldenPath(dir, scenario string) string {
	return filepath.Join(dir, scenario+".golden")
}

// CompareGolden compares the structure of r with its golden file under dir
// and returns the diff. With UPDATE_GOLDENS=true the golden file is written
// instead and the diff is empty.
func CompareGolden(dir string, r *Report) (string, error) {
	path := GoldenPath(dir, r.Scenario)
	actual := strings.Join(r.Structure(), "\n")

	if os.Getenv(EnvUpdateGoldens) == "true" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(actual+"\n"), 0644); err != nil {
			return "", fmt.Errorf("failed to write golden file %s: %w", path, err)
		}
		return "", nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("golden file missing: %s. Run with %s=true to create it", path, EnvUpdateGoldens)
		}
		return "", fmt.Errorf("failed to read golden file %s: %w", path, err)
	}
	expected := strings.Split(strings.TrimSpace(string(b)), "\n")
	return Diff(expected, r.Structure(), "Expected", "Actual"), nil
}
