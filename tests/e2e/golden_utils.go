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

package e2e

import (
	"strings"
	"testing"

	"github.com/ttbt-io/weddingverify/report"
	"github.com/ttbt-io/weddingverify/runner"
)

// VerifyStructure compares the structural summary of a run with its golden
// file under goldens/. If UPDATE_GOLDENS is true, it writes the file instead.
func VerifyStructure(t *testing.T, res *runner.Result) {
	t.Helper()
	rep := report.FromResult(res, "", "")
	diff, err := report.CompareGolden("goldens", rep)
	if err != nil {
		t.Errorf("%v\nActual Content:\n%s", err, strings.Join(rep.Structure(), "\n"))
		return
	}
	if diff != "" {
		t.Errorf("Structure mismatch for %s:\n%s", res.Scenario, diff)
	}
}
