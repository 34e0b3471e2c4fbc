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
	"fmt"

	"github.com/ttbt-io/weddingverify/runner"
)

// Engine names accepted by ForEngine.
const (
	EngineChromedp   = "chromedp"
	EnginePlaywright = "playwright"
)

// Engines lists the supported engines.
var Engines = []string{EngineChromedp, EnginePlaywright}

// ForEngine returns the launcher for the named engine.
func ForEngine(name string) (runner.Launcher, error) {
	switch name {
	case "", EngineChromedp:
		return Chrome{}, nil
	case EnginePlaywright:
		return Playwright{}, nil
	}
	return nil, fmt.Errorf("unknown engine %q, want one of %v", name, Engines)
}
