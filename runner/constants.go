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

import "time"

// Defaults
const (
	DefaultBaseURL           = "http://localhost:3000"
	DefaultStepTimeout       = 30 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultPollInterval      = 100 * time.Millisecond
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 800
	DefaultOutputDir         = "verification"
)

// Environment variables
const (
	EnvBaseURL     = "BASE_URL"
	EnvHeadless    = "HEADLESS"
	EnvStepTimeout = "STEP_TIMEOUT_MS"
	EnvChromeURL   = "CHROME_URL"
)

// Wait states
const (
	StateAttached = "attached"
	StateVisible  = "visible"
	StateHidden   = "hidden"
	StateDetached = "detached"
)

// Pointer actions
const (
	PointerMove = "move"
	PointerDown = "down"
	PointerUp   = "up"
)
