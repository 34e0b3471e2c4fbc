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

// Package browser implements runner.Launcher on top of real browsers.
package browser

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ttbt-io/weddingverify/runner"
)

var (
	// locateJS is a function (spec, op, arg) that resolves a runner.Locator
	// in the page and performs op on the match: state, box, scroll, text or
	// attr.
	//go:embed js/locate.js
	locateJS string
)

// locateExpr returns the JavaScript expression that applies op to loc.
func locateExpr(loc runner.Locator, op string, arg string) (string, error) {
	spec, err := json.Marshal(loc)
	if err != nil {
		return "", err
	}
	a, err := json.Marshal(arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s, %q, %s)", strings.TrimSpace(locateJS), spec, op, a), nil
}

// predicateExpr coerces expr to a boolean.
func predicateExpr(expr string) string {
	return "!!(" + strings.TrimSpace(expr) + "\n)"
}

type stateResult struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

type boxResult struct {
	Found  bool    `json:"found"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	PageX  float64 `json:"pageX"`
	PageY  float64 `json:"pageY"`
}

type textResult struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}

type attrResult struct {
	Found   bool   `json:"found"`
	Present bool   `json:"present"`
	Value   string `json:"value"`
}
