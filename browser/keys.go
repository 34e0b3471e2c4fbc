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
	"strings"

	"github.com/chromedp/chromedp/kb"
)

// chromeKeys maps key names to the sequences chromedp.KeyEvent expects.
var chromeKeys = map[string]string{
	"Escape":     kb.Escape,
	"Enter":      kb.Enter,
	"Tab":        kb.Tab,
	"Backspace":  kb.Backspace,
	"Delete":     kb.Delete,
	"ArrowUp":    kb.ArrowUp,
	"ArrowDown":  kb.ArrowDown,
	"ArrowLeft":  kb.ArrowLeft,
	"ArrowRight": kb.ArrowRight,
	"Home":       kb.Home,
	"End":        kb.End,
	"PageUp":     kb.PageUp,
	"PageDown":   kb.PageDown,
	"Space":      " ",
}

// keySequence resolves a key name (as used by Playwright and the DOM
// KeyboardEvent.key property) to a chromedp key sequence.
func keySequence(name string) (string, error) {
	if k, ok := chromeKeys[name]; ok {
		return k, nil
	}
	for k, v := range chromeKeys {
		if strings.EqualFold(k, name) || (strings.EqualFold(name, "Esc") && k == "Escape") {
			return v, nil
		}
	}
	if len([]rune(name)) == 1 {
		return name, nil
	}
	return "", fmt.Errorf("unknown key %q", name)
}
