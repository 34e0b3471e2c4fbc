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

import (
	"fmt"
	"strings"
)

// Locator finds an element in the rendered page. All set fields must match.
// Role and Name follow ARIA semantics; Name and Text are case-insensitive
// substring matches. When several elements match, Nth selects one (0-based).
type Locator struct {
	CSS    string `json:"css,omitempty"`
	Text   string `json:"text,omitempty"`
	Role   string `json:"role,omitempty"`
	Name   string `json:"name,omitempty"`
	TestID string `json:"testId,omitempty"`
	Label  string `json:"label,omitempty"`
	Nth    int    `json:"nth,omitempty"`
}

// CSS locates elements by CSS selector.
func CSS(selector string) Locator {
	return Locator{CSS: selector}
}

// Role locates elements by ARIA role and accessible name.
func Role(role, name string) Locator {
	return Locator{Role: role, Name: name}
}

// TestID locates elements by their data-testid attribute.
func TestID(id string) Locator {
	return Locator{TestID: id}
}

// Label locates elements by aria-label.
func Label(label string) Locator {
	return Locator{Label: label}
}

// HasText narrows l to elements whose text contains text.
func (l Locator) HasText(text string) Locator {
	l.Text = text
	return l
}

// At selects the nth match of l.
func (l Locator) At(n int) Locator {
	l.Nth = n
	return l
}

// IsZero reports whether l has no criteria.
func (l Locator) IsZero() bool {
	return l.CSS == "" && l.Text == "" && l.Role == "" && l.TestID == "" && l.Label == ""
}

func (l Locator) String() string {
	var parts []string
	if l.CSS != "" {
		parts = append(parts, l.CSS)
	}
	if l.Role != "" {
		if l.Name != "" {
			parts = append(parts, fmt.Sprintf("role=%s[name=%q]", l.Role, l.Name))
		} else {
			parts = append(parts, "role="+l.Role)
		}
	}
	if l.TestID != "" {
		parts = append(parts, fmt.Sprintf("[data-testid=%q]", l.TestID))
	}
	if l.Label != "" {
		parts = append(parts, fmt.Sprintf("[aria-label=%q]", l.Label))
	}
	if l.Text != "" {
		parts = append(parts, fmt.Sprintf(":has-text(%q)", l.Text))
	}
	if l.Nth > 0 {
		parts = append(parts, fmt.Sprintf(">> nth=%d", l.Nth))
	}
	if len(parts) == 0 {
		return "<empty locator>"
	}
	return strings.Join(parts, " ")
}

// ElementState is what a driver observed about a locator at one instant.
type ElementState struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

// In reports whether the observation satisfies the wait state.
func (e ElementState) In(state string) bool {
	switch state {
	case StateAttached:
		return e.Count > 0
	case StateDetached:
		return e.Count == 0
	case StateHidden:
		return e.Count == 0 || !e.Visible
	default:
		return e.Count > 0 && e.Visible
	}
}

// Box is an element's bounding box in viewport CSS pixels.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the centre point of b.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}
