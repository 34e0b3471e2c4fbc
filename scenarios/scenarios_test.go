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

package scenarios

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ttbt-io/weddingverify/runner"
)

func TestCatalogueIsValid(t *testing.T) {
	all := All()
	if len(all) != len(Names()) {
		t.Fatalf("All() returned %d scenarios, want %d", len(all), len(Names()))
	}
	seen := make(map[string]string)
	for _, sc := range all {
		if err := sc.Validate(); err != nil {
			t.Errorf("%s: %v", sc.Name, err)
		}
		if sc.Steps[0].Kind != runner.KindNavigate {
			t.Errorf("%s does not start with a navigation", sc.Name)
		}
		for _, s := range sc.Steps {
			if s.Kind != runner.KindCaptureScreenshot {
				continue
			}
			if other, ok := seen[s.Path]; ok {
				t.Errorf("%s and %s both write %s", other, sc.Name, s.Path)
			}
			seen[s.Path] = sc.Name
		}
	}
}

func TestGet(t *testing.T) {
	for _, name := range Names() {
		sc, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if sc.Name != name {
			t.Errorf("Get(%q).Name = %q", name, sc.Name)
		}
	}
	if _, err := Get("wedding-cake"); err == nil {
		t.Error("Get(wedding-cake) should fail")
	}
}

func kinds(sc runner.Scenario) []runner.Kind {
	var k []runner.Kind
	for _, s := range sc.Steps {
		k = append(k, s.Kind)
	}
	return k
}

func count(sc runner.Scenario, kind runner.Kind) int {
	n := 0
	for _, s := range sc.Steps {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestCountdownShape(t *testing.T) {
	sc := Countdown()
	if sc.Steps[1].Timeout != 60*time.Second {
		t.Errorf("heading timeout = %s, want 60s", sc.Steps[1].Timeout)
	}
	if n := count(sc, runner.KindCaptureScreenshot); n != 1 {
		t.Errorf("countdown captures %d images, want 1", n)
	}
}

func TestGalleryShape(t *testing.T) {
	sc := Gallery()
	if n := count(sc, runner.KindCaptureScreenshot); n != 2 {
		t.Errorf("gallery captures %d images, want 2", n)
	}
	last := sc.Steps[len(sc.Steps)-1]
	if last.Kind != runner.KindAssertHidden || last.Locator.CSS != dialog {
		t.Errorf("gallery ends with %s, want the dialog hidden", last)
	}
	var sawSrc bool
	for _, s := range sc.Steps {
		if s.Kind == runner.KindAssertAttribute && s.Attribute == "src" {
			sawSrc = strings.Contains(s.Value, "jogging-buddies") && !s.Exact
		}
	}
	if !sawSrc {
		t.Error("gallery does not check the next image source")
	}
}

func TestHeartShape(t *testing.T) {
	sc := Heart()
	got := kinds(sc)
	want := []runner.Kind{
		runner.KindNavigate,
		runner.KindWaitForTimeout,
		runner.KindWaitForSelector,
		runner.KindPointerSequence,
		runner.KindWaitForTimeout,
		runner.KindCaptureScreenshot,
		runner.KindAssertVisible,
	}
	if len(got) != len(want) {
		t.Fatalf("heart kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLoadFile(t *testing.T) {
	scs, err := LoadFile(filepath.Join("testdata", "lightbox.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(scs) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(scs))
	}
	lb := scs[0]
	if lb.Name != "lightbox" || len(lb.Steps) != 7 {
		t.Fatalf("unexpected scenario %+v", lb)
	}
	if lb.Steps[2].Locator.Role != "dialog" {
		t.Errorf("locator = %+v", lb.Steps[2].Locator)
	}
	if lb.Steps[3].Timeout != 5*time.Second {
		t.Errorf("timeout = %s", lb.Steps[3].Timeout)
	}
	if lb.Steps[6].State != runner.StateDetached {
		t.Errorf("state = %q", lb.Steps[6].State)
	}

	fling := scs[1]
	p := fling.Steps[2]
	if p.Description != "fling up and right" || len(p.Pointer) != 3 || p.Pointer[1].Steps != 5 || p.Pointer[2].Y != -200 {
		t.Errorf("pointer step = %+v", p)
	}
	if fling.Steps[1].Duration != 2*time.Second {
		t.Errorf("duration = %s", fling.Steps[1].Duration)
	}
	if !fling.Steps[3].Exact {
		t.Error("exact not decoded")
	}
}

func TestParseRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown kind": "name: x\nsteps:\n  - kind: teleport\n",
		"missing url":  "name: x\nsteps:\n  - kind: navigate\n",
		"missing path": "name: x\nsteps:\n  - kind: capture-screenshot\n",
		"bad state":    "name: x\nsteps:\n  - kind: wait-for-selector\n    state: gone\n    locator: {css: p}\n",
		"bad action":   "name: x\nsteps:\n  - kind: pointer-sequence\n    pointer: [{action: wiggle}]\n",
	} {
		_, err := Parse(strings.NewReader(doc))
		if !errors.Is(err, runner.ErrInvalidStep) {
			t.Errorf("%s: Parse() = %v, want ErrInvalidStep", name, err)
		}
	}
	if _, err := Parse(strings.NewReader("name: x\nsteps:\n  - kind: navigate\n    uri: /\n")); err == nil {
		t.Error("unknown field accepted")
	}
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("empty file accepted")
	}
}
