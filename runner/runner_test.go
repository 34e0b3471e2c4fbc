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
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHappyPath(t *testing.T) {
	dir := t.TempDir()
	page := newFakePage()
	heading := Role("heading", "We Tied the Knot!")
	page.show(heading)
	page.show(CSS(`div[role="timer"]`))
	page.texts[heading.String()] = "  We Tied\n the Knot! "

	r := New(&fakeLauncher{page: page}, testOptions(dir))
	res, err := r.Run(t.Context(), Scenario{
		Name: "home",
		Steps: []Step{
			Navigate("/"),
			WaitVisible(heading),
			ExpectText(heading, "we tied the knot"),
			ScrollIntoView(CSS(`div[role="timer"]`)),
			Screenshot("countdown.png"),
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Passed())
	assert.Len(t, res.Steps, 5)
	assert.Equal(t, 1, page.closed)
	assert.Equal(t, []string{
		"navigate http://localhost:3000/",
		`scroll div[role="timer"]`,
		"screenshot",
	}, page.calls)

	want := filepath.Join(dir, "countdown.png")
	assert.Equal(t, []string{want}, res.Artifacts)
	b, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "\x89PNG"))
	for i, s := range res.Steps {
		assert.Equal(t, i, s.Index)
		assert.NoError(t, s.Err)
	}
}

func TestRunLaunchFailure(t *testing.T) {
	l := &fakeLauncher{err: errors.New("no chrome binary")}
	r := New(l, testOptions(t.TempDir()))
	res, err := r.Run(t.Context(), Scenario{Name: "x", Steps: []Step{Navigate("/")}})
	if !errors.Is(err, ErrLaunch) {
		t.Fatalf("err = %v, want ErrLaunch", err)
	}
	if len(res.Steps) != 0 {
		t.Errorf("steps ran after launch failure: %v", res.Steps)
	}
}

func TestRunNavigationFailure(t *testing.T) {
	page := newFakePage()
	page.navErr = errors.New("net::ERR_CONNECTION_REFUSED")
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	_, err := r.Run(t.Context(), Scenario{Name: "nav", Steps: []Step{Navigate("/photos"), Press("Escape")}})
	require.ErrorIs(t, err, ErrNavigation)

	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Index)
	assert.Equal(t, KindNavigate, se.Kind)
	assert.Equal(t, 1, page.closed)
	assert.Equal(t, []string{"navigate http://localhost:3000/photos"}, page.calls)
}

func TestWaitTimeoutBoundary(t *testing.T) {
	page := newFakePage()
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	timeout := 150 * time.Millisecond
	start := time.Now()
	res, err := r.Run(t.Context(), Scenario{
		Name: "missing",
		Steps: []Step{
			WaitVisible(CSS("#does-not-exist")).WithTimeout(timeout),
			Press("Escape"),
		},
	})
	elapsed := time.Since(start)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if errors.Is(err, ErrAssertion) {
		t.Errorf("timeout also reported as assertion: %v", err)
	}
	if elapsed < timeout {
		t.Errorf("failed after %s, before the %s timeout", elapsed, timeout)
	}
	if elapsed > timeout+time.Second {
		t.Errorf("failed after %s, long after the %s timeout", elapsed, timeout)
	}
	if page.closed != 1 {
		t.Errorf("page closed %d times, want 1", page.closed)
	}
	if len(res.Steps) != 1 {
		t.Errorf("ran %d steps, want 1", len(res.Steps))
	}
	if !strings.Contains(err.Error(), "#does-not-exist") {
		t.Errorf("error %q does not name the locator", err)
	}
}

func TestAssertionFailureIsNotTimeout(t *testing.T) {
	page := newFakePage()
	dialog := CSS(`div[role="dialog"]`)
	page.show(dialog)
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	_, err := r.Run(t.Context(), Scenario{
		Name:  "dialog",
		Steps: []Step{ExpectHidden(dialog).WithTimeout(50 * time.Millisecond)},
	})
	require.ErrorIs(t, err, ErrAssertion)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestAssertHiddenBecomesTrue(t *testing.T) {
	page := newFakePage()
	overlay := CSS("div.fixed.inset-0.bg-black")
	page.show(overlay)
	go func() {
		time.Sleep(40 * time.Millisecond)
		page.hide(overlay)
	}()
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	_, err := r.Run(t.Context(), Scenario{Name: "intro", Steps: []Step{ExpectHidden(overlay)}})
	require.NoError(t, err)
}

func TestWaitForPredicate(t *testing.T) {
	page := newFakePage()
	expr := `document.querySelector('div[role="dialog"] img').naturalWidth > 0`
	page.predicates[expr] = 3
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	_, err := r.Run(t.Context(), Scenario{Name: "p", Steps: []Step{WaitUntil(expr)}})
	require.NoError(t, err)
	assert.Equal(t, 4, page.evals[expr])

	// Evaluation errors count as "not yet" and surface in the timeout.
	_, err = r.Run(t.Context(), Scenario{Name: "p", Steps: []Step{WaitUntil("window.nope").WithTimeout(30 * time.Millisecond)}})
	require.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "ReferenceError")
}

func TestAssertAttribute(t *testing.T) {
	page := newFakePage()
	og := CSS(`meta[property="og:url"]`)
	page.attrs[og.String()] = map[string]string{"content": "https://abbifred.com"}
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))

	_, err := r.Run(t.Context(), Scenario{Name: "meta", Steps: []Step{ExpectAttribute(og, "content", "https://abbifred.com")}})
	require.NoError(t, err)

	_, err = r.Run(t.Context(), Scenario{Name: "meta", Steps: []Step{
		ExpectAttribute(og, "content", "https://example.com").WithTimeout(30 * time.Millisecond),
	}})
	require.ErrorIs(t, err, ErrAssertion)
	assert.Contains(t, err.Error(), `got "https://abbifred.com"`)

	_, err = r.Run(t.Context(), Scenario{Name: "meta", Steps: []Step{
		ExpectAttribute(og, "href", "x").WithTimeout(30 * time.Millisecond),
	}})
	require.ErrorIs(t, err, ErrAssertion)
	assert.Contains(t, err.Error(), "to have attribute href")
}

func TestPointerSequenceAnchoredAtLocator(t *testing.T) {
	page := newFakePage()
	canvas := CSS("canvas")
	page.show(canvas)
	page.boxes[canvas.String()] = Box{X: 100, Y: 50, Width: 400, Height: 300}
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))

	_, err := r.Run(t.Context(), Scenario{Name: "heart", Steps: []Step{Drag(canvas, 200, -200, 5)}})
	require.NoError(t, err)

	require.Len(t, page.pointer, 8)
	assert.Equal(t, PointerEvent{Action: PointerMove, X: 300, Y: 200, Steps: 1}, page.pointer[0])
	assert.Equal(t, PointerEvent{Action: PointerDown, X: 300, Y: 200, Steps: 1}, page.pointer[1])
	assert.Equal(t, PointerEvent{Action: PointerMove, X: 340, Y: 160, Steps: 1}, page.pointer[2])
	assert.Equal(t, PointerEvent{Action: PointerMove, X: 500, Y: 0, Steps: 1}, page.pointer[6])
	assert.Equal(t, PointerEvent{Action: PointerUp, X: 500, Y: 0, Steps: 1}, page.pointer[7])
}

func TestClickChangesPage(t *testing.T) {
	page := newFakePage()
	tile := CSS(".grid > div")
	dialog := CSS(`div[role="dialog"]`)
	page.show(tile)
	page.onClick[tile.String()] = func(f *fakePage) { f.show(dialog) }
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))

	_, err := r.Run(t.Context(), Scenario{Name: "gallery", Steps: []Step{
		Click(tile),
		ExpectVisible(dialog),
		Press("Escape"),
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"click .grid > div", "press Escape"}, page.calls)
}

func TestDebugScreenshotOnFailure(t *testing.T) {
	dir := t.TempDir()
	page := newFakePage()
	opts := testOptions(dir)
	opts.DebugDir = filepath.Join(dir, "debug")
	r := New(&fakeLauncher{page: page}, opts)

	_, err := r.Run(t.Context(), Scenario{Name: "gallery next", Steps: []Step{
		Navigate("/photos"),
		ExpectVisible(CSS("img")).WithTimeout(20 * time.Millisecond),
	}})
	require.ErrorIs(t, err, ErrAssertion)
	_, err = os.Stat(filepath.Join(dir, "debug", "debug-gallery_next-step1.png"))
	assert.NoError(t, err)
}

func TestCaptureFailure(t *testing.T) {
	page := newFakePage()
	page.shotErr = errors.New("target closed")
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	_, err := r.Run(t.Context(), Scenario{Name: "c", Steps: []Step{Screenshot("a.png")}})
	require.ErrorIs(t, err, ErrCapture)
}

func TestCaptureUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0644))
	page := newFakePage()
	r := New(&fakeLauncher{page: page}, testOptions(dir))

	res, err := r.Run(t.Context(), Scenario{Name: "c", Steps: []Step{
		Screenshot("file/a.png"),
		Navigate("/never"),
	}})
	require.ErrorIs(t, err, ErrCapture)
	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Index)
	assert.Empty(t, res.Artifacts)
	assert.Equal(t, 1, page.closed)
	assert.Equal(t, []string{"screenshot"}, page.calls)
}

func TestInvalidScenario(t *testing.T) {
	l := &fakeLauncher{page: newFakePage()}
	r := New(l, testOptions(t.TempDir()))
	for _, sc := range []Scenario{
		{Name: "", Steps: []Step{Navigate("/")}},
		{Name: "empty"},
		{Name: "bad", Steps: []Step{Navigate("/"), {Kind: "teleport"}}},
		{Name: "bad", Steps: []Step{Click(Locator{})}},
	} {
		_, err := r.Run(t.Context(), sc)
		if !errors.Is(err, ErrInvalidStep) {
			t.Errorf("Run(%+v) = %v, want ErrInvalidStep", sc, err)
		}
	}
	if l.launched != 0 {
		t.Errorf("browser launched %d times for invalid scenarios", l.launched)
	}
}

func TestRunCancelled(t *testing.T) {
	page := newFakePage()
	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := r.Run(ctx, Scenario{Name: "c", Steps: []Step{Sleep(time.Minute)}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, page.closed)
}

func TestSessionRelease(t *testing.T) {
	page := newFakePage()
	s, err := AcquireSession(t.Context(), &fakeLauncher{page: page}, DefaultOptions())
	require.NoError(t, err)
	_, err = s.Page()
	require.NoError(t, err)

	require.NoError(t, s.Release())
	require.NoError(t, s.Release())
	assert.Equal(t, 1, page.closed)

	_, err = s.Page()
	assert.ErrorIs(t, err, ErrSessionClosed)

	r := New(&fakeLauncher{page: page}, testOptions(t.TempDir()))
	_, err = r.RunStep(t.Context(), s, Press("Enter"))
	assert.ErrorIs(t, err, ErrSessionClosed)
}
