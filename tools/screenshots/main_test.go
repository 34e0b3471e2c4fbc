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

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttbt-io/weddingverify/runner"
)

func TestPageFile(t *testing.T) {
	vp := runner.Viewport{Width: 390, Height: 844}
	for p, want := range map[string]string{
		"/":              "home-390x844.png",
		"":               "home-390x844.png",
		"/photos":        "photos-390x844.png",
		"things-to-do/":  "things-to-do-390x844.png",
		"/our-story/faq": "our-story_faq-390x844.png",
	} {
		assert.Equal(t, want, pageFile(p, vp), p)
	}
}

func TestSplitPages(t *testing.T) {
	assert.Equal(t, []string{"/", "/photos"}, splitPages(" /, ,/photos,"))
}

func TestTourScenario(t *testing.T) {
	vp := runner.Viewport{Width: 1280, Height: 800}
	sc := tourScenario(vp, []string{"/", "/heart"}, time.Second)
	require.NoError(t, sc.Validate())
	assert.Equal(t, "tour-1280x800", sc.Name)
	require.Len(t, sc.Steps, 6)
	assert.Equal(t, runner.KindNavigate, sc.Steps[3].Kind)
	assert.True(t, sc.Steps[5].FullPage)
	assert.Equal(t, "heart-1280x800.png", sc.Steps[5].Path)

	require.NoError(t, componentScenario(vp, time.Second).Validate())
}
