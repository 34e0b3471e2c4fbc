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

// Package scenarios holds the verification scenarios for the wedding site.
package scenarios

import (
	"fmt"
	"slices"
	"time"

	r "github.com/ttbt-io/weddingverify/runner"
)

const (
	// SiteTitle is the couple's heading shown once the intro has played.
	SiteTitle = "Abbigayle & Frederick's Wedding"
	// SiteURL is the canonical production address.
	SiteURL = "https://abbifred.com"

	dialog      = `div[role="dialog"]`
	dialogImage = `div[role="dialog"] img`
	introLayer  = "div.fixed.inset-0.bg-black"
)

var catalogue = map[string]func() r.Scenario{
	"countdown":    Countdown,
	"gallery":      Gallery,
	"heart":        Heart,
	"heart-pulse":  HeartPulse,
	"intro":        Intro,
	"calendar":     Calendar,
	"registry":     Registry,
	"things-to-do": ThingsToDo,
	"pages":        Pages,
	"metadata":     Metadata,
}

// Names returns the catalogue's scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for n := range catalogue {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// All returns every catalogued scenario, sorted by name.
func All() []r.Scenario {
	var out []r.Scenario
	for _, n := range Names() {
		out = append(out, catalogue[n]())
	}
	return out
}

// Get returns the named scenario.
func Get(name string) (r.Scenario, error) {
	f, ok := catalogue[name]
	if !ok {
		return r.Scenario{}, fmt.Errorf("unknown scenario %q", name)
	}
	return f(), nil
}

// Countdown checks the home page heading and the countdown timer.
func Countdown() r.Scenario {
	return r.Scenario{
		Name: "countdown",
		Steps: []r.Step{
			r.Navigate("/"),
			// The intro animation runs before the heading appears.
			r.ExpectVisible(r.Role("heading", SiteTitle)).WithTimeout(60 * time.Second),
			r.ScrollIntoView(r.CSS(`div[role="timer"]`)),
			r.Screenshot("countdown.png"),
		},
	}
}

// Gallery opens the lightbox, steps to the next photo and closes it again.
func Gallery() r.Scenario {
	return r.Scenario{
		Name: "gallery",
		Steps: []r.Step{
			r.Navigate("/photos"),
			r.Click(r.CSS(".grid > div")),
			r.ExpectVisible(r.CSS(dialog)),
			r.ExpectVisible(r.CSS(dialogImage)),
			r.WaitUntil(`document.querySelector('div[role="dialog"] img').naturalWidth > 0`).
				Describe("wait for the lightbox image to load"),
			r.Screenshot("gallery_lightbox.png"),
			r.Click(r.Label("Next image")),
			r.ExpectAttributeContains(r.CSS(dialogImage), "src", "jogging-buddies"),
			r.WaitUntil(`document.querySelector('div[role="dialog"] img').naturalWidth > 0`).
				Describe("wait for the next image to load"),
			r.Screenshot("gallery_next_image.png"),
			r.Press("Escape"),
			r.ExpectHidden(r.CSS(dialog)),
		},
	}
}

// Heart drags across the particle heart and checks that it reforms.
func Heart() r.Scenario {
	canvas := r.CSS("canvas")
	return r.Scenario{
		Name: "heart",
		Steps: []r.Step{
			r.Navigate("/heart"),
			// The particles assemble without any completion signal.
			r.Sleep(2 * time.Second),
			r.WaitVisible(canvas),
			r.Drag(canvas, 200, -200, 5).Describe("drag across the heart"),
			r.Sleep(4 * time.Second),
			r.Screenshot("heart_reformed.png"),
			r.ExpectVisible(canvas),
		},
	}
}

// HeartPulse captures the heart at rest and after a click speeds up the pulse.
func HeartPulse() r.Scenario {
	canvas := r.CSS("canvas")
	return r.Scenario{
		Name: "heart-pulse",
		Steps: []r.Step{
			r.Navigate("/heart"),
			r.ExpectVisible(canvas).WithTimeout(15 * time.Second),
			r.Sleep(2 * time.Second),
			r.Screenshot("heart_initial_pulse.png"),
			r.Click(canvas),
			r.Sleep(250 * time.Millisecond),
			r.Screenshot("heart_fast_pulse.png"),
		},
	}
}

// Intro checks the black intro overlay and that it fades away.
func Intro() r.Scenario {
	return r.Scenario{
		Name: "intro",
		Steps: []r.Step{
			r.Navigate("/"),
			r.ExpectVisible(r.CSS(introLayer)),
			r.Sleep(time.Second),
			r.ExpectVisible(r.CSS(".keen-slider")),
			r.ExpectVisible(r.Role("heading", SiteTitle)),
			r.Screenshot("verification_with_overlay.png"),
			r.ExpectHidden(r.CSS(introLayer)).WithTimeout(10 * time.Second),
			r.ExpectVisible(r.CSS("main#main")),
			r.Screenshot("verification_after_overlay.png"),
		},
	}
}

// Calendar opens the first "Add to Calendar" menu.
func Calendar() r.Scenario {
	button := r.Role("button", "Add to Calendar")
	return r.Scenario{
		Name: "calendar",
		Steps: []r.Step{
			r.Navigate("/"),
			r.WaitVisible(r.CSS("#main")),
			r.ExpectVisible(button),
			r.Click(button),
			r.ExpectVisible(r.CSS(`div[role='menu']`)),
			r.Screenshot("calendar_menu.png"),
		},
	}
}

// Registry hovers the first registry card.
func Registry() r.Scenario {
	card := r.TestID("registry-card")
	return r.Scenario{
		Name: "registry",
		Steps: []r.Step{
			r.Navigate("/registry"),
			r.ExpectVisible(r.Role("heading", "Wedding Registry")).WithTimeout(10 * time.Second),
			r.ExpectVisible(card).WithTimeout(10 * time.Second),
			r.Hover(card),
			// Hover transition.
			r.Sleep(500 * time.Millisecond),
			r.Screenshot("features.png"),
		},
	}
}

// ThingsToDo toggles the category filters.
func ThingsToDo() r.Scenario {
	return r.Scenario{
		Name: "things-to-do",
		Steps: []r.Step{
			r.Navigate("/things-to-do"),
			r.Screenshot("things_to_do_initial.png"),
			r.Click(r.Role("button", "Food")),
			r.Screenshot("things_to_do_food_filter.png"),
			r.Click(r.Role("button", "All")),
			r.Screenshot("things_to_do_all_filter.png"),
		},
	}
}

// Pages captures the home and registry pages.
func Pages() r.Scenario {
	return r.Scenario{
		Name: "pages",
		Steps: []r.Step{
			r.Navigate("/"),
			r.WaitVisible(r.CSS("h1").HasText("We Tied the Knot!")).WithTimeout(15 * time.Second),
			r.Screenshot("homepage.png"),
			r.Navigate("/registry"),
			r.WaitVisible(r.CSS("h1").HasText("Wedding Registry")).WithTimeout(10 * time.Second),
			r.Screenshot("registry.png"),
		},
	}
}

// Metadata checks the document title and the social sharing tags.
func Metadata() r.Scenario {
	meta := func(attr, key, want string) r.Step {
		return r.ExpectAttribute(r.CSS(fmt.Sprintf(`meta[%s="%s"]`, attr, key)), "content", want)
	}
	return r.Scenario{
		Name: "metadata",
		Steps: []r.Step{
			r.Navigate("/"),
			r.ExpectExactText(r.CSS("title"), "Home"),
			meta("name", "description", "Join Abbigayle and Frederick for their wedding celebration at the historic "+
				"Plummer House in Rochester, MN. Find all the details about the ceremony, reception, registry, and our story."),
			meta("property", "og:title", SiteTitle),
			meta("property", "og:url", SiteURL),
			meta("property", "og:type", "website"),
			meta("property", "og:image", SiteURL+"/images/sunset-embrace.jpg"),
			meta("name", "twitter:card", "summary_large_image"),
			r.ExpectAttribute(r.CSS(`link[rel="canonical"]`), "href", SiteURL),
		},
	}
}
