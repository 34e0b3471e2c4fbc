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
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ttbt-io/weddingverify/runner"
)

type fileLocator struct {
	CSS    string `yaml:"css"`
	Text   string `yaml:"text"`
	Role   string `yaml:"role"`
	Name   string `yaml:"name"`
	TestID string `yaml:"test_id"`
	Label  string `yaml:"label"`
	Nth    int    `yaml:"nth"`
}

type filePointer struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Steps  int     `yaml:"steps"`
}

type fileStep struct {
	Kind        string        `yaml:"kind"`
	Description string        `yaml:"description"`
	URL         string        `yaml:"url"`
	Locator     *fileLocator  `yaml:"locator"`
	State       string        `yaml:"state"`
	Expression  string        `yaml:"expression"`
	TimeoutMS   int           `yaml:"timeout_ms"`
	DurationMS  int           `yaml:"duration_ms"`
	Pointer     []filePointer `yaml:"pointer"`
	Key         string        `yaml:"key"`
	Path        string        `yaml:"path"`
	FullPage    bool          `yaml:"full_page"`
	Attribute   string        `yaml:"attribute"`
	Value       string        `yaml:"value"`
	Exact       bool          `yaml:"exact"`
}

type fileScenario struct {
	Name  string     `yaml:"name"`
	Steps []fileStep `yaml:"steps"`
}

// LoadFile reads scenarios from a YAML file. See Parse.
func LoadFile(path string) ([]runner.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Parse decodes one scenario per YAML document. Unknown fields and step
// kinds are rejected, and every scenario is validated.
func Parse(r io.Reader) ([]runner.Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var out []runner.Scenario
	for doc := 0; ; doc++ {
		var fs fileScenario
		if err := dec.Decode(&fs); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		sc, err := fs.scenario()
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, errors.New("no scenarios")
	}
	return out, nil
}

func (fs fileScenario) scenario() (runner.Scenario, error) {
	sc := runner.Scenario{Name: fs.Name}
	for i, s := range fs.Steps {
		kind := runner.Kind(s.Kind)
		if !kind.Valid() {
			return sc, fmt.Errorf("step %d: %w: unknown kind %q", i, runner.ErrInvalidStep, s.Kind)
		}
		step := runner.Step{
			Kind:        kind,
			Description: s.Description,
			URL:         s.URL,
			State:       s.State,
			Expression:  s.Expression,
			Timeout:     time.Duration(s.TimeoutMS) * time.Millisecond,
			Duration:    time.Duration(s.DurationMS) * time.Millisecond,
			Key:         s.Key,
			Path:        s.Path,
			FullPage:    s.FullPage,
			Attribute:   s.Attribute,
			Value:       s.Value,
			Exact:       s.Exact,
		}
		if l := s.Locator; l != nil {
			step.Locator = runner.Locator{
				CSS:    l.CSS,
				Text:   l.Text,
				Role:   l.Role,
				Name:   l.Name,
				TestID: l.TestID,
				Label:  l.Label,
				Nth:    l.Nth,
			}
		}
		for _, p := range s.Pointer {
			step.Pointer = append(step.Pointer, runner.PointerEvent{Action: p.Action, X: p.X, Y: p.Y, Steps: p.Steps})
		}
		sc.Steps = append(sc.Steps, step)
	}
	return sc, nil
}
