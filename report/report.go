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

// Package report records scenario runs and compares their structure across
// runs.
package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ttbt-io/weddingverify/runner"
)

// StepRecord is the persisted form of a runner.StepResult.
type StepRecord struct {
	Index       int    `json:"index"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Observed    string `json:"observed,omitempty"`
	Artifact    string `json:"artifact,omitempty"`
	DurationMS  int64  `json:"durationMs"`
	Error       string `json:"error,omitempty"`
}

// Report is the record of one scenario run.
type Report struct {
	ID         string       `json:"id"`
	Scenario   string       `json:"scenario"`
	BaseURL    string       `json:"baseUrl"`
	Engine     string       `json:"engine,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	DurationMS int64        `json:"durationMs"`
	Passed     bool         `json:"passed"`
	FailedStep int          `json:"failedStep"`
	Category   string       `json:"category,omitempty"`
	Error      string       `json:"error,omitempty"`
	Steps      []StepRecord `json:"steps"`
	Artifacts  []string     `json:"artifacts,omitempty"`
}

// FromResult builds a report for res with a fresh run id.
func FromResult(res *runner.Result, baseURL, engine string) *Report {
	r := &Report{
		ID:         uuid.New().String(),
		Scenario:   res.Scenario,
		BaseURL:    baseURL,
		Engine:     engine,
		StartedAt:  res.StartedAt.UTC(),
		DurationMS: res.Duration.Milliseconds(),
		Passed:     res.Passed(),
		FailedStep: -1,
		Artifacts:  res.Artifacts,
	}
	for _, s := range res.Steps {
		rec := StepRecord{
			Index:       s.Index,
			Kind:        string(s.Kind),
			Description: s.Description,
			Observed:    s.Observed,
			Artifact:    s.Artifact,
			DurationMS:  s.Duration.Milliseconds(),
		}
		if s.Err != nil {
			rec.Error = s.Err.Error()
		}
		r.Steps = append(r.Steps, rec)
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
		r.Category = Category(res.Err)
		var se *runner.StepError
		if errors.As(res.Err, &se) {
			r.FailedStep = se.Index
		}
	}
	return r
}

// Category names the class of err in the runner's error taxonomy.
func Category(err error) string {
	for _, c := range []struct {
		err  error
		name string
	}{
		{runner.ErrLaunch, "launch"},
		{runner.ErrNavigation, "navigation"},
		{runner.ErrTimeout, "timeout"},
		{runner.ErrAssertion, "assertion"},
		{runner.ErrCapture, "capture"},
		{runner.ErrInvalidStep, "invalid"},
		{runner.ErrSessionClosed, "session"},
	} {
		if errors.Is(err, c.err) {
			return c.name
		}
	}
	return "error"
}

// Structure returns the run's structural summary: what each step observed
// and which artifacts it produced. It leaves out ids, timings and pixel
// content so that repeated runs against an unchanged site compare equal.
func (r *Report) Structure() []string {
	lines := []string{"scenario " + r.Scenario}
	for _, s := range r.Steps {
		line := fmt.Sprintf("%02d %s: %s", s.Index, s.Kind, s.Description)
		if s.Observed != "" {
			line += " => " + s.Observed
		}
		if s.Artifact != "" {
			line += " [" + filepath.Base(s.Artifact) + "]"
		}
		lines = append(lines, line)
	}
	if r.Passed {
		lines = append(lines, "passed")
	} else {
		lines = append(lines, fmt.Sprintf("failed at step %d (%s)", r.FailedStep, r.Category))
	}
	return lines
}
