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

// expandPointer converts events relative to the origin (ox, oy) into absolute
// single-step events. A move with Steps > 1 becomes Steps moves evenly spaced
// between the previous position and its target; the sequence starts at the
// origin.
func expandPointer(ox, oy float64, events []PointerEvent) []PointerEvent {
	out := make([]PointerEvent, 0, len(events))
	cx, cy := ox, oy
	for _, ev := range events {
		x, y := ox+ev.X, oy+ev.Y
		if ev.Action == PointerMove && ev.Steps > 1 {
			for i := 1; i <= ev.Steps; i++ {
				f := float64(i) / float64(ev.Steps)
				out = append(out, PointerEvent{Action: PointerMove, X: cx + (x-cx)*f, Y: cy + (y-cy)*f, Steps: 1})
			}
		} else {
			out = append(out, PointerEvent{Action: ev.Action, X: x, Y: y, Steps: 1})
		}
		cx, cy = x, y
	}
	return out
}
