// Package stopstep implements StopSteps (C6): user-pinned depth/time
// waypoints inserted into the ascent, sorted decreasing depth, with at
// least one element always present (§3).
package stopstep

import "sort"

// Step is one user-pinned waypoint.
type Step struct {
	Depth float64
	Time  float64 // minutes
}

// List is the ordered set of stop steps, always containing at least one
// element (the default surface-adjacent waypoint if none were configured).
type List struct {
	steps []Step
}

// NewList constructs a stop-step List sorted by decreasing depth. If no
// steps are given, a single zero-depth, zero-time step is seeded so the
// "at least one element always present" invariant holds.
func NewList(steps ...Step) *List {
	l := &List{steps: make([]Step, len(steps))}
	copy(l.steps, steps)
	if len(l.steps) == 0 {
		l.steps = []Step{{Depth: 0, Time: 0}}
	}
	sort.SliceStable(l.steps, func(i, j int) bool {
		return l.steps[i].Depth > l.steps[j].Depth
	})
	return l
}

// Steps returns the ordered steps.
func (l *List) Steps() []Step {
	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}
