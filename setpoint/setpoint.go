// Package setpoint implements SetPoints (C5): an ordered piecewise-constant
// schedule of PpO2 vs depth used by closed-circuit rebreather mode, sorted
// decreasing-depth, decreasing-setpoint on ties (§3).
package setpoint

import (
	"sort"

	"github.com/m5lapp/decoplanner/params"
)

// Point is one (depth, setpoint) entry.
type Point struct {
	Depth    float64
	Setpoint float64
}

// List is the ordered set of setpoints.
type List struct {
	points []Point
}

// NewList constructs and sorts a setpoint List: decreasing depth, and on a
// depth tie, decreasing setpoint (§3, §8 property 6).
func NewList(points ...Point) *List {
	l := &List{points: make([]Point, len(points))}
	copy(l.points, points)
	l.sort()
	return l
}

func (l *List) sort() {
	sort.SliceStable(l.points, func(i, j int) bool {
		if l.points[i].Depth != l.points[j].Depth {
			return l.points[i].Depth > l.points[j].Depth
		}
		return l.points[i].Setpoint > l.points[j].Setpoint
	})
}

// Points returns the ordered (depth, setpoint) pairs.
func (l *List) Points() []Point {
	out := make([]Point, len(l.points))
	copy(out, l.points)
	return out
}

// Add inserts a point and re-sorts, preserving the invariant.
func (l *List) Add(p Point) {
	l.points = append(l.points, p)
	l.sort()
}

// EffectiveSetpoint implements §3's lookup:
//   - empty -> fallback to configured max PpO2 diluent;
//   - d >= deepest.depth OR boosted == false -> deepest's setpoint;
//   - d < shallowest.depth -> shallowest's setpoint;
//   - otherwise, the setpoint of the first i with d < depths[i] && d >= depths[i+1].
func (l *List) EffectiveSetpoint(depth float64, boosted bool, p params.Parameters) float64 {
	if len(l.points) == 0 {
		return p.MaxPpO2Diluent
	}

	deepest := l.points[0]
	shallowest := l.points[len(l.points)-1]

	if depth >= deepest.Depth || !boosted {
		return deepest.Setpoint
	}
	if depth < shallowest.Depth {
		return shallowest.Setpoint
	}

	for i := 0; i < len(l.points)-1; i++ {
		if depth < l.points[i].Depth && depth >= l.points[i+1].Depth {
			return l.points[i].Setpoint
		}
	}
	return shallowest.Setpoint
}

// DefaultList returns the seed default from §6:
// {(1000,1.3), (40,1.4), (21,1.5), (6,1.6)}.
func DefaultList() *List {
	return NewList(
		Point{Depth: 1000, Setpoint: 1.3},
		Point{Depth: 40, Setpoint: 1.4},
		Point{Depth: 21, Setpoint: 1.5},
		Point{Depth: 6, Setpoint: 1.6},
	)
}
