package components

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Offset is a position relative to an organism's anchor.
type Offset struct {
	DX, DY int
}

// Part is one cell of an anatomy at its offset from the anchor.
type Part struct {
	DX, DY int
	Cell   Cell
}

// Offset returns the part's relative position.
func (p Part) Offset() Offset {
	return Offset{DX: p.DX, DY: p.DY}
}

// Anatomy is an ordered list of parts. Order is significant: it is the order
// cells act in each tick. Offsets are not required to be sorted.
type Anatomy []Part

// Bounds are the min/max offsets of an anatomy along each axis.
type Bounds struct {
	MinDX, MaxDX int
	MinDY, MaxDY int
}

// Width returns the number of columns the bounds span.
func (b Bounds) Width() int { return b.MaxDX - b.MinDX + 1 }

// Height returns the number of rows the bounds span.
func (b Bounds) Height() int { return b.MaxDY - b.MinDY + 1 }

// Clone returns a deep copy of the anatomy.
func (a Anatomy) Clone() Anatomy {
	if a == nil {
		return nil
	}
	clone := make(Anatomy, len(a))
	copy(clone, a)
	return clone
}

// Count returns how many parts have the given kind.
func (a Anatomy) Count(kind Kind) int {
	n := 0
	for _, p := range a {
		if p.Cell.Kind == kind {
			n++
		}
	}
	return n
}

// Occupies reports whether any part sits at the given offset.
func (a Anatomy) Occupies(dx, dy int) bool {
	for _, p := range a {
		if p.DX == dx && p.DY == dy {
			return true
		}
	}
	return false
}

// Bounds returns the anatomy's extents. An empty anatomy has zero bounds.
func (a Anatomy) Bounds() Bounds {
	if len(a) == 0 {
		return Bounds{}
	}
	b := Bounds{MinDX: a[0].DX, MaxDX: a[0].DX, MinDY: a[0].DY, MaxDY: a[0].DY}
	for _, p := range a[1:] {
		b.MinDX = min(b.MinDX, p.DX)
		b.MaxDX = max(b.MaxDX, p.DX)
		b.MinDY = min(b.MinDY, p.DY)
		b.MaxDY = max(b.MaxDY, p.DY)
	}
	return b
}

// Centroid returns the integer mean of all offsets, truncated toward zero.
func (a Anatomy) Centroid() (cx, cy int) {
	if len(a) == 0 {
		return 0, 0
	}
	for _, p := range a {
		cx += p.DX
		cy += p.DY
	}
	return cx / len(a), cy / len(a)
}

// index maps each occupied offset to the parts sitting there.
func (a Anatomy) index() map[Offset][]int {
	idx := make(map[Offset][]int, len(a))
	for i, p := range a {
		idx[p.Offset()] = append(idx[p.Offset()], i)
	}
	return idx
}

// Connected reports whether the parts form a single component, where two
// parts touch if their offsets differ by at most 1 on both axes. An empty
// anatomy is not connected.
func (a Anatomy) Connected() bool {
	if len(a) == 0 {
		return false
	}

	g := simple.NewUndirectedGraph()
	for i := range a {
		g.AddNode(simple.Node(i))
	}

	idx := a.index()
	for i, p := range a {
		for ny := p.DY - 1; ny <= p.DY+1; ny++ {
			for nx := p.DX - 1; nx <= p.DX+1; nx++ {
				for _, j := range idx[Offset{DX: nx, DY: ny}] {
					if j > i {
						g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
					}
				}
			}
		}
	}

	// Breadth-first from the first part must reach every part
	seen := 0
	var bf traverse.BreadthFirst
	bf.Walk(g, simple.Node(0), func(graph.Node, int) bool {
		seen++
		return false
	})
	return seen == len(a)
}

// Rotated returns the anatomy turned 90 degrees about its integer centroid.
// Clockwise maps a centroid-relative (x, y) to (y, -x); counter-clockwise is
// the inverse. Eye facings turn with their offsets.
func (a Anatomy) Rotated(clockwise bool) Anatomy {
	cx, cy := a.Centroid()
	out := make(Anatomy, len(a))
	for i, p := range a {
		rx, ry := rotateVec(p.DX-cx, p.DY-cy, clockwise)
		cell := p.Cell
		if cell.Kind == Eye {
			fx, fy := cell.Facing.Delta()
			fx, fy = rotateVec(fx, fy, clockwise)
			cell.Facing = DirectionFromDelta(fx, fy)
		}
		out[i] = Part{DX: cx + rx, DY: cy + ry, Cell: cell}
	}
	return out
}

func rotateVec(x, y int, clockwise bool) (int, int) {
	if clockwise {
		return y, -x
	}
	return -y, x
}

// Encode serializes the anatomy as "dx,dy,Name," triples in part order.
// The string doubles as the species name of the organism.
func (a Anatomy) Encode() string {
	var sb strings.Builder
	for _, p := range a {
		sb.WriteString(strconv.Itoa(p.DX))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(p.DY))
		sb.WriteByte(',')
		sb.WriteString(p.Cell.String())
		sb.WriteByte(',')
	}
	return sb.String()
}

// DecodeAnatomy parses a string produced by Encode. Fields are consumed in
// groups of three; a group that fails to parse is dropped and a trailing
// incomplete group is ignored.
func DecodeAnatomy(s string) Anatomy {
	fields := strings.Split(s, ",")
	var a Anatomy
	for i := 0; i+2 < len(fields); i += 3 {
		dx, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			continue
		}
		dy, err := strconv.Atoi(strings.TrimSpace(fields[i+1]))
		if err != nil {
			continue
		}
		cell, ok := ParseCell(fields[i+2])
		if !ok {
			continue
		}
		a = append(a, Part{DX: dx, DY: dy, Cell: cell})
	}
	return a
}
