// Package components defines the value types organisms are built from.
package components

import (
	"math/rand"
	"strings"
)

// Direction is a cardinal facing or movement outcome.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
	None // No movement
)

// String returns the display name for a Direction.
func (d Direction) String() string {
	names := DirectionNames()
	if int(d) < len(names) {
		return names[d]
	}
	return "Unknown"
}

// DirectionNames returns the display names for all directions.
// The order matches the Direction constants.
func DirectionNames() []string {
	return []string{"Up", "Down", "Left", "Right", "None"}
}

// Delta returns the unit grid step for the direction. Y grows downward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// DirectionFromDelta maps a unit step back to a Direction.
func DirectionFromDelta(dx, dy int) Direction {
	switch {
	case dx == 0 && dy == -1:
		return Up
	case dx == 0 && dy == 1:
		return Down
	case dx == -1 && dy == 0:
		return Left
	case dx == 1 && dy == 0:
		return Right
	}
	return None
}

// Cardinals lists the four movement directions in brain output order.
var Cardinals = [4]Direction{Up, Down, Left, Right}

// Kind enumerates organism building blocks.
type Kind uint8

const (
	Empty    Kind = iota // Occupancy marker only, never part of an anatomy
	Body                 // Structural filler
	Mouth                // Eats adjacent food
	Producer             // Drops food diagonally
	Mover                // Lets the organism move
	Killer               // Kills foreign cells it touches
	Armor                // Immune to killers
	Eye                  // Directional food/organism sensor
	Brain                // Adds a hidden layer to the brain
)

// anatomyKinds are the kinds a random cell can take.
var anatomyKinds = [...]Kind{Body, Mouth, Producer, Mover, Killer, Armor, Eye, Brain}

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// KindNames returns the display names for all kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"Empty", "Body", "Mouth", "Producer", "Mover", "Killer", "Armor", "Eye", "Brain"}
}

// Cell is a single typed building block. Facing is only meaningful for Eye.
type Cell struct {
	Kind   Kind
	Facing Direction
}

// NewCell returns a non-eye cell of the given kind.
func NewCell(kind Kind) Cell {
	return Cell{Kind: kind}
}

// NewEye returns an eye cell looking in the given direction.
func NewEye(facing Direction) Cell {
	return Cell{Kind: Eye, Facing: facing}
}

// IsEmpty reports whether the cell is the occupancy "nothing here" marker.
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// String returns the encoding name, e.g. "Mouth" or "Eye(Left)".
func (c Cell) String() string {
	if c.Kind == Eye {
		return "Eye(" + c.Facing.String() + ")"
	}
	return c.Kind.String()
}

// ParseCell parses a name produced by Cell.String. Empty is not a valid
// anatomy cell and is rejected.
func ParseCell(name string) (Cell, bool) {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "Eye(") && strings.HasSuffix(name, ")") {
		facing := name[len("Eye(") : len(name)-1]
		for _, d := range Cardinals {
			if d.String() == facing {
				return NewEye(d), true
			}
		}
		return Cell{}, false
	}
	for _, k := range anatomyKinds {
		if k != Eye && k.String() == name {
			return NewCell(k), true
		}
	}
	return Cell{}, false
}

// RandomCell returns a uniformly chosen anatomy cell. Eyes get a uniform facing.
func RandomCell(rng *rand.Rand) Cell {
	kind := anatomyKinds[rng.Intn(len(anatomyKinds))]
	if kind == Eye {
		return NewEye(Cardinals[rng.Intn(len(Cardinals))])
	}
	return NewCell(kind)
}
