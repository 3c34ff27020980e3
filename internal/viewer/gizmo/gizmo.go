// Package gizmo animates an RGB axis triad spinning about a fixed axis.
package gizmo

import (
	"fmt"

	"hypercomplex/math"
)

// Vertex is one line endpoint as uploaded to the GPU: position then colour.
type Vertex struct {
	Position math.Vec3
	Color    math.Vec3
}

var (
	colorX    = math.Vec3{X: 0.95, Y: 0.25, Z: 0.2}
	colorY    = math.Vec3{X: 0.3, Y: 0.85, Z: 0.3}
	colorZ    = math.Vec3{X: 0.25, Y: 0.45, Z: 0.95}
	colorSpin = math.Vec3{X: 0.6, Y: 0.6, Z: 0.6}
)

type Gizmo struct {
	Axis        math.Vec3 // unit spin axis
	Speed       float32   // radians per second
	Length      float32
	Orientation math.Quaternion
}

func New(axis math.Vec3, speed float32) (*Gizmo, error) {
	if axis.LengthSqr() == 0 {
		return nil, fmt.Errorf("gizmo axis %v: %w", axis, math.ErrZeroMagnitude)
	}
	return &Gizmo{
		Axis:        axis.Normalize(),
		Speed:       speed,
		Length:      1,
		Orientation: math.QuaternionIdentity(),
	}, nil
}

// Update advances the orientation by Speed·dt about Axis. The accumulated
// orientation is renormalized every step so rounding never turns it into a
// scaling rotation.
func (g *Gizmo) Update(dt float32) {
	step := math.QuaternionFromAxisAngle(g.Axis, g.Speed*dt)
	g.Orientation = step.Mul(g.Orientation).Normalize()
}

// Lines returns line-list vertices for the rotated X, Y and Z axes followed
// by the spin axis itself.
func (g *Gizmo) Lines() []Vertex {
	x := g.Orientation.Rotate(math.Vec3Right.Mul(g.Length))
	y := g.Orientation.Rotate(math.Vec3Up.Mul(g.Length))
	z := g.Orientation.Rotate(math.Vec3Front.Mul(g.Length))
	spin := g.Axis.Mul(g.Length * 1.5)

	return []Vertex{
		{math.Vec3Zero, colorX}, {x, colorX},
		{math.Vec3Zero, colorY}, {y, colorY},
		{math.Vec3Zero, colorZ}, {z, colorZ},
		{spin.Negate(), colorSpin}, {spin, colorSpin},
	}
}
