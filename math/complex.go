package math

import (
	"cmp"
	"fmt"

	"github.com/chewxy/math32"
)

// Complex is r + i·î, the 2D companion of Quaternion. Multiplying by a
// complex number rotates and scales in the plane.
type Complex struct {
	R, I float32
}

// ComplexPolar is the polar form of a complex number.
type ComplexPolar struct {
	Magnitude float32
	Angle     float32
}

func NewComplex(r, i float32) Complex {
	return Complex{R: r, I: i}
}

func ComplexFromVec2(v Vec2) Complex {
	return Complex{R: v.X, I: v.Y}
}

func ComplexFromPolar(p ComplexPolar) Complex {
	sin, cos := math32.Sincos(p.Angle)
	return Complex{R: p.Magnitude * cos, I: p.Magnitude * sin}
}

func ComplexFromComplex64(z complex64) Complex {
	return Complex{R: real(z), I: imag(z)}
}

func (c Complex) Complex64() complex64 {
	return complex(c.R, c.I)
}

func (c Complex) Vec2() Vec2 {
	return Vec2{X: c.R, Y: c.I}
}

func (c Complex) AddScalar(f float32) Complex {
	return Complex{c.R + f, c.I + f}
}

func (c Complex) SubScalar(f float32) Complex {
	return c.AddScalar(-f)
}

func (c Complex) Scale(f float32) Complex {
	return Complex{c.R * f, c.I * f}
}

func (c Complex) DivScalar(f float32) Complex {
	return c.Scale(1 / f)
}

func (c Complex) Add(o Complex) Complex {
	return Complex{c.R + o.R, c.I + o.I}
}

func (c Complex) Sub(o Complex) Complex {
	return c.Add(o.Negate())
}

func (c Complex) Mul(o Complex) Complex {
	return Complex{c.R*o.R - c.I*o.I, c.R*o.I + o.R*c.I}
}

// Div returns c·o⁻¹.
func (c Complex) Div(o Complex) (Complex, error) {
	inv, err := o.Inverse()
	if err != nil {
		return Complex{}, fmt.Errorf("divide %v by %v: %w", c, o, err)
	}
	return c.Mul(inv), nil
}

func (c Complex) Rem(m float32) Complex {
	return Complex{math32.Mod(c.R, m), math32.Mod(c.I, m)}
}

func (c Complex) Mod(m float32) Complex {
	return Complex{mod(c.R, m), mod(c.I, m)}
}

func (c Complex) MaxScalar(f float32) Complex {
	return Complex{math32.Max(c.R, f), math32.Max(c.I, f)}
}

func (c Complex) MinScalar(f float32) Complex {
	return Complex{math32.Min(c.R, f), math32.Min(c.I, f)}
}

func (c Complex) Max(o Complex) Complex {
	return Complex{math32.Max(c.R, o.R), math32.Max(c.I, o.I)}
}

func (c Complex) Min(o Complex) Complex {
	return Complex{math32.Min(c.R, o.R), math32.Min(c.I, o.I)}
}

func (c Complex) ClampScalar(l, h float32) (Complex, error) {
	if err := checkBounds(l, h); err != nil {
		return Complex{}, err
	}
	return c.MaxScalar(l).MinScalar(h), nil
}

func (c Complex) Clamp(l, h Complex) (Complex, error) {
	if err := checkBounds(l.R, h.R); err != nil {
		return Complex{}, err
	}
	if err := checkBounds(l.I, h.I); err != nil {
		return Complex{}, err
	}
	return c.Max(l).Min(h), nil
}

// Pow raises c to the power n by scaling the polar angle: |c|^n at angle n·θ.
func (c Complex) Pow(n float32) Complex {
	p := c.PolarForm()
	return ComplexFromPolar(ComplexPolar{
		Magnitude: math32.Pow(p.Magnitude, n),
		Angle:     p.Angle * n,
	})
}

// Rotate multiplies v, read as a complex number, by c.
func (c Complex) Rotate(v Vec2) Vec2 {
	return c.Mul(ComplexFromVec2(v)).Vec2()
}

func (c Complex) Magnitude() float32 {
	return math32.Hypot(c.R, c.I)
}

func (c Complex) MagnitudeSqr() float32 {
	return c.R*c.R + c.I*c.I
}

// Angle is atan2(i, r), in (-π, π].
func (c Complex) Angle() float32 {
	return math32.Atan2(c.I, c.R)
}

func (c Complex) PolarForm() ComplexPolar {
	return ComplexPolar{Magnitude: c.Magnitude(), Angle: c.Angle()}
}

func (c Complex) Negate() Complex {
	return c.Scale(-1)
}

func (c Complex) Normalize() Complex {
	l := c.Magnitude()
	if l == 0 {
		return c
	}
	return Complex{c.R / l, c.I / l}
}

func (c Complex) Inverse() (Complex, error) {
	lsq := c.MagnitudeSqr()
	if lsq == 0 {
		return Complex{}, fmt.Errorf("invert complex number: %w", ErrZeroMagnitude)
	}
	return Complex{c.R / lsq, -c.I / lsq}, nil
}

func (c Complex) Conjugate() Complex {
	return Complex{c.R, -c.I}
}

func (c Complex) EpsilonEquals(o Complex, eps float32) bool {
	return within(c.R, o.R, eps) && within(c.I, o.I, eps)
}

func (c Complex) Compare(o Complex) int {
	return cmp.Compare(c.MagnitudeSqr(), o.MagnitudeSqr())
}
