package math

import (
	"cmp"
	"fmt"

	"github.com/chewxy/math32"
)

// Quaternion is s + i·î + j·ĵ + k·k̂. Every method returns a new value; no
// method modifies its receiver or arguments.
type Quaternion struct {
	S, I, J, K float32
}

// Polar is the polar decomposition of a quaternion: its magnitude, the angle
// acos(s/|q|) and the unit axis of its vector part.
type Polar struct {
	Magnitude float32
	Theta     float32
	Axis      Vec3
}

// integerTolerance decides when Pow treats its exponent as a whole number.
const integerTolerance = 1e-9

func QuaternionIdentity() Quaternion {
	return Quaternion{S: 1, I: 0, J: 0, K: 0}
}

func NewQuaternion(s, i, j, k float32) Quaternion {
	return Quaternion{S: s, I: i, J: j, K: k}
}

func QuaternionFromScalarVec3(s float32, v Vec3) Quaternion {
	return Quaternion{S: s, I: v.X, J: v.Y, K: v.Z}
}

// QuaternionFromVec4 reads (X, Y, Z, W) as (i, j, k, s).
func QuaternionFromVec4(v Vec4) Quaternion {
	return Quaternion{S: v.W, I: v.X, J: v.Y, K: v.Z}
}

// QuaternionFromComplex uses the real part of c as s and its imaginary part
// as i.
func QuaternionFromComplex(c Complex, j, k float32) Quaternion {
	return Quaternion{S: c.R, I: c.I, J: j, K: k}
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	s, c := math32.Sincos(angle / 2)
	return QuaternionFromScalarVec3(c, axis.Normalize().Mul(s))
}

// QuaternionFromEuler builds a rotation from roll (X), pitch (Y) and yaw (Z)
// in radians.
func QuaternionFromEuler(euler Vec3) Quaternion {
	sx, cx := math32.Sincos(euler.X / 2)
	sy, cy := math32.Sincos(euler.Y / 2)
	sz, cz := math32.Sincos(euler.Z / 2)

	return Quaternion{
		S: cx*cy*cz + sx*sy*sz,
		I: sx*cy*cz - cx*sy*sz,
		J: cx*sy*cz + sx*cy*sz,
		K: cx*cy*sz - sx*sy*cz,
	}
}

func (q Quaternion) Vec4() Vec4 {
	return Vec4{X: q.I, Y: q.J, Z: q.K, W: q.S}
}

func (q Quaternion) Imag() Vec3 {
	return Vec3{X: q.I, Y: q.J, Z: q.K}
}

// ── scalar operators ─────────────────────────────────────────────────────────

func (q Quaternion) AddScalar(f float32) Quaternion {
	return Quaternion{q.S + f, q.I + f, q.J + f, q.K + f}
}

func (q Quaternion) SubScalar(f float32) Quaternion {
	return q.AddScalar(-f)
}

func (q Quaternion) Scale(f float32) Quaternion {
	return Quaternion{q.S * f, q.I * f, q.J * f, q.K * f}
}

// DivScalar follows float semantics: dividing by zero yields ±Inf or NaN.
func (q Quaternion) DivScalar(f float32) Quaternion {
	return q.Scale(1 / f)
}

// ScaleImag scales the vector part only.
func (q Quaternion) ScaleImag(f float32) Quaternion {
	return Quaternion{q.S, q.I * f, q.J * f, q.K * f}
}

func (q Quaternion) DivImag(f float32) Quaternion {
	return q.ScaleImag(1 / f)
}

// ── quaternion operators ─────────────────────────────────────────────────────

func (q Quaternion) Add(o Quaternion) Quaternion {
	return Quaternion{q.S + o.S, q.I + o.I, q.J + o.J, q.K + o.K}
}

func (q Quaternion) Sub(o Quaternion) Quaternion {
	return q.Add(o.Negate())
}

// Mul returns the Hamilton product q·o. It is not commutative.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		S: q.S*o.S - q.I*o.I - q.J*o.J - q.K*o.K,
		I: q.S*o.I + q.I*o.S + q.J*o.K - q.K*o.J,
		J: q.S*o.J - q.I*o.K + q.J*o.S + q.K*o.I,
		K: q.S*o.K + q.I*o.J - q.J*o.I + q.K*o.S,
	}
}

// Div returns the right quotient q·o⁻¹.
func (q Quaternion) Div(o Quaternion) (Quaternion, error) {
	inv, err := o.Inverse()
	if err != nil {
		return Quaternion{}, fmt.Errorf("divide %v by %v: %w", q, o, err)
	}
	return q.Mul(inv), nil
}

func (q Quaternion) Dot(o Quaternion) float32 {
	return q.S*o.S + q.I*o.I + q.J*o.J + q.K*o.K
}

// ── component-wise utilities ─────────────────────────────────────────────────

// Rem is the truncated remainder of each component; the sign follows the
// component.
func (q Quaternion) Rem(m float32) Quaternion {
	return Quaternion{
		math32.Mod(q.S, m),
		math32.Mod(q.I, m),
		math32.Mod(q.J, m),
		math32.Mod(q.K, m),
	}
}

// Mod is the mathematical modulus of each component, never negative for a
// positive m.
func (q Quaternion) Mod(m float32) Quaternion {
	return Quaternion{mod(q.S, m), mod(q.I, m), mod(q.J, m), mod(q.K, m)}
}

func (q Quaternion) MaxScalar(f float32) Quaternion {
	return Quaternion{math32.Max(q.S, f), math32.Max(q.I, f), math32.Max(q.J, f), math32.Max(q.K, f)}
}

func (q Quaternion) MinScalar(f float32) Quaternion {
	return Quaternion{math32.Min(q.S, f), math32.Min(q.I, f), math32.Min(q.J, f), math32.Min(q.K, f)}
}

func (q Quaternion) Max(o Quaternion) Quaternion {
	return Quaternion{math32.Max(q.S, o.S), math32.Max(q.I, o.I), math32.Max(q.J, o.J), math32.Max(q.K, o.K)}
}

func (q Quaternion) Min(o Quaternion) Quaternion {
	return Quaternion{math32.Min(q.S, o.S), math32.Min(q.I, o.I), math32.Min(q.J, o.J), math32.Min(q.K, o.K)}
}

// ClampScalar limits every component to [l, h].
func (q Quaternion) ClampScalar(l, h float32) (Quaternion, error) {
	if err := checkBounds(l, h); err != nil {
		return Quaternion{}, err
	}
	return q.MaxScalar(l).MinScalar(h), nil
}

// Clamp limits each component to the matching components of l and h. Every
// component of h must be at least the matching component of l.
func (q Quaternion) Clamp(l, h Quaternion) (Quaternion, error) {
	for _, b := range [][2]float32{{l.S, h.S}, {l.I, h.I}, {l.J, h.J}, {l.K, h.K}} {
		if err := checkBounds(b[0], b[1]); err != nil {
			return Quaternion{}, err
		}
	}
	return q.Max(l).Min(h), nil
}

// ── exponentiation ───────────────────────────────────────────────────────────

// Pow raises q to the power n.
//
// A positive whole n is computed by repeated right multiplication starting
// from the identity. Any other n goes through the polar form, and that branch
// deliberately differs from textbook exponentiation in two ways:
//
//   - the angle itself is raised to n (θ^n) instead of being scaled (θ·n);
//   - a zero quaternion yields the identity, for any n.
//
// Callers relying on these results must not assume q^n = |q|^n(cos nθ + û sin nθ).
func (q Quaternion) Pow(n float32) Quaternion {
	if math32.Abs(math32.Mod(n, 1)) < integerTolerance && n > 0 {
		result := QuaternionIdentity()
		for c := int(n); c > 0; c-- {
			result = result.Mul(q)
		}
		return result
	}

	p := q.PolarForm()
	if p.Magnitude == 0 {
		return QuaternionIdentity()
	}

	newMag := math32.Pow(p.Magnitude, n)
	newTheta := math32.Pow(p.Theta, n)
	sin, cos := math32.Sincos(newTheta)

	return QuaternionFromScalarVec3(newMag*cos, p.Axis.Mul(newMag*sin))
}

// ── rotation ─────────────────────────────────────────────────────────────────

// Rotate applies q to v with the sandwich product q·(0,v)·q̄. q should be a
// unit quaternion; any other magnitude also scales v by |q|².
func (q Quaternion) Rotate(v Vec3) Vec3 {
	if q.S == 1 && q.Magnitude() == 1 {
		return v
	}
	res := q.Mul(QuaternionFromScalarVec3(0, v)).Mul(q.Conjugate())
	return res.Imag()
}

func (q Quaternion) ToMat4() Mat4 {
	xx := q.I * q.I
	yy := q.J * q.J
	zz := q.K * q.K
	xy := q.I * q.J
	xz := q.I * q.K
	yz := q.J * q.K
	wx := q.S * q.I
	wy := q.S * q.J
	wz := q.S * q.K

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

// QuaternionFromMat4 extracts the rotation from the upper 3x3 block of m, the
// inverse of ToMat4. The block must be a pure rotation; remove any scale
// first. The result is unit length with an arbitrary sign.
func QuaternionFromMat4(m Mat4) Quaternion {
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := math32.Sqrt(tr+1) * 2
		return Quaternion{
			S: s / 4,
			I: (m[1][2] - m[2][1]) / s,
			J: (m[2][0] - m[0][2]) / s,
			K: (m[0][1] - m[1][0]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math32.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		return Quaternion{
			S: (m[1][2] - m[2][1]) / s,
			I: s / 4,
			J: (m[0][1] + m[1][0]) / s,
			K: (m[2][0] + m[0][2]) / s,
		}
	case m[1][1] > m[2][2]:
		s := math32.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		return Quaternion{
			S: (m[2][0] - m[0][2]) / s,
			I: (m[0][1] + m[1][0]) / s,
			J: s / 4,
			K: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := math32.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		return Quaternion{
			S: (m[0][1] - m[1][0]) / s,
			I: (m[2][0] + m[0][2]) / s,
			J: (m[1][2] + m[2][1]) / s,
			K: s / 4,
		}
	}
}

// ToEuler returns roll (X), pitch (Y) and yaw (Z) in radians, the inverse of
// QuaternionFromEuler for unit quaternions.
func (q Quaternion) ToEuler() Vec3 {
	roll := math32.Atan2(2*(q.S*q.I+q.J*q.K), 1-2*(q.I*q.I+q.J*q.J))

	sinP := 2 * (q.S*q.J - q.K*q.I)
	var pitch float32
	if math32.Abs(sinP) >= 1 {
		pitch = math32.Copysign(math32.Pi/2, sinP)
	} else {
		pitch = math32.Asin(sinP)
	}

	yaw := math32.Atan2(2*(q.S*q.K+q.I*q.J), 1-2*(q.J*q.J+q.K*q.K))

	return Vec3{X: roll, Y: pitch, Z: yaw}
}

// ── information ──────────────────────────────────────────────────────────────

func (q Quaternion) Magnitude() float32 {
	return math32.Sqrt(q.MagnitudeSqr())
}

func (q Quaternion) MagnitudeSqr() float32 {
	return q.S*q.S + q.I*q.I + q.J*q.J + q.K*q.K
}

// PolarForm decomposes q into magnitude, angle and unit axis.
//
// The zero quaternion decomposes to the zero Polar. A non-zero real
// quaternion has no vector part to take a direction from, so its axis is
// fixed to î.
func (q Quaternion) PolarForm() Polar {
	mag := q.Magnitude()
	if mag == 0 {
		return Polar{}
	}

	// Rounding can push s/|q| just past ±1 for nearly real quaternions.
	ratio := math32.Max(-1, math32.Min(1, q.S/mag))
	theta := math32.Acos(ratio)

	vMag := q.Imag().Length()
	if vMag == 0 {
		return Polar{Magnitude: mag, Theta: theta, Axis: Vec3Right}
	}
	return Polar{Magnitude: mag, Theta: theta, Axis: q.Imag().Mul(1 / vMag)}
}

// ── transformers ─────────────────────────────────────────────────────────────

func (q Quaternion) Negate() Quaternion {
	return q.Scale(-1)
}

// Normalize returns q unchanged when it is the zero quaternion.
func (q Quaternion) Normalize() Quaternion {
	l := q.Magnitude()
	if l == 0 {
		return q
	}
	return Quaternion{q.S / l, q.I / l, q.J / l, q.K / l}
}

func (q Quaternion) Inverse() (Quaternion, error) {
	lsq := q.MagnitudeSqr()
	if lsq == 0 {
		return Quaternion{}, fmt.Errorf("invert quaternion: %w", ErrZeroMagnitude)
	}
	conj := q.Conjugate()
	return Quaternion{conj.S / lsq, conj.I / lsq, conj.J / lsq, conj.K / lsq}, nil
}

func (q Quaternion) Conjugate() Quaternion {
	return q.ScaleImag(-1)
}

// ── comparison ───────────────────────────────────────────────────────────────

// EpsilonEquals reports whether every component of q differs from the
// matching component of o by strictly less than eps. Identical components
// always match, so the relation is reflexive even for eps == 0.
func (q Quaternion) EpsilonEquals(o Quaternion, eps float32) bool {
	return within(q.S, o.S, eps) &&
		within(q.I, o.I, eps) &&
		within(q.J, o.J, eps) &&
		within(q.K, o.K, eps)
}

// Compare orders quaternions by squared magnitude. Distinct quaternions of
// equal magnitude compare as 0, so this is not a total order over values.
func (q Quaternion) Compare(o Quaternion) int {
	return cmp.Compare(q.MagnitudeSqr(), o.MagnitudeSqr())
}

// CompareMagnitude is Compare in the shape slices.SortFunc expects. Sorting
// with it keeps no particular order among equal-magnitude quaternions.
func CompareMagnitude(a, b Quaternion) int {
	return a.Compare(b)
}

func checkBounds(l, h float32) error {
	if h < l {
		return fmt.Errorf("clamp: %w ... %v < %v", ErrInvalidBounds, h, l)
	}
	return nil
}

func within(a, b, eps float32) bool {
	return a == b || math32.Abs(a-b) < eps
}

func mod(x, m float32) float32 {
	return math32.Mod(math32.Mod(x, m)+m, m)
}
