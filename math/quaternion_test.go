package math

import (
	"errors"
	stdmath "math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEpsilon = 1e-5

var (
	qi = NewQuaternion(0, 1, 0, 0)
	qj = NewQuaternion(0, 0, 1, 0)
	qk = NewQuaternion(0, 0, 0, 1)
)

func randomQuaternions(n int) []Quaternion {
	r := rand.New(rand.NewPCG(7, 11))
	out := make([]Quaternion, 0, n)
	for len(out) < n {
		q := NewQuaternion(r.Float32()*2-1, r.Float32()*2-1, r.Float32()*2-1, r.Float32()*2-1)
		if q.Magnitude() < 0.1 {
			continue
		}
		out = append(out, q)
	}
	return out
}

func assertQuatNear(t *testing.T, expected, actual Quaternion, eps float32) {
	t.Helper()
	assert.Truef(t, expected.EpsilonEquals(actual, eps), "expected %v, got %v (eps %v)", expected, actual, eps)
}

func TestQuaternionConstructors(t *testing.T) {
	tests := []struct {
		name     string
		got      Quaternion
		expected Quaternion
	}{
		{name: "identity", got: QuaternionIdentity(), expected: Quaternion{S: 1}},
		{name: "explicit", got: NewQuaternion(1, 2, 3, 4), expected: Quaternion{S: 1, I: 2, J: 3, K: 4}},
		{name: "scalar and vector", got: QuaternionFromScalarVec3(5, NewVec3(6, 7, 8)), expected: NewQuaternion(5, 6, 7, 8)},
		{name: "vec4 maps w to the scalar", got: QuaternionFromVec4(NewVec4(1, 2, 3, 4)), expected: NewQuaternion(4, 1, 2, 3)},
		{name: "complex fills s and i", got: QuaternionFromComplex(NewComplex(9, -1), 2, 3), expected: NewQuaternion(9, -1, 2, 3)},
		{name: "zero is accepted", got: NewQuaternion(0, 0, 0, 0), expected: Quaternion{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}

	q := NewQuaternion(1, 2, 3, 4)
	assert.Equal(t, NewVec4(2, 3, 4, 1), q.Vec4())
	assert.Equal(t, q, QuaternionFromVec4(q.Vec4()))
}

func TestQuaternionScalarOperators(t *testing.T) {
	q := NewQuaternion(1, -2, 3, -4)

	assert.Equal(t, NewQuaternion(3, 0, 5, -2), q.AddScalar(2))
	assert.Equal(t, NewQuaternion(0, -3, 2, -5), q.SubScalar(1))
	assert.Equal(t, NewQuaternion(2, -4, 6, -8), q.Scale(2))
	assert.Equal(t, NewQuaternion(0.5, -1, 1.5, -2), q.DivScalar(2))
	assert.Equal(t, NewQuaternion(1, -4, 6, -8), q.ScaleImag(2))
	assert.Equal(t, NewQuaternion(1, -1, 1.5, -2), q.DivImag(2))
	assert.Equal(t, NewQuaternion(1, 2, -3, 4), q.Conjugate())
	assert.Equal(t, NewQuaternion(-1, 2, -3, 4), q.Negate())

	// The receiver is never modified.
	assert.Equal(t, NewQuaternion(1, -2, 3, -4), q)
}

func TestQuaternionDivScalarByZeroPropagates(t *testing.T) {
	q := NewQuaternion(1, -1, 0, 2).DivScalar(0)

	assert.True(t, math32.IsInf(q.S, 1))
	assert.True(t, math32.IsInf(q.I, -1))
	assert.True(t, math32.IsNaN(q.J))
	assert.True(t, math32.IsInf(q.K, 1))
}

func TestQuaternionAddSub(t *testing.T) {
	a := NewQuaternion(1, 2, 3, 4)
	b := NewQuaternion(0.5, -1, 2, 8)

	assert.Equal(t, NewQuaternion(1.5, 1, 5, 12), a.Add(b))
	assert.Equal(t, NewQuaternion(0.5, 3, 1, -4), a.Sub(b))
}

func TestHamiltonProductBasis(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Quaternion
		expected Quaternion
	}{
		{name: "i*j", a: qi, b: qj, expected: qk},
		{name: "j*i", a: qj, b: qi, expected: qk.Negate()},
		{name: "j*k", a: qj, b: qk, expected: qi},
		{name: "k*j", a: qk, b: qj, expected: qi.Negate()},
		{name: "k*i", a: qk, b: qi, expected: qj},
		{name: "i*k", a: qi, b: qk, expected: qj.Negate()},
		{name: "i*i", a: qi, b: qi, expected: NewQuaternion(-1, 0, 0, 0)},
		{name: "j*j", a: qj, b: qj, expected: NewQuaternion(-1, 0, 0, 0)},
		{name: "k*k", a: qk, b: qk, expected: NewQuaternion(-1, 0, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.a.Mul(tc.b))
		})
	}
}

func TestHamiltonProductGeneral(t *testing.T) {
	a := NewQuaternion(1, 2, 3, 4)
	b := NewQuaternion(5, 6, 7, 8)

	assert.Equal(t, NewQuaternion(-60, 12, 30, 24), a.Mul(b))
	assert.Equal(t, NewQuaternion(-60, 20, 14, 32), b.Mul(a))
}

func TestHamiltonProductAssociative(t *testing.T) {
	qs := randomQuaternions(60)
	for n := 0; n+2 < len(qs); n += 3 {
		a, b, c := qs[n], qs[n+1], qs[n+2]
		assertQuatNear(t, a.Mul(b).Mul(c), a.Mul(b.Mul(c)), 1e-4)
	}
}

func TestHamiltonProductIdentity(t *testing.T) {
	id := QuaternionIdentity()
	for _, q := range randomQuaternions(20) {
		assertQuatNear(t, q, q.Mul(id), testEpsilon)
		assertQuatNear(t, q, id.Mul(q), testEpsilon)
	}
}

func TestQuaternionInverse(t *testing.T) {
	id := QuaternionIdentity()
	for _, q := range randomQuaternions(20) {
		inv, err := q.Inverse()
		require.NoError(t, err)
		assertQuatNear(t, id, q.Mul(inv), 1e-4)
		assertQuatNear(t, id, inv.Mul(q), 1e-4)
	}

	_, err := Quaternion{}.Inverse()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroMagnitude))
}

func TestQuaternionDiv(t *testing.T) {
	a := NewQuaternion(1, 2, 3, 4)
	b := NewQuaternion(0.5, -1, 0.25, 2)

	quotient, err := a.Div(b)
	require.NoError(t, err)
	assertQuatNear(t, a, quotient.Mul(b), 1e-4)

	// Right division: a / b = a · b⁻¹, which differs from b⁻¹ · a.
	inv, err := b.Inverse()
	require.NoError(t, err)
	assertQuatNear(t, a.Mul(inv), quotient, testEpsilon)
	assert.False(t, inv.Mul(a).EpsilonEquals(quotient, testEpsilon))

	_, err = a.Div(Quaternion{})
	assert.ErrorIs(t, err, ErrZeroMagnitude)
}

func TestQuaternionNormalize(t *testing.T) {
	for _, q := range randomQuaternions(20) {
		assert.InDelta(t, 1, q.Normalize().Magnitude(), testEpsilon)
	}
	assert.Equal(t, Quaternion{}, Quaternion{}.Normalize())
}

func TestQuaternionMagnitude(t *testing.T) {
	q := NewQuaternion(1, 1, 1, 1)
	assert.Equal(t, float32(4), q.MagnitudeSqr())
	assert.Equal(t, float32(2), q.Magnitude())
	assert.Equal(t, float32(10), NewQuaternion(1, 2, 3, 4).Dot(NewQuaternion(1, 1, 1, 1)))
}

func TestQuaternionPolarForm(t *testing.T) {
	t.Run("zero quaternion", func(t *testing.T) {
		assert.Equal(t, Polar{}, Quaternion{}.PolarForm())
	})

	t.Run("general", func(t *testing.T) {
		p := NewQuaternion(1, 1, 1, 1).PolarForm()
		invSqrt3 := float32(1 / stdmath.Sqrt(3))

		assert.Equal(t, float32(2), p.Magnitude)
		assert.InDelta(t, stdmath.Pi/3, p.Theta, testEpsilon)
		assert.InDelta(t, invSqrt3, p.Axis.X, testEpsilon)
		assert.InDelta(t, invSqrt3, p.Axis.Y, testEpsilon)
		assert.InDelta(t, invSqrt3, p.Axis.Z, testEpsilon)
	})

	t.Run("positive real uses the fixed axis", func(t *testing.T) {
		p := NewQuaternion(2, 0, 0, 0).PolarForm()
		assert.Equal(t, Polar{Magnitude: 2, Theta: 0, Axis: Vec3Right}, p)
	})

	t.Run("negative real uses the fixed axis", func(t *testing.T) {
		p := NewQuaternion(-3, 0, 0, 0).PolarForm()
		assert.Equal(t, float32(3), p.Magnitude)
		assert.InDelta(t, stdmath.Pi, p.Theta, testEpsilon)
		assert.Equal(t, Vec3Right, p.Axis)
	})

	t.Run("rounding never yields NaN", func(t *testing.T) {
		for _, q := range randomQuaternions(50) {
			p := NewQuaternion(q.S, q.I*1e-4, 0, 0).PolarForm()
			assert.False(t, math32.IsNaN(p.Theta), "theta of %v", q)
		}
	})
}

func TestQuaternionPowInteger(t *testing.T) {
	for _, q := range randomQuaternions(10) {
		assertQuatNear(t, q, q.Pow(1), testEpsilon)
		assertQuatNear(t, q.Mul(q), q.Pow(2), testEpsilon)
		assertQuatNear(t, q.Mul(q).Mul(q), q.Pow(3), 1e-4)
	}

	// i⁴ = 1
	assertQuatNear(t, QuaternionIdentity(), qi.Pow(4), testEpsilon)

	// A zero base stays zero on the integer branch.
	assert.Equal(t, Quaternion{}, Quaternion{}.Pow(2))
}

// The general branch raises the polar angle to the power n rather than
// multiplying it by n, and maps a zero base to the identity. These cases pin
// that behaviour so any change to it is deliberate.
func TestQuaternionPowGeneralBranchDeviation(t *testing.T) {
	t.Run("angle is exponentiated", func(t *testing.T) {
		// i has magnitude 1, θ = π/2, axis î.
		got := qi.Pow(0.5)

		theta := stdmath.Pow(stdmath.Pi/2, 0.5)
		expected := NewQuaternion(float32(stdmath.Cos(theta)), float32(stdmath.Sin(theta)), 0, 0)
		assertQuatNear(t, expected, got, testEpsilon)

		// Textbook exponentiation would give cos(π/4) + î·sin(π/4).
		textbook := NewQuaternion(float32(stdmath.Sqrt2/2), float32(stdmath.Sqrt2/2), 0, 0)
		assert.False(t, textbook.EpsilonEquals(got, 1e-3))
	})

	t.Run("magnitude is exponentiated", func(t *testing.T) {
		got := qi.Scale(4).Pow(0.5)
		assert.InDelta(t, 2, got.Magnitude(), testEpsilon)
	})

	t.Run("zero base yields identity", func(t *testing.T) {
		for _, n := range []float32{0.5, -1, 0, -2.5} {
			assert.Equal(t, QuaternionIdentity(), Quaternion{}.Pow(n), "n = %v", n)
		}
	})

	t.Run("non-positive whole exponents use the polar branch", func(t *testing.T) {
		q := NewQuaternion(0, 2, 0, 0)
		theta := stdmath.Pow(stdmath.Pi/2, -1)
		expected := NewQuaternion(
			float32(0.5*stdmath.Cos(theta)),
			float32(0.5*stdmath.Sin(theta)), 0, 0)
		assertQuatNear(t, expected, q.Pow(-1), testEpsilon)
	})
}

func TestQuaternionRotate(t *testing.T) {
	t.Run("identity leaves vectors unchanged", func(t *testing.T) {
		v := NewVec3(1.5, -2, 7)
		assert.Equal(t, v, QuaternionIdentity().Rotate(v))
	})

	t.Run("quarter turn about Z", func(t *testing.T) {
		q := QuaternionFromAxisAngle(Vec3Front, math32.Pi/2)
		got := q.Rotate(Vec3Right)
		assert.InDelta(t, 0, got.X, testEpsilon)
		assert.InDelta(t, 1, got.Y, testEpsilon)
		assert.InDelta(t, 0, got.Z, testEpsilon)
	})

	t.Run("unit quaternions preserve length", func(t *testing.T) {
		v := NewVec3(3, -4, 12)
		for _, q := range randomQuaternions(30) {
			got := q.Normalize().Rotate(v)
			assert.InDelta(t, 13, got.Length(), 1e-4)
		}
	})

	t.Run("non-unit quaternions also scale", func(t *testing.T) {
		got := QuaternionIdentity().Scale(2).Rotate(Vec3Right)
		assert.InDelta(t, 4, got.Length(), testEpsilon)
	})

	t.Run("composition applies the right operand first", func(t *testing.T) {
		a := QuaternionFromAxisAngle(Vec3Front, math32.Pi/2)
		b := QuaternionFromAxisAngle(Vec3Up, math32.Pi/2)
		v := NewVec3(1, 2, 3)

		composed := a.Mul(b).Rotate(v)
		stepwise := a.Rotate(b.Rotate(v))
		assert.InDelta(t, 0, composed.Sub(stepwise).Length(), 1e-4)
	})
}

func TestQuaternionEuler(t *testing.T) {
	euler := NewVec3(0.3, -0.2, 0.9)
	got := QuaternionFromEuler(euler).ToEuler()

	assert.InDelta(t, euler.X, got.X, testEpsilon)
	assert.InDelta(t, euler.Y, got.Y, testEpsilon)
	assert.InDelta(t, euler.Z, got.Z, testEpsilon)

	// A pure yaw matches the axis-angle construction about Z.
	assertQuatNear(t, QuaternionFromAxisAngle(Vec3Front, 0.7), QuaternionFromEuler(NewVec3(0, 0, 0.7)), testEpsilon)
}

func TestQuaternionRemainderAndModulus(t *testing.T) {
	q := NewQuaternion(5.5, -5.5, 3, -3)

	assert.Equal(t, NewQuaternion(1.5, -1.5, 1, -1), q.Rem(2))
	assert.Equal(t, NewQuaternion(1.5, 0.5, 1, 1), q.Mod(2))
}

func TestQuaternionMinMax(t *testing.T) {
	q := NewQuaternion(-1, 0.5, 2, 4)
	o := NewQuaternion(0, 0, 3, 3)

	assert.Equal(t, NewQuaternion(1, 1, 2, 4), q.MaxScalar(1))
	assert.Equal(t, NewQuaternion(-1, 0.5, 1, 1), q.MinScalar(1))
	assert.Equal(t, NewQuaternion(0, 0.5, 3, 4), q.Max(o))
	assert.Equal(t, NewQuaternion(-1, 0, 2, 3), q.Min(o))
}

func TestQuaternionClamp(t *testing.T) {
	q := NewQuaternion(-3, 0.25, 2, 9)

	t.Run("scalar bounds", func(t *testing.T) {
		got, err := q.ClampScalar(-1, 1)
		require.NoError(t, err)
		assert.Equal(t, NewQuaternion(-1, 0.25, 1, 1), got)

		got, err = q.ClampScalar(0.5, 0.5)
		require.NoError(t, err)
		assert.Equal(t, NewQuaternion(0.5, 0.5, 0.5, 0.5), got)
	})

	t.Run("inverted scalar bounds", func(t *testing.T) {
		_, err := q.ClampScalar(1, 0.5)
		require.ErrorIs(t, err, ErrInvalidBounds)
		assert.Contains(t, err.Error(), "0.5 < 1")
	})

	t.Run("quaternion bounds", func(t *testing.T) {
		got, err := q.Clamp(NewQuaternion(-2, 0, 0, 0), NewQuaternion(0, 1, 1, 10))
		require.NoError(t, err)
		assert.Equal(t, NewQuaternion(-2, 0.25, 1, 9), got)
	})

	t.Run("inverted quaternion bounds", func(t *testing.T) {
		tests := []struct {
			name string
			l, h Quaternion
			msg  string
		}{
			{name: "s", l: NewQuaternion(1, 2, 3, 3), h: NewQuaternion(0, 3, 5, 7), msg: "0 < 1"},
			{name: "i", l: NewQuaternion(0, 2, 3, 3), h: NewQuaternion(0, 1.5, 5, 7), msg: "1.5 < 2"},
			{name: "j", l: NewQuaternion(0, 0, 3, 3), h: NewQuaternion(0, 0, 2, 7), msg: "2 < 3"},
			{name: "k", l: NewQuaternion(0, 0, 0, 8), h: NewQuaternion(0, 0, 0, 7), msg: "7 < 8"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := q.Clamp(tc.l, tc.h)
				require.ErrorIs(t, err, ErrInvalidBounds)
				assert.Contains(t, err.Error(), tc.msg)
			})
		}
	})

	t.Run("results lie within bounds", func(t *testing.T) {
		for _, r := range randomQuaternions(20) {
			got, err := r.Scale(5).ClampScalar(-1, 2)
			require.NoError(t, err)
			for _, c := range []float32{got.S, got.I, got.J, got.K} {
				assert.GreaterOrEqual(t, c, float32(-1))
				assert.LessOrEqual(t, c, float32(2))
			}
		}
	})
}

func TestQuaternionEpsilonEquals(t *testing.T) {
	q := NewQuaternion(1, 2, 3, 4)

	for _, eps := range []float32{0, 1e-9, 0.5, 10} {
		assert.True(t, q.EpsilonEquals(q, eps), "reflexive at eps %v", eps)
	}

	a := Quaternion{}
	b := NewQuaternion(0.5, 0, 0, 0)
	assert.False(t, a.EpsilonEquals(b, 0.5), "difference equal to eps is not equal")
	assert.True(t, a.EpsilonEquals(b, 0.5001))
	assert.False(t, a.EpsilonEquals(NewQuaternion(0, 0, 0, 1), 0.5))
}

func TestQuaternionEquality(t *testing.T) {
	assert.True(t, NewQuaternion(1, 2, 3, 4) == NewQuaternion(1, 2, 3, 4))
	assert.False(t, NewQuaternion(1, 2, 3, 4) == NewQuaternion(1, 2, 3, 4.0001))
}

func TestQuaternionOrdering(t *testing.T) {
	small := NewQuaternion(0, 0.5, 0, 0)
	unitI := qi
	unitS := QuaternionIdentity()
	big := NewQuaternion(2, 0, 0, 0)

	assert.Equal(t, -1, small.Compare(unitI))
	assert.Equal(t, 1, big.Compare(unitS))
	// Different directions, same magnitude: order-equivalent but not equal.
	assert.Equal(t, 0, unitI.Compare(unitS))
	assert.NotEqual(t, unitI, unitS)

	qs := []Quaternion{big, unitI, small}
	slices.SortFunc(qs, CompareMagnitude)
	assert.Equal(t, []Quaternion{small, unitI, big}, qs)
}

func TestQuaternionConcurrentUse(t *testing.T) {
	q := QuaternionFromAxisAngle(NewVec3(1, 1, 0), 0.8)
	expected := q.Pow(5)

	for n := 0; n < 8; n++ {
		t.Run("worker", func(t *testing.T) {
			t.Parallel()
			for range 100 {
				assert.Equal(t, expected, q.Pow(5))
			}
		})
	}
}

func TestQuaternionFromMat4(t *testing.T) {
	cases := []Quaternion{
		QuaternionIdentity(),
		QuaternionFromAxisAngle(Vec3Right, stdmath.Pi),
		QuaternionFromAxisAngle(Vec3Up, stdmath.Pi),
		QuaternionFromAxisAngle(Vec3Front, stdmath.Pi),
		QuaternionFromAxisAngle(NewVec3(1, 1, 0), 3),
	}
	for _, q := range randomQuaternions(50) {
		cases = append(cases, q.Normalize())
	}

	for _, q := range cases {
		got := QuaternionFromMat4(q.ToMat4())
		// q and -q describe the same rotation.
		if got.Dot(q) < 0 {
			got = got.Negate()
		}
		assertQuatNear(t, q, got, 1e-4)
		assert.InDelta(t, 1, got.Magnitude(), 1e-5)
	}
}
