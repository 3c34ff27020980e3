package math

import "gonum.org/v1/gonum/num/quat"

// Gonum widens q to gonum's float64 quaternion.
func (q Quaternion) Gonum() quat.Number {
	return quat.Number{
		Real: float64(q.S),
		Imag: float64(q.I),
		Jmag: float64(q.J),
		Kmag: float64(q.K),
	}
}

// QuaternionFromGonum narrows n to float32 components.
func QuaternionFromGonum(n quat.Number) Quaternion {
	return Quaternion{
		S: float32(n.Real),
		I: float32(n.Imag),
		J: float32(n.Jmag),
		K: float32(n.Kmag),
	}
}
