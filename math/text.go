package math

import (
	"fmt"
	"strconv"
	"strings"
)

// The textual form is a brace-wrapped, colon-separated component list such
// as "{1:0:0:0}". Parsing also accepts commas as separators and surrounding
// whitespace.

func formatComponents(values ...float32) string {
	var b strings.Builder
	b.WriteByte('{')
	for n, v := range values {
		if n > 0 {
			b.WriteByte(':')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte('}')
	return b.String()
}

func parseComponents(kind, text string, want int) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") || len(trimmed) < 2 {
		return nil, fmt.Errorf("error parsing %s from %q: %w: missing braces", kind, text, ErrMalformed)
	}
	inner := trimmed[1 : len(trimmed)-1]
	fields := strings.FieldsFunc(inner, func(r rune) bool { return r == ':' || r == ',' })
	if strings.Count(inner, ":")+strings.Count(inner, ",") != want-1 || len(fields) != want {
		return nil, fmt.Errorf("error parsing %s from %q: %w: want %d components", kind, text, ErrMalformed, want)
	}

	out := make([]float32, want)
	for n, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s from %q: %w: %w", kind, text, ErrMalformed, err)
		}
		out[n] = float32(v)
	}
	return out, nil
}

// String returns q in the form "{s:i:j:k}".
func (q Quaternion) String() string {
	return formatComponents(q.S, q.I, q.J, q.K)
}

// ImagString returns the vector part in the form "{i:j:k}".
func (q Quaternion) ImagString() string {
	return formatComponents(q.I, q.J, q.K)
}

// ParseQuaternion reads the form produced by String.
func ParseQuaternion(text string) (Quaternion, error) {
	c, err := parseComponents("quaternion", text, 4)
	if err != nil {
		return Quaternion{}, err
	}
	return Quaternion{S: c[0], I: c[1], J: c[2], K: c[3]}, nil
}

func (q Quaternion) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *Quaternion) UnmarshalText(text []byte) error {
	parsed, err := ParseQuaternion(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// String returns c in the form "{r:i}".
func (c Complex) String() string {
	return formatComponents(c.R, c.I)
}

// ParseComplex reads the form produced by Complex.String.
func ParseComplex(text string) (Complex, error) {
	v, err := parseComponents("complex", text, 2)
	if err != nil {
		return Complex{}, err
	}
	return Complex{R: v[0], I: v[1]}, nil
}

func (c Complex) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Complex) UnmarshalText(text []byte) error {
	parsed, err := ParseComplex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
