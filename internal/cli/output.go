package cli

import (
	"encoding/json"
	"fmt"
	stdmath "math"
	"strconv"
	"strings"

	"hypercomplex/internal/config"
	"hypercomplex/math"
)

// write prints text in text mode and v as a single JSON line in json mode.
func (c *Context) write(text string, v any) error {
	if c.Config.Output == config.OutputJSON {
		return json.NewEncoder(c.Output).Encode(v)
	}
	_, err := fmt.Fprintln(c.Output, text)
	return err
}

type quaternionResult struct {
	Result math.Quaternion `json:"result"`
}

func (c *Context) writeQuaternion(q math.Quaternion) error {
	return c.write(q.String(), quaternionResult{Result: q})
}

// jsonFloat encodes finite values as JSON numbers and NaN or ±Inf as the
// strings "NaN", "+Inf" and "-Inf", which encoding/json would otherwise reject.
type jsonFloat float32

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if stdmath.IsNaN(v) || stdmath.IsInf(v, 0) {
		return json.Marshal(formatFloat(float32(f)))
	}
	return []byte(formatFloat(float32(f))), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	text := string(data)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return fmt.Errorf("invalid float %s: %w", data, err)
	}
	*f = jsonFloat(v)
	return nil
}

func vec3JSON(v math.Vec3) [3]jsonFloat {
	return [3]jsonFloat{jsonFloat(v.X), jsonFloat(v.Y), jsonFloat(v.Z)}
}

type scalarResult struct {
	Result jsonFloat `json:"result"`
}

func (c *Context) writeScalar(f float32) error {
	return c.write(formatFloat(f), scalarResult{Result: jsonFloat(f)})
}

type vectorResult struct {
	Result [3]jsonFloat `json:"result"`
}

func (c *Context) writeVec3(v math.Vec3) error {
	return c.write(formatVec3(v), vectorResult{Result: vec3JSON(v)})
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// formatVec3 prints v the same way a quaternion prints its vector part.
func formatVec3(v math.Vec3) string {
	return math.QuaternionFromScalarVec3(0, v).ImagString()
}

func parseFloatArg(name, arg string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(arg), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return float32(f), nil
}

// parseVec3Arg accepts "x,y,z", "x:y:z" or either form wrapped in braces.
func parseVec3Arg(arg string) (math.Vec3, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(arg), "{"), "}")
	fields := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ':' })
	if len(fields) != 3 {
		return math.Vec3{}, fmt.Errorf("invalid vector %q: want 3 components, got %d", arg, len(fields))
	}
	var c [3]float32
	for n, f := range fields {
		v, err := parseFloatArg("vector component", f)
		if err != nil {
			return math.Vec3{}, err
		}
		c[n] = v
	}
	return math.NewVec3(c[0], c[1], c[2]), nil
}
