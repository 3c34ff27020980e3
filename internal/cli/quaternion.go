package cli

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"hypercomplex/math"
)

func parseAll(args []string) ([]math.Quaternion, error) {
	qs := make([]math.Quaternion, len(args))
	for n, arg := range args {
		q, err := math.ParseQuaternion(arg)
		if err != nil {
			return nil, err
		}
		qs[n] = q
	}
	return qs, nil
}

func newMulCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "mul A [B...]",
		Short: "Hamilton product of quaternions, left to right",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := parseAll(args)
			if err != nil {
				return err
			}
			result := cxt.Config.Identity
			for _, q := range qs {
				result = result.Mul(q)
			}
			klog.V(2).Infof("mul %v = %v", qs, result)
			return cxt.writeQuaternion(result)
		},
	}
}

func newDivCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "div A B",
		Short: "Right quotient A·B⁻¹",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := parseAll(args)
			if err != nil {
				return err
			}
			result, err := qs[0].Div(qs[1])
			if err != nil {
				return err
			}
			klog.V(2).Infof("div %v / %v = %v", qs[0], qs[1], result)
			return cxt.writeQuaternion(result)
		},
	}
}

type unaryOp func(math.Quaternion) (math.Quaternion, error)

func inverse(q math.Quaternion) (math.Quaternion, error) { return q.Inverse() }

func conjugate(q math.Quaternion) (math.Quaternion, error) { return q.Conjugate(), nil }

func normalize(q math.Quaternion) (math.Quaternion, error) { return q.Normalize(), nil }

func newUnaryCmd(cxt *Context, name, short string, op unaryOp) *cobra.Command {
	return &cobra.Command{
		Use:   name + " Q",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}
			result, err := op(q)
			if err != nil {
				return err
			}
			klog.V(2).Infof("%s %v = %v", name, q, result)
			return cxt.writeQuaternion(result)
		},
	}
}

func newMagCmd(cxt *Context) *cobra.Command {
	var squared bool
	cmd := &cobra.Command{
		Use:   "mag Q",
		Short: "Magnitude of a quaternion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}
			if squared {
				return cxt.writeScalar(q.MagnitudeSqr())
			}
			return cxt.writeScalar(q.Magnitude())
		},
	}
	cmd.Flags().BoolVar(&squared, "squared", false, "Print the squared magnitude instead")
	return cmd
}

type polarResult struct {
	Magnitude jsonFloat    `json:"magnitude"`
	Theta     jsonFloat    `json:"theta"`
	Axis      [3]jsonFloat `json:"axis"`
}

func newPolarCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "polar Q",
		Short: "Polar decomposition: magnitude, angle and unit axis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}
			p := q.PolarForm()
			text := fmt.Sprintf("magnitude=%s theta=%s axis=%s",
				formatFloat(p.Magnitude), formatFloat(p.Theta), formatVec3(p.Axis))
			return cxt.write(text, polarResult{
				Magnitude: jsonFloat(p.Magnitude),
				Theta:     jsonFloat(p.Theta),
				Axis:      vec3JSON(p.Axis),
			})
		},
	}
}

func newPowCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "pow Q N",
		Short: "Raise a quaternion to a real power",
		Long: `Raise a quaternion to a real power.

Positive whole exponents use repeated multiplication. Other exponents raise
the magnitude to N and the polar angle itself to N (not N times the angle),
and a zero quaternion yields the identity.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}
			n, err := parseFloatArg("exponent", args[1])
			if err != nil {
				return err
			}
			result := q.Pow(n)
			klog.V(2).Infof("pow %v ^ %v = %v", q, n, result)
			return cxt.writeQuaternion(result)
		},
	}
}

func newRotateCmd(cxt *Context) *cobra.Command {
	var normalizeFirst bool
	cmd := &cobra.Command{
		Use:   "rotate Q X,Y,Z",
		Short: "Rotate a vector by a quaternion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}
			v, err := parseVec3Arg(args[1])
			if err != nil {
				return err
			}
			if normalizeFirst {
				q = q.Normalize()
			} else if m := q.Magnitude(); m-1 > cxt.Config.Epsilon || 1-m > cxt.Config.Epsilon {
				klog.Warningf("rotating by non-unit quaternion %v (magnitude %v) also scales the vector", q, m)
			}
			result := q.Rotate(v)
			klog.V(2).Infof("rotate %v by %v = %v", v, q, result)
			return cxt.writeVec3(result)
		},
	}
	cmd.Flags().BoolVar(&normalizeFirst, "normalize", false, "Normalize Q before rotating")
	return cmd
}

func newClampCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clamp Q LOW HIGH",
		Short: "Clamp each component between scalar or per-component bounds",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}

			lowIsQuat := strings.HasPrefix(strings.TrimSpace(args[1]), "{")
			highIsQuat := strings.HasPrefix(strings.TrimSpace(args[2]), "{")
			if lowIsQuat != highIsQuat {
				return fmt.Errorf("LOW and HIGH must both be scalars or both be quaternions")
			}

			var result math.Quaternion
			if lowIsQuat {
				bounds, err := parseAll(args[1:])
				if err != nil {
					return err
				}
				result, err = q.Clamp(bounds[0], bounds[1])
				if err != nil {
					return err
				}
			} else {
				l, err := parseFloatArg("low bound", args[1])
				if err != nil {
					return err
				}
				h, err := parseFloatArg("high bound", args[2])
				if err != nil {
					return err
				}
				result, err = q.ClampScalar(l, h)
				if err != nil {
					return err
				}
			}
			return cxt.writeQuaternion(result)
		},
	}
}

type cmpResult struct {
	Equal        bool `json:"equal"`
	EpsilonEqual bool `json:"epsilonEqual"`
	Compare      int  `json:"compare"`
}

func newCmpCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "cmp A B",
		Short: "Compare two quaternions",
		Long: `Compare two quaternions.

Prints exact equality, equality within --epsilon, and the ordering by squared
magnitude (-1, 0 or 1). Quaternions of equal magnitude order as 0 even when
they point in different directions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := parseAll(args)
			if err != nil {
				return err
			}
			r := cmpResult{
				Equal:        qs[0] == qs[1],
				EpsilonEqual: qs[0].EpsilonEquals(qs[1], cxt.Config.Epsilon),
				Compare:      qs[0].Compare(qs[1]),
			}
			text := fmt.Sprintf("equal=%t epsilon-equal=%t compare=%d", r.Equal, r.EpsilonEqual, r.Compare)
			return cxt.write(text, r)
		},
	}
}

func newAxisAngleCmd(cxt *Context) *cobra.Command {
	var degrees bool
	cmd := &cobra.Command{
		Use:   "axis-angle X,Y,Z ANGLE",
		Short: "Build the rotation of ANGLE about an axis",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := parseVec3Arg(args[0])
			if err != nil {
				return err
			}
			angle, err := parseFloatArg("angle", args[1])
			if err != nil {
				return err
			}
			if degrees {
				angle = angle * math32.Pi / 180
			}
			return cxt.writeQuaternion(math.QuaternionFromAxisAngle(axis, angle))
		},
	}
	cmd.Flags().BoolVar(&degrees, "degrees", false, "ANGLE is in degrees rather than radians")
	return cmd
}

func newEulerCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "euler Q",
		Short: "Convert a rotation to roll, pitch and yaw in radians",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[0])
			if err != nil {
				return err
			}
			return cxt.writeVec3(q.ToEuler())
		},
	}
}
