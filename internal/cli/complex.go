package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"hypercomplex/math"
)

type complexResult struct {
	Result math.Complex `json:"result"`
}

func (c *Context) writeComplex(z math.Complex) error {
	return c.write(z.String(), complexResult{Result: z})
}

func parseComplexArgs(args []string) ([]math.Complex, error) {
	zs := make([]math.Complex, len(args))
	for n, arg := range args {
		z, err := math.ParseComplex(arg)
		if err != nil {
			return nil, err
		}
		zs[n] = z
	}
	return zs, nil
}

func newComplexCmd(cxt *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complex",
		Aliases: []string{"cx"},
		Short:   "Complex number arithmetic on values written as {r:i}",
	}
	cmd.AddCommand(
		newComplexMulCmd(cxt),
		newComplexDivCmd(cxt),
		newComplexPowCmd(cxt),
		newComplexPolarCmd(cxt),
	)
	return cmd
}

func newComplexMulCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "mul A [B...]",
		Short: "Product of complex numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zs, err := parseComplexArgs(args)
			if err != nil {
				return err
			}
			result := math.NewComplex(1, 0)
			for _, z := range zs {
				result = result.Mul(z)
			}
			klog.V(2).Infof("complex mul %v = %v", zs, result)
			return cxt.writeComplex(result)
		},
	}
}

func newComplexDivCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "div A B",
		Short: "Quotient of two complex numbers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			zs, err := parseComplexArgs(args)
			if err != nil {
				return err
			}
			result, err := zs[0].Div(zs[1])
			if err != nil {
				return err
			}
			return cxt.writeComplex(result)
		},
	}
}

func newComplexPowCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "pow Z N",
		Short: "Raise a complex number to a real power",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := math.ParseComplex(args[0])
			if err != nil {
				return err
			}
			n, err := parseFloatArg("exponent", args[1])
			if err != nil {
				return err
			}
			return cxt.writeComplex(z.Pow(n))
		},
	}
}

type complexPolarResult struct {
	Magnitude jsonFloat `json:"magnitude"`
	Angle     jsonFloat `json:"angle"`
}

func newComplexPolarCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "polar Z",
		Short: "Magnitude and angle of a complex number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := math.ParseComplex(args[0])
			if err != nil {
				return err
			}
			p := z.PolarForm()
			text := fmt.Sprintf("magnitude=%s angle=%s", formatFloat(p.Magnitude), formatFloat(p.Angle))
			return cxt.write(text, complexPolarResult{Magnitude: jsonFloat(p.Magnitude), Angle: jsonFloat(p.Angle)})
		},
	}
}
