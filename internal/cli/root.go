// Package cli implements the quatcalc command tree.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hypercomplex/internal/config"
)

// Context is shared by every command. Config is populated before any
// command runs.
type Context struct {
	Viper  *viper.Viper
	Config config.Config
	Output io.Writer
}

// NewRootCmd builds the quatcalc command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	cxt := &Context{Viper: config.New(), Output: out}
	var configPath string

	cmd := &cobra.Command{
		Use:   "quatcalc",
		Short: "Quaternion and complex number calculator",
		Long: `quatcalc evaluates quaternion algebra on values written as "{s:i:j:k}"
and complex numbers written as "{r:i}".

Flags go before the operands. Everything after the first operand is read as
an operand, so negative values such as "pow Q -0.5" need no escaping.`,
		Example: `
  quatcalc mul "{0:1:0:0}" "{0:0:1:0}"
  quatcalc rotate "{0.7071068:0:0:0.7071068}" 1,0,0
  quatcalc pow "{1:1:0:0}" 0.5 --output json
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cxt.Viper, configPath)
			if err != nil {
				return err
			}
			cxt.Config = cfg
			return nil
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML, JSON or TOML config file")
	flags.StringP(config.KeyOutput, "o", config.OutputText, "Output format: text or json")
	flags.Float32(config.KeyEpsilon, 1e-6, "Tolerance for approximate comparisons")
	cxt.Viper.BindPFlag(config.KeyOutput, flags.Lookup(config.KeyOutput))
	cxt.Viper.BindPFlag(config.KeyEpsilon, flags.Lookup(config.KeyEpsilon))

	cmd.AddCommand(
		newMulCmd(cxt),
		newDivCmd(cxt),
		newUnaryCmd(cxt, "inv", "Inverse of a quaternion", inverse),
		newUnaryCmd(cxt, "conj", "Conjugate of a quaternion", conjugate),
		newUnaryCmd(cxt, "norm", "Quaternion scaled to unit length", normalize),
		newMagCmd(cxt),
		newPolarCmd(cxt),
		newPowCmd(cxt),
		newRotateCmd(cxt),
		newClampCmd(cxt),
		newCmpCmd(cxt),
		newAxisAngleCmd(cxt),
		newEulerCmd(cxt),
		newComplexCmd(cxt),
		newGLTFCmd(cxt),
	)
	stopFlagsAtOperands(cmd)
	return cmd
}

// stopFlagsAtOperands makes every leaf command treat arguments after the first
// operand as operands, so values like "-1,0,0" are not parsed as flags.
func stopFlagsAtOperands(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		if c.HasSubCommands() {
			stopFlagsAtOperands(c)
			continue
		}
		c.Flags().SetInterspersed(false)
	}
}
