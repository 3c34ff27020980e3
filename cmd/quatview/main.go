// Command quatview spins an axis gizmo about a chosen axis, accumulating the
// rotation as a quaternion.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"hypercomplex/internal/viewer"
	"hypercomplex/math"
)

func parseAxis(fields []string) (math.Vec3, error) {
	if len(fields) != 3 {
		return math.Vec3{}, fmt.Errorf("--axis wants 3 components, got %d", len(fields))
	}
	var c [3]float32
	for n, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("--axis component %q: %w", f, err)
		}
		c[n] = float32(v)
	}
	return math.NewVec3(c[0], c[1], c[2]), nil
}

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	cfg := viewer.DefaultConfig()
	axis := pflag.StringSlice("axis", []string{"0", "1", "1"}, "Spin axis as X,Y,Z")
	pflag.Float32Var(&cfg.Speed, "speed", cfg.Speed, "Spin speed in radians per second")
	pflag.IntVar(&cfg.Width, "width", cfg.Width, "Window width")
	pflag.IntVar(&cfg.Height, "height", cfg.Height, "Window height")
	pflag.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "Synchronize with the display refresh rate")
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	var err error
	if cfg.Axis, err = parseAxis(*axis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := viewer.Run(cfg); err != nil {
		klog.Errorf("quatview: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}
