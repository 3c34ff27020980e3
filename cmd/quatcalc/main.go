// Command quatcalc evaluates quaternion and complex number expressions from
// the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"hypercomplex/internal/cli"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	cmd := cli.NewRootCmd(os.Stdout)
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}
