package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"hypercomplex/io"
	"hypercomplex/math"
)

func newGLTFCmd(cxt *Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gltf",
		Short: "Inspect and rotate node orientations in glTF assets",
	}
	cmd.AddCommand(newGLTFListCmd(cxt), newGLTFRotateCmd(cxt))
	return cmd
}

type nodeResult struct {
	Index  int             `json:"index"`
	Name   string          `json:"name"`
	Parent int             `json:"parent"`
	Local  math.Quaternion `json:"local"`
	World  math.Quaternion `json:"world"`
	Euler  [3]jsonFloat    `json:"euler"`
}

func newGLTFListCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "Print the local and world rotation of every node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := io.LoadRotations(args[0])
			if err != nil {
				return err
			}
			klog.V(2).Infof("loaded %d nodes from %s, roots %v", len(set.Nodes), args[0], set.Roots)

			nodes := make([]nodeResult, len(set.Nodes))
			lines := make([]string, len(set.Nodes))
			for n, r := range set.Nodes {
				e := r.World.ToEuler()
				nodes[n] = nodeResult{
					Index:  r.Index,
					Name:   r.Name,
					Parent: r.Parent,
					Local:  r.Local,
					World:  r.World,
					Euler:  vec3JSON(e),
				}
				lines[n] = fmt.Sprintf("%d\t%s\tparent=%d\tlocal=%v\tworld=%v\teuler=%s",
					r.Index, r.Name, r.Parent, r.Local, r.World, formatVec3(e))
			}
			return cxt.write(strings.Join(lines, "\n"), nodes)
		},
	}
}

func newGLTFRotateCmd(cxt *Context) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "rotate FILE Q",
		Short: "Pre-multiply every scene root rotation by Q",
		Long: `Pre-multiply every scene root rotation by Q and write the document to --out.

An --out path ending in .glb is written as binary glTF. Without --out the
input file is overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := math.ParseQuaternion(args[1])
			if err != nil {
				return err
			}
			dst := out
			if dst == "" {
				dst = args[0]
			}
			if err := io.RotateFile(args[0], dst, q); err != nil {
				return err
			}
			klog.V(1).Infof("rotated roots of %s by %v into %s", args[0], q, dst)
			return cxt.write(dst, struct {
				Out string `json:"out"`
			}{Out: dst})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output path, .gltf or .glb")
	return cmd
}
