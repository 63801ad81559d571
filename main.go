package main

import (
	goflag "flag"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// IOStreams carries the standard streams a command writes to
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewRootCommand creates the raytracer command. Running it without a
// subcommand renders.
func NewRootCommand(streams IOStreams) *cobra.Command {
	renderCmd := NewRenderCommand(streams)

	cmd := &cobra.Command{
		Use:           "raytracer",
		Short:         "Diffuse path tracer for spheres, planes and rotated cubes",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          renderCmd.RunE,
	}
	// The root command accepts the render flags so it can stand in for render
	cmd.Flags().AddFlagSet(renderCmd.Flags())

	// glog registers its flags (-v, -logtostderr, ...) on the standard flag set
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	cmd.AddCommand(renderCmd)
	cmd.AddCommand(NewScenesCommand(streams))
	return cmd
}

func main() {
	defer glog.Flush()

	// Keep glog from complaining about unparsed flags; cobra parses them
	_ = goflag.CommandLine.Parse([]string{})

	cmd := NewRootCommand(IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
	if err := cmd.Execute(); err != nil {
		glog.Errorf("raytracer: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
