package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/df07/go-raytracer/pkg/scene"
)

// ScenesOptions lists the scenes the render command accepts
type ScenesOptions struct {
	ScenesDir string

	IOStreams
}

// NewScenesCommand creates the scenes subcommand
func NewScenesCommand(streams IOStreams) *cobra.Command {
	o := &ScenesOptions{ScenesDir: "scenes", IOStreams: streams}
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run()
		},
	}
	cmd.Flags().StringVar(&o.ScenesDir, "scenes-dir", o.ScenesDir, "Directory searched for scene files")
	return cmd
}

// Run prints one table row per scene, grouped
func (o *ScenesOptions) Run() error {
	response, err := scene.ListAllScenes(o.ScenesDir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(o.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGROUP\tDESCRIPTION")
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.DisplayName, group.Name, info.Description)
		}
	}
	return w.Flush()
}
