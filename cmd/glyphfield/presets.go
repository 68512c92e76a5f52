package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List parameter presets from the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMODE\tSCALE\tRANGE\tPADDING\tCOLORING\tSEED\tERROR CORRECTION\tOVERLAP")
			for _, name := range a.cfg.PresetNames() {
				p, err := a.cfg.Preset(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%s\t%d\t%s\t%t\n",
					name, p.Mode, p.PxScale, p.PxRange, p.PxPadding, p.Coloring, p.Seed, p.ErrorCorrection, p.Overlap)
			}
			return tw.Flush()
		},
	}
}
