package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/hoopoe/cmag/report"
	"github.com/spf13/cobra"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile FILE...",
		Short: "Compares dump files with the analytic start-up Poiseuille profile",
		Long: `profile reads dump files back and prints the RMS x velocity error against
the series solution for the configured channel. The time of each file comes
from its name unless --time is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sph, err := c.channel()
			if err != nil {
				return err
			}
			a := report.AnalyticFor(sph)
			fixed := c.v.GetFloat64("time")

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "file\tt\tsamples\trms\tmax\trelative")
			for _, path := range args {
				t := fixed
				if t <= 0 {
					if t, err = report.SliceOf(path); err != nil {
						return err
					}
				}
				samples, err := report.ReadProfile(path)
				if err != nil {
					return err
				}
				cmp := report.Compare(samples, a, t)
				fmt.Fprintf(w, "%s\t%g\t%d\t%g\t%g\t%.4f\n", path, t, cmp.Samples, cmp.RMS, cmp.MaxAnalytic, cmp.Relative)

				if c.v.GetBool("png") {
					if err := report.PlotProfile(plotName(path), samples, a, t); err != nil {
						return err
					}
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64("time", 0, "time of every file, 0 reads it from the file name")
	cmd.Flags().Bool("png", false, "write a PNG next to each file")
	c.v.BindPFlags(cmd.Flags())
	return cmd
}
