package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hoopoe/cmag/report"
	"github.com/spf13/cobra"
)

func (c *cli) dumpCmd() *cobra.Command {
	defaults := make([]string, len(report.DefaultSlices))
	for i, s := range report.DefaultSlices {
		defaults[i] = strconv.FormatFloat(s, 'g', -1, 64)
	}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Writes the x velocity profile at each time slice",
		Long: `dump advances the channel through the time slices in order and writes
XVelocityYPosition<slice>.dat for each: a "0.0 0.0" line, one "vx y" line per
fluid particle of the first lattice column and a "0.000000 0.001000" line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slices, err := parseSlices(c.v.GetStringSlice("slices"))
			if err != nil {
				return err
			}
			sph, err := c.channel()
			if err != nil {
				return err
			}

			a := report.AnalyticFor(sph)
			compare, plot := c.v.GetBool("compare"), c.v.GetBool("plot")
			var plotErr error
			d := report.Dumper{
				Dir:    c.v.GetString("out"),
				Slices: slices,
				Log:    c.log,
				OnSlice: func(slice float64, path string, samples []report.Sample) {
					t := sph.ElapsedTime()
					if compare {
						cmp := report.Compare(samples, a, t)
						c.log.INFO.Printf("slice %g: %d samples rms %g (%.2f%% of %g)",
							slice, cmp.Samples, cmp.RMS, 100*cmp.Relative, cmp.MaxAnalytic)
					}
					if plot && plotErr == nil {
						plotErr = report.PlotProfile(plotName(path), samples, a, t)
					}
				},
			}

			paths, err := d.Run(sph)
			if err != nil {
				return err
			}
			if plotErr != nil {
				return plotErr
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().String("out", ".", "directory of the dump files")
	cmd.Flags().StringSlice("slices", defaults, "time slices in seconds, in order")
	cmd.Flags().Bool("compare", true, "log the error against the analytic profile")
	cmd.Flags().Bool("plot", false, "write a PNG next to each dump file")
	c.v.BindPFlags(cmd.Flags())
	return cmd
}

//parseSlices accepts comma or space separated values
func parseSlices(items []string) ([]float64, error) {
	var out []float64
	for _, item := range items {
		for _, field := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			s, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("time slice %q: %w", field, err)
			}
			if !(s > 0) {
				return nil, fmt.Errorf("time slice %g must be positive", s)
			}
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, report.ErrNoSlices
	}
	return out, nil
}

func plotName(path string) string {
	return strings.TrimSuffix(path, report.FILE_SUFFIX) + ".png"
}
