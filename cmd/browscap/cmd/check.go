package cmd

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/coregx/browscap"
	"github.com/coregx/browscap/prefilter"
)

func newCheckCommand(g *globals) *cobra.Command {
	var (
		agents string
		top    int
	)

	c := &cobra.Command{
		Use:   "check",
		Short: "Build the catalogue and report its size",
		Long: "Build the catalogue and report rule, literal, record and filter counts.\n" +
			"With --agents, also resolve every line of the file and report how well the filters prune.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, closer, err := g.load(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts, err := cfg.Options(log)
			if err != nil {
				return err
			}
			opts.Engine.TrackFilters = agents != ""

			start := time.Now()
			p, err := browscap.LoadFile(cfg.DataFile, opts)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			if agents != "" {
				f, err := os.Open(agents)
				if err != nil {
					return err
				}
				err = eachLine(f, func(ua string) error {
					p.Parse(ua)
					return nil
				})
				f.Close()
				if err != nil {
					return err
				}
			}

			writeStats(out, cfg.DataFile, p.Stats(), elapsed)
			if agents != "" {
				writeFilterStats(out, p.Engine().FilterStats(), top)
			}
			return nil
		},
	}

	c.Flags().StringVar(&agents, "agents", "", "File with one user agent per line to resolve")
	c.Flags().IntVar(&top, "top", 10, "Number of filters to list with --agents")
	return c
}

func writeStats(w io.Writer, path string, st browscap.Stats, elapsed time.Duration) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "catalogue:\t%s\n", path)
	fmt.Fprintf(tw, "rules:\t%d\n", st.Rules)
	fmt.Fprintf(tw, "literals:\t%d\n", st.Literals)
	fmt.Fprintf(tw, "capabilities:\t%d\n", st.Capabilities)
	fmt.Fprintf(tw, "filters:\t%d\n", st.Filters)
	fmt.Fprintf(tw, "build time:\t%s\n", elapsed.Round(time.Millisecond))
	if st.Lookups > 0 {
		fmt.Fprintf(tw, "lookups:\t%d\n", st.Lookups)
		fmt.Fprintf(tw, "matched:\t%d\n", st.Matched)
		fmt.Fprintf(tw, "pruned:\t%.1f%%\n", 100*st.PruneRatio())
	}
	tw.Flush()
}

func writeFilterStats(w io.Writer, stats []prefilter.FilterStats, top int) {
	if len(stats) == 0 {
		return
	}
	slices.SortStableFunc(stats, func(a, b prefilter.FilterStats) int {
		return cmp.Compare(b.Fired, a.Fired)
	})
	if top > 0 && top < len(stats) {
		stats = stats[:top]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nFILTER\tRULES\tFIRED\tRATE")
	for _, st := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f%%\n", st.Filter, st.Weight, st.Fired, 100*st.Efficiency())
	}
	tw.Flush()
}
