package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/jsphweid/chordgen/rhythm"
	"github.com/jsphweid/chordgen/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports the rhythm pattern table",
	Long:  `Lists every rhythm pattern with its per chord unit totals, note counts and sounding units for both layers.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "pattern\tchord units\tchord notes\tchord sounding\tbass units\tbass notes\tbass sounding\taligned")
		for _, p := range rhythm.All() {
			chordUnits := rhythm.LayerUnits(p.Chords)
			bassUnits := rhythm.LayerUnits(p.Bass)
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%v\n",
				p.Name,
				chordUnits, len(util.FilterZeros(p.Chords)), util.Sum(p.Chords),
				bassUnits, len(util.FilterZeros(p.Bass)), util.Sum(p.Bass),
				chordUnits == bassUnits,
			)
		}
		w.Flush()
	},
}
