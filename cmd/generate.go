package cmd

import (
	"fmt"

	"github.com/jsphweid/chordgen/render"
	"github.com/spf13/cobra"
)

var generateOpts generateFlags
var generatePlain bool

func init() {
	addGenerateFlags(generateCmd, &generateOpts)
	generateCmd.Flags().BoolVar(&generatePlain, "plain", false, "disable colors")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a progression and prints its piano roll",
	Long:  `Generates a progression and prints its key, roman numerals and piano roll.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := generateState(generateOpts)
		if err != nil {
			return err
		}
		tl, err := st.Timeline()
		if err != nil {
			return err
		}

		styles := render.DefaultStyles
		if generatePlain {
			styles = render.PlainStyles
		}
		roll, err := render.PianoRoll(tl, st.Progression, st.Scale, -1, styles)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Summary(st, styles))
		fmt.Fprint(cmd.OutOrStdout(), roll)
		return nil
	},
}
