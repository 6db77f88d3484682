package cmd

import (
	"fmt"

	"github.com/jsphweid/chordgen/midi"
	"github.com/jsphweid/chordgen/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Inspects an exported MIDI file",
	Long:  `Prints tempo, resolution and the notes of every track of a MIDI file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sm, err := midi.Read(args[0])
		if err != nil {
			return err
		}
		sum := midi.Summarize(sm)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "resolution: %v ticks per quarter\n", sum.TicksPerQuarter)
		fmt.Fprintf(out, "tempo: %v bpm\n", sum.BPM)
		for _, tr := range sum.Tracks {
			fmt.Fprintf(out, "track %d %q: %d notes\n", tr.Index, tr.Name, len(tr.Notes))
			for _, n := range tr.Notes {
				fmt.Fprintf(out, "  ch%d %-4s %6d - %6d\n", n.Channel, keyName(n.Key), n.Start, n.End)
			}
		}
		return nil
	},
}

// keyName spells a MIDI key as a note, or as its number when it has no octave.
func keyName(key uint8) string {
	if note, ok := model.NoteFromHeight(int(key)); ok {
		return note.String()
	}
	return fmt.Sprintf("#%d", key)
}
