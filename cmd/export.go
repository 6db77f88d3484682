package cmd

import (
	"fmt"

	"github.com/jsphweid/chordgen/midi"
	"github.com/spf13/cobra"
)

var exportOpts generateFlags
var exportDir string
var exportSlot int

func init() {
	addGenerateFlags(exportCmd, &exportOpts)
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory, defaults to EXPORT_DIR")
	exportCmd.Flags().IntVar(&exportSlot, "slot", -1, "export only the chord at this index")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generates a progression and writes it as a MIDI file",
	Long:  `Generates a progression and writes chord and bass tracks to a standard MIDI file named after the key and roman numerals.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := generateState(exportOpts)
		if err != nil {
			return err
		}
		tl, err := st.Timeline()
		if err != nil {
			return err
		}
		dir := exportDir
		if dir == "" {
			dir = cfg.ExportDir
		}
		sm, err := midi.Build(tl, st.Tempo)
		if err != nil {
			return err
		}
		name := midi.FileName(st.Key, st.Symbols())
		if exportSlot >= 0 {
			if sm, err = slotExcerpt(sm, tl, exportSlot); err != nil {
				return err
			}
			name = midi.FileName(st.Key, st.Numerals()[exportSlot])
		}
		path, err := midi.Save(dir, name, sm)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
