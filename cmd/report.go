package cmd

import (
	"github.com/jsphweid/midiclean/midi"
	"github.com/jsphweid/midiclean/quantize"
	"github.com/jsphweid/midiclean/report"
	"github.com/spf13/cobra"
)

var reportGrid string

func init() {
	reportCmd.Flags().StringVar(&reportGrid, "grid", "1/16", "division to measure onset deviation against, empty to skip")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Creates a report",
	Long:  `Prints pitch, velocity and timing statistics for a MIDI file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		song, err := midi.ParseSong(s, true)
		if err != nil {
			return err
		}

		var grid int64
		if reportGrid != "" {
			if grid, err = quantize.GridTicks(song.TicksPerQuarter, reportGrid); err != nil {
				return err
			}
		}
		report.Print(cmd.OutOrStdout(), report.Summarize(song.Notes, grid))
		return nil
	},
}
