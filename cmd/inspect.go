package cmd

import (
	"fmt"

	"github.com/jsphweid/midiclean/harmony"
	"github.com/jsphweid/midiclean/midi"
	"github.com/jsphweid/midiclean/straighten"
	"github.com/spf13/cobra"
)

var inspectWindow int64
var inspectUnpaired bool

func init() {
	inspectCmd.Flags().Int64Var(&inspectWindow, "window", 0, "also list onset clusters within this many ticks")
	inspectCmd.Flags().BoolVar(&inspectUnpaired, "allow-unpaired", false, "drop unmatched note on/off messages")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Lists the notes of a MIDI file",
	Long:  `Lists the notes of a MIDI file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		song, err := midi.ParseSong(s, inspectUnpaired)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ticks per quarter: %v\n", song.TicksPerQuarter)
		fmt.Fprintf(out, "tracks: %v\n", len(song.Tracks))
		for _, n := range song.Notes {
			fmt.Fprintf(out, "track %2d ch %2d %-4s start %7d dur %6d vel %3d\n",
				n.Track, n.Channel, harmony.NoteName(n.Pitch), n.StartTick, n.DurationTicks, n.Velocity)
		}

		if inspectWindow > 0 {
			for _, cluster := range straighten.Clusters(song.Notes, inspectWindow) {
				if len(cluster) < 2 {
					continue
				}
				first := song.Notes[cluster[0]].StartTick
				last := song.Notes[cluster[len(cluster)-1]].StartTick
				fmt.Fprintf(out, "cluster of %v at %v-%v\n", len(cluster), first, last)
			}
		}
		return nil
	},
}
