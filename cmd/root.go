package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "midiclean",
	Short: "Deterministic MIDI cleanup",
	Long: `Quantize, straighten, swing, humanize, force to a key, dedupe and
repair legato overlaps in MIDI files, repeatably.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every pipeline stage")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
