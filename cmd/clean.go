package cmd

import (
	"fmt"

	"github.com/jsphweid/midiclean/pipeline"
	"github.com/spf13/cobra"
)

var cleanOpts cleanFlags

func init() {
	addCleanFlags(cleanCmd, &cleanOpts)
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean <input> <output>",
	Short: "Cleans one MIDI file",
	Long: `Cleans one MIDI file.

  midiclean clean input.mid output.mid --quantize 1/16
  midiclean clean take.mid clean.mid --straighten --vel-scale 0.8
  midiclean clean score.mid out.mid --quantize 1/32 --straighten --dedupe`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cleanOpts.config(cmd)
		if err != nil {
			return err
		}
		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		res := p.RunFile(pipeline.Job{Input: args[0], Output: args[1]})
		if res.Err != nil {
			return res.Err
		}
		printResult(cmd, res)
		return nil
	},
}

func printResult(cmd *cobra.Command, res pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%v: %v notes in, %v notes out", res.Input, res.NotesIn, res.NotesOut)
	if res.DuplicatesRemoved > 0 {
		fmt.Fprintf(out, ", %v duplicates removed", res.DuplicatesRemoved)
	}
	if res.OverlapsTrimmed > 0 {
		fmt.Fprintf(out, ", %v overlaps trimmed", res.OverlapsTrimmed)
	}
	if res.DryRun {
		fmt.Fprintf(out, "\n[DRY RUN] would write %v\n", res.Output)
		return
	}
	fmt.Fprintf(out, "\nsaved: %v\n", res.Output)
}
