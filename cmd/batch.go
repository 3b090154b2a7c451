package cmd

import (
	"fmt"

	"github.com/jsphweid/midiclean/file"
	"github.com/jsphweid/midiclean/pipeline"
	"github.com/jsphweid/midiclean/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var batchOpts cleanFlags
var batchMax int

func init() {
	addCleanFlags(batchCmd, &batchOpts)
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "process at most this many files (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <input-dir> <output-dir>",
	Short: "Cleans every MIDI file under a directory",
	Long: `Cleans every .mid/.midi file under input-dir into the same relative
path under output-dir. A file that fails is reported and skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := batchOpts.config(cmd)
		if err != nil {
			return err
		}

		jobs, err := gatherJobs(args[0], args[1], batchMax)
		if err != nil {
			return err
		}

		results := pipeline.RunBatch(cfg, jobs)
		for _, res := range results {
			if res.Err == nil {
				printResult(cmd, res)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v: %v\n", res.Input, res.Err)
			}
		}

		if failed := pipeline.Failed(results); len(failed) > 0 {
			return errors.Errorf("%v of %v files failed", len(failed), len(results))
		}
		return nil
	},
}

func gatherJobs(inDir, outDir string, maxNum int) ([]pipeline.Job, error) {
	paths, err := util.GatherAllMidiPaths(inDir, maxNum)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not read %v", inDir)
	}
	jobs := make([]pipeline.Job, 0, len(paths))
	for _, path := range paths {
		out, err := file.OutputPath(inDir, outDir, path)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, pipeline.Job{Input: path, Output: out})
	}
	return jobs, nil
}
