package main

import (
	"fmt"

	"github.com/cwbudde/vifscore/internal/store"
	"github.com/spf13/cobra"
)

var statusData string

var statusCmd = &cobra.Command{
	Use:   "status [jobID]",
	Short: "List persisted scoring runs",
	Long:  `Without arguments lists all persisted runs; with a job ID prints that run's scores and the number of trace rows.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusData, "data", "./data", "Data directory of persisted runs")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fsStore, err := store.NewFSStore(statusData)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		infos, err := fsStore.ListResults()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No persisted runs.")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s  frames=%d  %s -> %s  (%s)\n",
				info.JobID, info.Frames, info.RefPath, info.DisPath,
				info.Timestamp.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	jobID := args[0]
	result, err := fsStore.LoadResult(jobID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%d frame(s), %s vs %s)\n",
		result.JobID, result.Frames, result.Config.RefPath, result.Config.DisPath)
	for s, score := range result.ScaleScores {
		fmt.Printf("  scale %d: %.6f\n", s, score)
	}

	tr, err := store.NewTraceReader(statusData, jobID)
	if err != nil {
		// A result without a trace is still valid.
		return nil
	}
	defer tr.Close()

	rows, err := tr.ReadAll()
	if err != nil {
		return err
	}
	fmt.Printf("Trace: %d row(s)\n", len(rows))
	return nil
}
