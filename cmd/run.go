package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/vifscore/internal/feature"
	"github.com/cwbudde/vifscore/internal/picture"
	"github.com/cwbudde/vifscore/internal/store"
	"github.com/cwbudde/vifscore/internal/vif"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	refPath string
	disPath string
	bpc     int
	dataDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score a reference/distorted frame pair",
	Long:  `Computes the four per-scale VIF scores for one frame pair and prints them.`,
	RunE:  runScoring,
}

func init() {
	runCmd.Flags().StringVar(&refPath, "ref", "", "Reference image path (required)")
	runCmd.Flags().StringVar(&disPath, "dis", "", "Distorted image path (required)")
	runCmd.Flags().IntVar(&bpc, "bpc", 8, "Bits per component (8, 10, 12)")
	runCmd.Flags().StringVar(&dataDir, "data", "", "Persist the run under this data directory")

	runCmd.MarkFlagRequired("ref")
	runCmd.MarkFlagRequired("dis")
	rootCmd.AddCommand(runCmd)
}

func loadImage(path string, bpc int) (*picture.Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return picture.FromImage(img, bpc)
}

func runScoring(cmd *cobra.Command, args []string) error {
	slog.Info("Scoring frame pair", "ref", refPath, "dis", disPath, "bpc", bpc)

	ref, err := loadImage(refPath, bpc)
	if err != nil {
		return err
	}
	dis, err := loadImage(disPath, bpc)
	if err != nil {
		return err
	}
	if !ref.Matches(dis) {
		return fmt.Errorf("frame geometry differs: %dx%d vs %dx%d",
			ref.Width, ref.Height, dis.Width, dis.Height)
	}

	extractor, err := vif.NewExtractor(vif.Config{Width: ref.Width, Height: ref.Height, Bpc: bpc})
	if err != nil {
		return err
	}
	defer extractor.Close()

	start := time.Now()
	col := feature.NewMemCollector()
	if err := extractor.Extract(ref, dis, 0, col); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	elapsed := time.Since(start)

	var scores [4]float64
	for s := range scores {
		scores[s], _ = col.Score(0, vif.FeatureNames[s])
		fmt.Printf("%s: %.6f\n", vif.FeatureNames[s], scores[s])
	}

	slog.Info("Scoring complete",
		"elapsed", elapsed,
		"width", ref.Width,
		"height", ref.Height,
		"scale0", scores[0],
		"scale3", scores[3],
	)

	if dataDir != "" {
		fsStore, err := store.NewFSStore(dataDir)
		if err != nil {
			return err
		}

		jobID := uuid.New().String()
		config := store.JobConfig{RefPath: refPath, DisPath: disPath, Bpc: bpc}
		if err := fsStore.SaveResult(jobID, store.NewResult(jobID, 1, scores, config)); err != nil {
			return fmt.Errorf("failed to persist result: %w", err)
		}

		trace, err := store.NewTraceWriter(dataDir, jobID)
		if err != nil {
			return err
		}
		defer trace.Close()
		if err := trace.Write(store.TraceRow{Frame: 0, ScaleScores: scores, Timestamp: time.Now()}); err != nil {
			return err
		}

		fmt.Printf("Saved run %s under %s\n", jobID, dataDir)
	}

	return nil
}
