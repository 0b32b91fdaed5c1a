package server

import (
	"context"
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
)

// loadPicture decodes an image file and converts it to a luminance plane.
func loadPicture(path string, bpc int) (*picture.Picture, error) {
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

// runJob executes a scoring job in the background. If resultStore is not
// nil the finished run and its per-frame trace are persisted.
func runJob(ctx context.Context, jm *JobManager, resultStore store.Store, storeDir, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	}); err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "ref", job.Config.RefPath, "dis", job.Config.DisPath)

	bpc := job.Config.Bpc
	if bpc == 0 {
		bpc = 8
	}

	ref, err := loadPicture(job.Config.RefPath, bpc)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	dis, err := loadPicture(job.Config.DisPath, bpc)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	if !ref.Matches(dis) {
		err := fmt.Errorf("reference %dx%d and distorted %dx%d differ",
			ref.Width, ref.Height, dis.Width, dis.Height)
		markJobFailed(jm, jobID, err)
		return err
	}

	slog.Info("Loaded frame pair", "job_id", jobID, "width", ref.Width, "height", ref.Height, "bpc", bpc)

	extractor, err := vif.NewExtractor(vif.Config{Width: ref.Width, Height: ref.Height, Bpc: bpc})
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	defer extractor.Close()

	var trace *store.TraceWriter
	if resultStore != nil {
		trace, err = store.NewTraceWriter(storeDir, jobID)
		if err != nil {
			markJobFailed(jm, jobID, err)
			return err
		}
		defer trace.Close()
	}

	// Check for cancellation before the heavy work.
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	col := feature.NewMemCollector()
	if err := extractor.Extract(ref, dis, 0, col); err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	var scores [4]float64
	for s := range scores {
		scores[s], _ = col.Score(0, vif.FeatureNames[s])
	}

	if trace != nil {
		row := store.TraceRow{Frame: 0, ScaleScores: scores, Timestamp: time.Now()}
		if err := trace.Write(row); err != nil {
			slog.Warn("Failed to write trace row", "job_id", jobID, "err", err)
		}
	}

	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Frames = 1
		j.ScaleScores = scores
		j.EndTime = &endTime
	})

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		Frame:       0,
		ScaleScores: scores,
		Timestamp:   endTime,
	})

	if resultStore != nil {
		result := store.NewResult(jobID, 1, scores, job.Config)
		if err := resultStore.SaveResult(jobID, result); err != nil {
			slog.Warn("Failed to persist result", "job_id", jobID, "err", err)
		}
	}

	slog.Info("Job completed", "job_id", jobID,
		"scale0", scores[0], "scale1", scores[1], "scale2", scores[2], "scale3", scores[3])
	return nil
}

func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateFailed,
		Timestamp: endTime,
	})
	slog.Error("Job failed", "job_id", jobID, "err", err)
}

func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:     jobID,
		State:     StateCancelled,
		Timestamp: endTime,
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
