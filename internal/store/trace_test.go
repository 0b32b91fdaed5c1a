package store

import (
	"errors"
	"io"
	"testing"
)

func TestTraceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "job-1")
	if err != nil {
		t.Fatal(err)
	}

	rows := []TraceRow{
		{Frame: 0, ScaleScores: [4]float64{0.9, 0.95, 0.97, 0.99}},
		{Frame: 1, ScaleScores: [4]float64{0.8, 0.9, 0.94, 0.98}},
		{Frame: 2, ScaleScores: [4]float64{1, 1, 1, 1}},
	}
	for _, row := range rows {
		if err := tw.Write(row); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	tr, err := NewTraceReader(dir, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	got, err := tr.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rows) {
		t.Fatalf("read %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i].Frame != rows[i].Frame || got[i].ScaleScores != rows[i].ScaleScores {
			t.Errorf("row %d = %+v, want %+v", i, got[i], rows[i])
		}
	}

	// A second sequential read hits EOF immediately.
	if _, err := tr.Read(); err != io.EOF {
		t.Errorf("Read after ReadAll = %v, want io.EOF", err)
	}
}

func TestTraceReaderMissing(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NewTraceReader on missing job = %v, want ErrNotFound", err)
	}
}

func TestTraceFlushDurability(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	defer tw.Close()

	if err := tw.Write(TraceRow{Frame: 7}); err != nil {
		t.Fatal(err)
	}
	if err := tw.Flush(); err != nil {
		t.Fatal(err)
	}

	// The row must be readable while the writer is still open.
	tr, err := NewTraceReader(dir, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	row, err := tr.Read()
	if err != nil {
		t.Fatal(err)
	}
	if row.Frame != 7 {
		t.Errorf("flushed row frame = %d, want 7", row.Frame)
	}
}
