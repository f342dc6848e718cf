package eeg

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSeizureTable(t *testing.T) {
	table := SeizureTable{1: 363, 11: 1306}

	if !table.Positive(1) || !table.Positive(11) {
		t.Fatalf("expected subjects 1 and 11 to be seizure-positive")
	}
	if table.Positive(2) || table.Positive(5) {
		t.Fatalf("expected other subjects to be seizure-negative")
	}

	if id, ok := table.SecondaryID(1); !ok || id != 363 {
		t.Fatalf("expected secondary id 363 for subject 1, got %d (%v)", id, ok)
	}
	if id, ok := table.SecondaryID(11); !ok || id != 1306 {
		t.Fatalf("expected secondary id 1306 for subject 11, got %d (%v)", id, ok)
	}
	if _, ok := table.SecondaryID(2); ok {
		t.Fatalf("expected no secondary id for subject 2")
	}
}

func TestDuration(t *testing.T) {
	if got := Duration(4097, 178.0); math.Abs(got-4097.0/178.0) > 1e-12 {
		t.Fatalf("unexpected duration %v", got)
	}
	if got := Duration(100, 0); got != 0 {
		t.Fatalf("expected zero duration for zero rate, got %v", got)
	}
	if got := Duration(0, 256); got != 0 {
		t.Fatalf("expected zero duration for zero samples, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	s := Summarize(m)

	if s.Rows != 2 || s.Cols != 2 {
		t.Fatalf("unexpected shape (%d, %d)", s.Rows, s.Cols)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Fatalf("unexpected range [%v, %v]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-2.5) > 1e-12 {
		t.Fatalf("unexpected mean %v", s.Mean)
	}
	if s.Std <= 0 {
		t.Fatalf("expected positive std, got %v", s.Std)
	}
}

func TestSummarizeNil(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Fatalf("expected zero summary for nil matrix, got %+v", s)
	}
}
