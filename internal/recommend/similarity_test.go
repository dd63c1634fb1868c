// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"math"
	"testing"
)

func sampleMatrix() *InteractionMatrix {
	return BuildInteractionMatrix(
		[]int64{1, 2, 3, 4},
		[]int64{10, 20, 30},
		[]Interaction{
			{UserID: 1, CourseID: 10},
			{UserID: 2, CourseID: 10},
			{UserID: 2, CourseID: 20},
			{UserID: 3, CourseID: 20},
			{UserID: 3, CourseID: 30},
			// user 4 has no interactions
		},
	)
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	t.Parallel()

	m := sampleMatrix()
	sim := CosineSimilarity(m)
	for _, a := range m.Users {
		for _, b := range m.Users {
			if sim.At(a, b) != sim.At(b, a) {
				t.Errorf("sim(%d,%d)=%v != sim(%d,%d)=%v", a, b, sim.At(a, b), b, a, sim.At(b, a))
			}
		}
	}
}

func TestCosineSimilarity_Diagonal(t *testing.T) {
	t.Parallel()

	sim := CosineSimilarity(sampleMatrix())
	for _, u := range []int64{1, 2, 3} {
		if got := sim.At(u, u); got != 1 {
			t.Errorf("sim(%d,%d) = %v, want 1", u, u, got)
		}
	}
	if got := sim.At(4, 4); got != 0 {
		t.Errorf("zero-row diagonal = %v, want 0", got)
	}
}

func TestCosineSimilarity_ZeroRow(t *testing.T) {
	t.Parallel()

	sim := CosineSimilarity(sampleMatrix())
	for _, u := range []int64{1, 2, 3, 4} {
		if got := sim.At(4, u); got != 0 {
			t.Errorf("sim(4,%d) = %v, want 0", u, got)
		}
	}
	for _, v := range sim.Row(4) {
		if math.IsNaN(v) {
			t.Fatal("zero row produced NaN")
		}
	}
}

func TestCosineSimilarity_Values(t *testing.T) {
	t.Parallel()

	sim := CosineSimilarity(sampleMatrix())
	tests := []struct {
		a, b int64
		want float64
	}{
		{1, 2, 1 / math.Sqrt2},
		{1, 3, 0},
		{2, 3, 0.5},
	}
	for _, tt := range tests {
		if got := sim.At(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("sim(%d,%d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	t.Parallel()

	m := sampleMatrix()
	sim := CosineSimilarity(m)
	for _, a := range m.Users {
		for _, v := range sim.Row(a) {
			if v < 0 || v > 1+1e-12 {
				t.Errorf("similarity %v outside [0,1]", v)
			}
		}
	}
}

func TestCosineSimilarity_EmptyMatrix(t *testing.T) {
	t.Parallel()

	sim := CosineSimilarity(BuildInteractionMatrix(nil, nil, nil))
	if sim.Row(1) != nil {
		t.Error("expected nil row")
	}
	if sim.At(1, 1) != 0 {
		t.Error("expected 0")
	}
}
