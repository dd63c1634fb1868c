// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"slices"
	"testing"
)

func TestBuildInteractionMatrix_ShapeAndOrder(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix(
		[]int64{3, 1, 2, 1},
		[]int64{20, 10, 30},
		[]Interaction{{UserID: 1, CourseID: 10}, {UserID: 3, CourseID: 30}, {UserID: 1, CourseID: 10}},
	)

	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("Dims() = (%d, %d), want (3, 3)", rows, cols)
	}
	if !slices.Equal(m.Users, []int64{1, 2, 3}) {
		t.Errorf("Users = %v, want sorted unique [1 2 3]", m.Users)
	}
	if !slices.Equal(m.Courses, []int64{10, 20, 30}) {
		t.Errorf("Courses = %v, want [10 20 30]", m.Courses)
	}
}

func TestBuildInteractionMatrix_BinaryCells(t *testing.T) {
	t.Parallel()

	users := []int64{1, 2}
	courses := []int64{10, 20}
	m := BuildInteractionMatrix(users, courses, []Interaction{
		{UserID: 1, CourseID: 10},
		{UserID: 1, CourseID: 10},
		{UserID: 2, CourseID: 20},
		{UserID: 99, CourseID: 10},
		{UserID: 1, CourseID: 99},
	})

	tests := []struct {
		user, course int64
		want         float64
	}{
		{1, 10, 1},
		{1, 20, 0},
		{2, 10, 0},
		{2, 20, 1},
		{99, 10, 0},
	}
	for _, tt := range tests {
		if got := m.At(tt.user, tt.course); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.user, tt.course, got, tt.want)
		}
	}

	for _, u := range users {
		for _, v := range m.Row(u) {
			if v != 0 && v != 1 {
				t.Errorf("user %d has non-binary cell %v", u, v)
			}
		}
	}
}

func TestBuildInteractionMatrix_Empty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		users   []int64
		courses []int64
	}{
		{"no users", nil, []int64{1}},
		{"no courses", []int64{1}, nil},
		{"nothing", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := BuildInteractionMatrix(tt.users, tt.courses, nil)
			if !m.Empty() {
				t.Error("expected empty matrix")
			}
			if m.Row(1) != nil {
				t.Error("Row on empty matrix should be nil")
			}
			if m.At(1, 1) != 0 {
				t.Error("At on empty matrix should be 0")
			}
		})
	}
}

func TestInteracted(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1}, []int64{10, 20, 30}, []Interaction{
		{UserID: 1, CourseID: 10},
		{UserID: 1, CourseID: 30},
	})
	got := m.Interacted(1)
	if len(got) != 2 {
		t.Fatalf("Interacted() = %v, want 2 entries", got)
	}
	for _, id := range []int64{10, 30} {
		if _, ok := got[id]; !ok {
			t.Errorf("course %d missing from interacted set", id)
		}
	}
	if len(m.Interacted(42)) != 0 {
		t.Error("unknown user should have no interactions")
	}
}
