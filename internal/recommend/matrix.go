// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"slices"

	"gonum.org/v1/gonum/mat"
)

// InteractionMatrix is a binary users×courses matrix. Users and Courses are
// sorted ascending and give the row and column order.
type InteractionMatrix struct {
	Users   []int64
	Courses []int64

	userIndex   map[int64]int
	courseIndex map[int64]int

	// data is nil when either dimension is empty; gonum rejects zero-sized matrices.
	data *mat.Dense
}

// BuildInteractionMatrix places a 1 at (user, course) for every interaction
// whose user and course are both known. Duplicate ids collapse.
func BuildInteractionMatrix(users, courses []int64, interactions []Interaction) *InteractionMatrix {
	m := &InteractionMatrix{
		Users:   sortedUnique(users),
		Courses: sortedUnique(courses),
	}
	m.userIndex = indexOf(m.Users)
	m.courseIndex = indexOf(m.Courses)

	if len(m.Users) == 0 || len(m.Courses) == 0 {
		return m
	}

	m.data = mat.NewDense(len(m.Users), len(m.Courses), nil)
	for _, in := range interactions {
		row, ok := m.userIndex[in.UserID]
		if !ok {
			continue
		}
		col, ok := m.courseIndex[in.CourseID]
		if !ok {
			continue
		}
		m.data.Set(row, col, 1)
	}
	return m
}

// Dims returns (rows, columns).
func (m *InteractionMatrix) Dims() (int, int) {
	return len(m.Users), len(m.Courses)
}

// Empty reports whether the matrix has no users or no courses.
func (m *InteractionMatrix) Empty() bool {
	return m.data == nil
}

// At returns the cell for (userID, courseID), 0 for unknown ids.
func (m *InteractionMatrix) At(userID, courseID int64) float64 {
	row, ok := m.userIndex[userID]
	if !ok || m.data == nil {
		return 0
	}
	col, ok := m.courseIndex[courseID]
	if !ok {
		return 0
	}
	return m.data.At(row, col)
}

// Row returns a copy of the user's interaction row, or nil for an unknown user.
func (m *InteractionMatrix) Row(userID int64) []float64 {
	row, ok := m.userIndex[userID]
	if !ok || m.data == nil {
		return nil
	}
	return mat.Row(nil, row, m.data)
}

// Interacted returns the course ids with a non-zero cell in the user's row.
func (m *InteractionMatrix) Interacted(userID int64) map[int64]struct{} {
	seen := make(map[int64]struct{})
	for col, v := range m.Row(userID) {
		if v > 0 {
			seen[m.Courses[col]] = struct{}{}
		}
	}
	return seen
}

func sortedUnique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func indexOf(ids []int64) map[int64]int {
	idx := make(map[int64]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
