// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SimilarityMatrix is the symmetric users×users cosine similarity matrix.
// Row and column order follow Users.
type SimilarityMatrix struct {
	Users []int64

	index map[int64]int
	data  *mat.SymDense
}

// CosineSimilarity computes pairwise cosine similarity between user rows.
//
// A user with an all-zero row has similarity 0 to everyone, itself
// included. Every other diagonal cell is exactly 1.
func CosineSimilarity(m *InteractionMatrix) *SimilarityMatrix {
	s := &SimilarityMatrix{
		Users: m.Users,
		index: m.userIndex,
	}
	if m.Empty() {
		return s
	}

	n := len(m.Users)
	norms := make([]float64, n)
	for i := range norms {
		norms[i] = floats.Norm(m.data.RawRowView(i), 2)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, m.data)

	s.data = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		s.data.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			s.data.SetSym(i, j, gram.At(i, j)/(norms[i]*norms[j]))
		}
	}
	return s
}

// At returns sim(a, b), 0 for unknown users.
func (s *SimilarityMatrix) At(a, b int64) float64 {
	i, ok := s.index[a]
	if !ok || s.data == nil {
		return 0
	}
	j, ok := s.index[b]
	if !ok {
		return 0
	}
	return s.data.At(i, j)
}

// Row returns a copy of the user's similarity row, or nil for an unknown user.
func (s *SimilarityMatrix) Row(userID int64) []float64 {
	i, ok := s.index[userID]
	if !ok || s.data == nil {
		return nil
	}
	return mat.Row(nil, i, s.data)
}
