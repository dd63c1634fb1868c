// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Ranker turns similarity into an ordered list of courses for one user.
type Ranker struct {
	Limit       int
	ZeroDivisor ZeroDivisorPolicy
}

// Rank scores every course by the similarity-weighted sum of interactions,
// Mᵀ·sim[user], and divides by the sum of the user's similarity row. The
// user's own row takes part in both. Courses the user already wishlisted
// are never returned.
//
// A user missing from the matrix gets an empty list. The second return
// value reports a zero divisor. Under ZeroDivisorSkip the result is then
// empty; under ZeroDivisorZero every candidate scores 0 and keeps column
// order.
func (r Ranker) Rank(m *InteractionMatrix, sim *SimilarityMatrix, userID int64) ([]ScoredCourse, bool) {
	return r.RankEligible(m, sim, userID, nil)
}

// RankEligible is Rank restricted to courses in eligible. Ineligible
// courses still shape similarity but never take one of the Limit slots. A
// nil set admits every course.
func (r Ranker) RankEligible(m *InteractionMatrix, sim *SimilarityMatrix, userID int64, eligible map[int64]struct{}) ([]ScoredCourse, bool) {
	if m.Empty() || r.Limit < 1 {
		return nil, false
	}
	users, courses := m.Dims()

	weights := sim.Row(userID)
	if weights == nil {
		return nil, false
	}
	divisor := floats.Sum(weights)

	zeroDivisor := divisor == 0
	if zeroDivisor && r.ZeroDivisor != ZeroDivisorZero {
		return nil, true
	}

	raw := make([]float64, courses)
	if !zeroDivisor {
		var scores mat.VecDense
		scores.MulVec(m.data.T(), mat.NewVecDense(users, weights))
		for i := range raw {
			raw[i] = scores.AtVec(i) / divisor
		}
	}

	candidates := make([]ScoredCourse, courses)
	for i, courseID := range m.Courses {
		candidates[i] = ScoredCourse{CourseID: courseID, Score: raw[i]}
	}
	slices.SortStableFunc(candidates, func(a, b ScoredCourse) int {
		return cmp.Compare(b.Score, a.Score)
	})

	interacted := m.Interacted(userID)
	out := make([]ScoredCourse, 0, min(r.Limit, courses))
	for _, c := range candidates {
		if _, ok := interacted[c.CourseID]; ok {
			continue
		}
		if eligible != nil {
			if _, ok := eligible[c.CourseID]; !ok {
				continue
			}
		}
		out = append(out, c)
		if len(out) == r.Limit {
			break
		}
	}
	return out, zeroDivisor
}
