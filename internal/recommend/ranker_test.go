// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"math"
	"slices"
	"testing"
)

func rank(t *testing.T, r Ranker, m *InteractionMatrix, userID int64) ([]ScoredCourse, bool) {
	t.Helper()
	return r.Rank(m, CosineSimilarity(m), userID)
}

func ids(courses []ScoredCourse) []int64 {
	out := make([]int64, len(courses))
	for i, c := range courses {
		out[i] = c.CourseID
	}
	return out
}

func TestRank_SimilarUserCourseFirst(t *testing.T) {
	t.Parallel()

	// user1 wishlisted A, user2 wishlisted A and B, C untouched.
	m := BuildInteractionMatrix([]int64{1, 2}, []int64{100, 200, 300}, []Interaction{
		{UserID: 1, CourseID: 100},
		{UserID: 2, CourseID: 100},
		{UserID: 2, CourseID: 200},
	})

	got, zero := rank(t, Ranker{Limit: 2, ZeroDivisor: ZeroDivisorSkip}, m, 1)
	if zero {
		t.Fatal("unexpected zero divisor")
	}
	if !slices.Equal(ids(got), []int64{200, 300}) {
		t.Fatalf("Rank() = %v, want [200 300]", ids(got))
	}

	// score(B) = sim(1,2) / (1 + sim(1,2))
	s := 1 / math.Sqrt2
	if want := s / (1 + s); math.Abs(got[0].Score-want) > 1e-12 {
		t.Errorf("score(B) = %v, want %v", got[0].Score, want)
	}
	if got[1].Score != 0 {
		t.Errorf("score(C) = %v, want 0", got[1].Score)
	}
}

func TestRank_ExcludesInteracted(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1, 2, 3}, []int64{1, 2, 3, 4, 5}, []Interaction{
		{UserID: 1, CourseID: 1}, {UserID: 1, CourseID: 2}, {UserID: 1, CourseID: 3},
		{UserID: 2, CourseID: 1}, {UserID: 2, CourseID: 2}, {UserID: 2, CourseID: 4},
		{UserID: 3, CourseID: 3}, {UserID: 3, CourseID: 5},
	})

	for _, limit := range []int{1, 2, 5, 10} {
		got, _ := rank(t, Ranker{Limit: limit, ZeroDivisor: ZeroDivisorSkip}, m, 1)
		for _, c := range got {
			if m.At(1, c.CourseID) != 0 {
				t.Errorf("limit %d: course %d already wishlisted", limit, c.CourseID)
			}
		}
		if len(got) > limit {
			t.Errorf("limit %d: got %d results", limit, len(got))
		}
	}
}

func TestRank_FullyWishlistedUser(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1, 2}, []int64{1, 2}, []Interaction{
		{UserID: 1, CourseID: 1}, {UserID: 1, CourseID: 2}, {UserID: 2, CourseID: 1},
	})
	got, _ := rank(t, Ranker{Limit: 2, ZeroDivisor: ZeroDivisorSkip}, m, 1)
	if len(got) != 0 {
		t.Errorf("Rank() = %v, want empty", got)
	}
}

func TestRank_OrderedDescending(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1, 2, 3}, []int64{1, 2, 3, 4}, []Interaction{
		{UserID: 1, CourseID: 1},
		{UserID: 2, CourseID: 1}, {UserID: 2, CourseID: 3},
		{UserID: 3, CourseID: 1}, {UserID: 3, CourseID: 3}, {UserID: 3, CourseID: 4},
	})
	got, _ := rank(t, Ranker{Limit: 3, ZeroDivisor: ZeroDivisorSkip}, m, 1)
	if !slices.IsSortedFunc(got, func(a, b ScoredCourse) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	}) {
		t.Errorf("scores not descending: %v", got)
	}
	if got[0].CourseID != 3 {
		t.Errorf("top course = %d, want 3", got[0].CourseID)
	}
}

func TestRank_TiesKeepColumnOrder(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1, 2}, []int64{5, 6, 7, 8}, []Interaction{
		{UserID: 1, CourseID: 5},
		{UserID: 2, CourseID: 5}, {UserID: 2, CourseID: 7}, {UserID: 2, CourseID: 8},
	})
	got, _ := rank(t, Ranker{Limit: 3, ZeroDivisor: ZeroDivisorSkip}, m, 1)
	if !slices.Equal(ids(got), []int64{7, 8, 6}) {
		t.Errorf("Rank() = %v, want [7 8 6]", ids(got))
	}
}

func TestRank_ZeroDivisorPolicies(t *testing.T) {
	t.Parallel()

	// user 3 has no interactions, so its similarity row is all zero.
	m := BuildInteractionMatrix([]int64{1, 2, 3}, []int64{10, 20, 30}, []Interaction{
		{UserID: 1, CourseID: 10},
		{UserID: 2, CourseID: 20},
	})

	tests := []struct {
		name   string
		policy ZeroDivisorPolicy
		user   int64
		want   []int64
	}{
		{"skip returns nothing", ZeroDivisorSkip, 3, nil},
		{"zero keeps column order", ZeroDivisorZero, 3, []int64{10, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, zero := rank(t, Ranker{Limit: 2, ZeroDivisor: tt.policy}, m, tt.user)
			if !zero {
				t.Error("expected zero divisor")
			}
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("Rank() = %v, want %v", ids(got), tt.want)
			}
			for _, c := range got {
				if c.Score != 0 || math.IsNaN(c.Score) {
					t.Errorf("score = %v, want 0", c.Score)
				}
			}
		})
	}
}

func TestRank_UnknownUser(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1, 2}, []int64{10, 20, 30}, []Interaction{
		{UserID: 1, CourseID: 10},
		{UserID: 2, CourseID: 20},
	})
	for _, policy := range []ZeroDivisorPolicy{ZeroDivisorSkip, ZeroDivisorZero} {
		got, zero := rank(t, Ranker{Limit: 2, ZeroDivisor: policy}, m, 99)
		if got != nil || zero {
			t.Errorf("policy %v: Rank(unknown) = %v, zero=%v; want nil, false", policy, got, zero)
		}
	}
}

func TestRankEligible_SkipsIneligibleBeforeLimit(t *testing.T) {
	t.Parallel()

	// user 1 shares course 1 with user 2, so courses 2 and 3 tie ahead of 4.
	m := BuildInteractionMatrix([]int64{1, 2, 3}, []int64{1, 2, 3, 4}, []Interaction{
		{UserID: 1, CourseID: 1},
		{UserID: 2, CourseID: 1},
		{UserID: 2, CourseID: 2},
		{UserID: 2, CourseID: 3},
		{UserID: 3, CourseID: 2},
		{UserID: 3, CourseID: 4},
	})
	sim := CosineSimilarity(m)
	r := Ranker{Limit: 2, ZeroDivisor: ZeroDivisorSkip}

	all, _ := r.Rank(m, sim, 1)
	if len(all) != 2 || all[0].CourseID != 2 {
		t.Fatalf("Rank() = %v, want course 2 first", ids(all))
	}

	eligible := map[int64]struct{}{3: {}, 4: {}}
	got, _ := r.RankEligible(m, sim, 1, eligible)
	if !slices.Equal(ids(got), []int64{3, 4}) {
		t.Errorf("RankEligible() = %v, want [3 4]", ids(got))
	}
}

func TestRank_NoOverlapKeepsColumnOrder(t *testing.T) {
	t.Parallel()

	m := BuildInteractionMatrix([]int64{1, 2}, []int64{1, 2, 3}, []Interaction{
		{UserID: 1, CourseID: 2},
		{UserID: 2, CourseID: 3},
	})
	got, zero := rank(t, Ranker{Limit: 2, ZeroDivisor: ZeroDivisorSkip}, m, 1)
	if zero {
		t.Fatal("self-similarity should make the divisor non-zero")
	}
	if !slices.Equal(ids(got), []int64{1, 3}) {
		t.Errorf("Rank() = %v, want [1 3]", ids(got))
	}
}
