// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"math"
	"strings"
	"testing"
)

func TestParseModel_Fixture(t *testing.T) {
	t.Parallel()

	m, err := ParseModel(mustJSON(t, fixtureModel(3)))
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}
	if m.InputLength() != 4 || m.Outputs() != 3 {
		t.Errorf("shape = (%d, %d), want (4, 3)", m.InputLength(), m.Outputs())
	}

	probs, err := m.Predict([]int{0, 0, 0, 2})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("softmax sums to %v", sum)
	}
	if Argmax(probs) != 0 {
		t.Errorf("Argmax(%v) = %d, want 0", probs, Argmax(probs))
	}
}

func TestModel_MaskZeroPooling(t *testing.T) {
	t.Parallel()

	m, err := ParseModel(mustJSON(t, fixtureModel(3)))
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}
	// Padding must not dilute the average: one "bye" among pads equals
	// four "bye" steps.
	a, _ := m.Predict([]int{0, 0, 0, 3})
	b, _ := m.Predict([]int{3, 3, 3, 3})
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("masked pooling differs: %v vs %v", a, b)
		}
	}
}

func TestModel_FlattenAndActivations(t *testing.T) {
	t.Parallel()

	spec := map[string]any{
		"input_length": 2,
		"layers": []map[string]any{
			{"type": "embedding", "weights": [][]float64{{0}, {1}, {-1}}},
			{"type": "flatten"},
			{"type": "dense", "activation": "relu", "kernel": [][]float64{{1, -1}, {1, -1}}, "bias": []float64{0, 0}},
			{"type": "dropout"},
			{"type": "dense", "activation": "linear", "kernel": [][]float64{{1}, {1}}},
		},
	}
	m, err := ParseModel(mustJSON(t, spec))
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}

	tests := []struct {
		ids  []int
		want float64
	}{
		{[]int{1, 1}, 2}, // relu(2), relu(-2) -> 2
		{[]int{2, 2}, 2}, // relu(-2), relu(2) -> 2
		{[]int{1, 2}, 0},
		{[]int{0, 0}, 0},
	}
	for _, tt := range tests {
		got, err := m.Predict(tt.ids)
		if err != nil {
			t.Fatalf("Predict(%v) error = %v", tt.ids, err)
		}
		if len(got) != 1 || math.Abs(got[0]-tt.want) > 1e-12 {
			t.Errorf("Predict(%v) = %v, want [%v]", tt.ids, got, tt.want)
		}
	}
}

func TestModel_SigmoidTanh(t *testing.T) {
	t.Parallel()

	for _, act := range []string{"sigmoid", "tanh"} {
		spec := map[string]any{
			"input_length": 1,
			"layers": []map[string]any{
				{"type": "embedding", "weights": [][]float64{{0}}},
				{"type": "flatten"},
				{"type": "dense", "activation": act, "kernel": [][]float64{{1}}},
			},
		}
		m, err := ParseModel(mustJSON(t, spec))
		if err != nil {
			t.Fatalf("%s: ParseModel() error = %v", act, err)
		}
		got, _ := m.Predict([]int{0})
		want := 0.5
		if act == "tanh" {
			want = 0
		}
		if math.Abs(got[0]-want) > 1e-12 {
			t.Errorf("%s(0) = %v, want %v", act, got[0], want)
		}
	}
}

func TestModel_PredictErrors(t *testing.T) {
	t.Parallel()

	m, err := ParseModel(mustJSON(t, fixtureModel(3)))
	if err != nil {
		t.Fatalf("ParseModel() error = %v", err)
	}
	if _, err := m.Predict([]int{1, 2}); err == nil {
		t.Error("expected length error")
	}
	if _, err := m.Predict([]int{0, 0, 0, 99}); err == nil {
		t.Error("expected out-of-vocabulary error")
	}
}

func TestParseModel_Errors(t *testing.T) {
	t.Parallel()

	emb := map[string]any{"type": "embedding", "weights": [][]float64{{0, 0}, {1, 1}}}
	tests := []struct {
		name    string
		spec    map[string]any
		wantErr string
	}{
		{"no layers", map[string]any{"input_length": 2, "layers": []any{}}, "no layers"},
		{"bad input length", map[string]any{"input_length": 0, "layers": []any{emb}}, "input_length"},
		{"not embedding first", map[string]any{"input_length": 2, "layers": []any{map[string]any{"type": "flatten"}}}, "first layer"},
		{
			"kernel mismatch",
			map[string]any{"input_length": 2, "layers": []any{emb, map[string]any{"type": "flatten"},
				map[string]any{"type": "dense", "kernel": [][]float64{{1}, {1}}}}},
			"inputs",
		},
		{
			"bias mismatch",
			map[string]any{"input_length": 2, "layers": []any{emb, map[string]any{"type": "global_average_pooling1d"},
				map[string]any{"type": "dense", "kernel": [][]float64{{1}, {1}}, "bias": []float64{0, 0}}}},
			"bias",
		},
		{
			"unsupported activation",
			map[string]any{"input_length": 2, "layers": []any{emb, map[string]any{"type": "flatten"},
				map[string]any{"type": "dense", "activation": "gelu", "kernel": [][]float64{{1}, {1}, {1}, {1}}}}},
			"activation",
		},
		{"unsupported layer", map[string]any{"input_length": 2, "layers": []any{emb, map[string]any{"type": "lstm"}}}, "unsupported layer"},
		{"sequence output", map[string]any{"input_length": 2, "layers": []any{emb}}, "sequence"},
		{"ragged weights", map[string]any{"input_length": 2, "layers": []any{map[string]any{"type": "embedding", "weights": [][]float64{{0, 0}, {1}}}}}, "columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseModel(mustJSON(t, tt.spec))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestArgmax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []float64
		want int
	}{
		{[]float64{0.1, 0.7, 0.2}, 1},
		{[]float64{0.5, 0.5}, 0},
		{[]float64{1, 3, 3}, 1},
		{[]float64{-2, -1}, 1},
		{nil, -1},
	}
	for _, tt := range tests {
		if got := Argmax(tt.in); got != tt.want {
			t.Errorf("Argmax(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
