// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package chatbot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Layer types understood by the model runtime. Keras class names are
// accepted in any case ("Dense", "GlobalAveragePooling1D").
const (
	LayerEmbedding     = "embedding"
	LayerGlobalAvgPool = "globalaveragepooling1d"
	LayerFlatten       = "flatten"
	LayerDense         = "dense"
	LayerDropout       = "dropout"
)

// modelJSON is the exported network: an input length and an ordered layer list.
type modelJSON struct {
	InputLength int         `json:"input_length"`
	Layers      []layerJSON `json:"layers"`
}

type layerJSON struct {
	Type       string      `json:"type"`
	ClassName  string      `json:"class_name"`
	Name       string      `json:"name"`
	MaskZero   bool        `json:"mask_zero"`
	Activation string      `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Kernel     [][]float64 `json:"kernel"`
	Bias       []float64   `json:"bias"`
}

func (l layerJSON) kind() string {
	k := l.Type
	if k == "" {
		k = l.ClassName
	}
	k = strings.ToLower(strings.ReplaceAll(k, "_", ""))
	return k
}

// tensor is the value flowing between layers. Sequence tensors have one
// row per timestep; vectors have a single row.
type tensor struct {
	m    *mat.Dense
	mask []bool
	seq  bool
}

type layer interface {
	forward(x tensor) tensor
}

// Model is an inference-only sequential network. It is immutable and safe
// for concurrent use.
type Model struct {
	inputLength int
	vocab       int
	maskZero    bool
	embedding   *mat.Dense
	layers      []layer
	outputs     int
}

// LoadModel reads a model.json file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return ParseModel(data)
}

// ParseModel decodes and shape-checks an exported network. The first layer
// must be an embedding.
func ParseModel(data []byte) (*Model, error) {
	var spec modelJSON
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if len(spec.Layers) == 0 {
		return nil, errors.New("model has no layers")
	}
	if spec.InputLength <= 0 {
		return nil, fmt.Errorf("model input_length must be positive, got %d", spec.InputLength)
	}

	first := spec.Layers[0]
	if first.kind() != LayerEmbedding {
		return nil, fmt.Errorf("first layer must be an embedding, got %q", first.kind())
	}
	embedding, err := denseFrom(first.Weights)
	if err != nil {
		return nil, fmt.Errorf("layer 0 (embedding): %w", err)
	}
	vocab, width := embedding.Dims()

	m := &Model{
		inputLength: spec.InputLength,
		vocab:       vocab,
		maskZero:    first.MaskZero,
		embedding:   embedding,
	}

	rows, seq := spec.InputLength, true
	for i, ls := range spec.Layers[1:] {
		idx := i + 1
		switch ls.kind() {
		case LayerGlobalAvgPool:
			if !seq {
				return nil, fmt.Errorf("layer %d (pooling): input is not a sequence", idx)
			}
			rows, seq = 1, false
			m.layers = append(m.layers, poolLayer{})
		case LayerFlatten:
			width *= rows
			rows, seq = 1, false
			m.layers = append(m.layers, flattenLayer{})
		case LayerDropout:
		case LayerDense:
			d, err := newDenseLayer(ls, width)
			if err != nil {
				return nil, fmt.Errorf("layer %d (dense): %w", idx, err)
			}
			_, width = d.kernel.Dims()
			m.layers = append(m.layers, d)
		case LayerEmbedding:
			return nil, fmt.Errorf("layer %d: embedding is only supported as the first layer", idx)
		default:
			return nil, fmt.Errorf("layer %d: unsupported layer type %q", idx, ls.kind())
		}
	}
	if rows != 1 {
		return nil, fmt.Errorf("model output is a sequence of %d steps, want a vector", rows)
	}
	m.outputs = width
	return m, nil
}

// InputLength is the sequence length the network expects.
func (m *Model) InputLength() int { return m.inputLength }

// Outputs is the width of the final layer.
func (m *Model) Outputs() int { return m.outputs }

// Predict runs a forward pass over one padded index sequence.
func (m *Model) Predict(ids []int) ([]float64, error) {
	if len(ids) != m.inputLength {
		return nil, fmt.Errorf("input has %d steps, model expects %d", len(ids), m.inputLength)
	}
	_, width := m.embedding.Dims()
	x := tensor{m: mat.NewDense(len(ids), width, nil), seq: true}
	if m.maskZero {
		x.mask = make([]bool, len(ids))
	}
	for row, id := range ids {
		if id < 0 || id >= m.vocab {
			return nil, fmt.Errorf("token index %d outside embedding of size %d", id, m.vocab)
		}
		x.m.SetRow(row, m.embedding.RawRowView(id))
		if x.mask != nil {
			x.mask[row] = id != 0
		}
	}

	for _, l := range m.layers {
		x = l.forward(x)
	}
	return mat.Row(nil, 0, x.m), nil
}

func denseFrom(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("empty weight matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("weight row %d has %d columns, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

type poolLayer struct{}

// forward averages unmasked timesteps. A fully masked input pools to zeros.
func (poolLayer) forward(x tensor) tensor {
	rows, cols := x.m.Dims()
	sum := make([]float64, cols)
	n := 0
	for r := 0; r < rows; r++ {
		if x.mask != nil && !x.mask[r] {
			continue
		}
		floats.Add(sum, x.m.RawRowView(r))
		n++
	}
	if n > 0 {
		floats.Scale(1/float64(n), sum)
	}
	return tensor{m: mat.NewDense(1, cols, sum)}
}

type flattenLayer struct{}

func (flattenLayer) forward(x tensor) tensor {
	rows, cols := x.m.Dims()
	if rows == 1 && !x.seq {
		return x
	}
	flat := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		flat = append(flat, x.m.RawRowView(r)...)
	}
	return tensor{m: mat.NewDense(1, rows*cols, flat)}
}

type denseLayer struct {
	kernel     *mat.Dense
	bias       []float64
	activation func(row []float64)
}

func newDenseLayer(ls layerJSON, inputWidth int) (*denseLayer, error) {
	kernel, err := denseFrom(ls.Kernel)
	if err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}
	in, units := kernel.Dims()
	if in != inputWidth {
		return nil, fmt.Errorf("kernel has %d inputs, previous layer has %d outputs", in, inputWidth)
	}
	bias := ls.Bias
	if bias == nil {
		bias = make([]float64, units)
	}
	if len(bias) != units {
		return nil, fmt.Errorf("bias has %d entries, want %d", len(bias), units)
	}
	act, err := activationFunc(ls.Activation)
	if err != nil {
		return nil, err
	}
	return &denseLayer{kernel: kernel, bias: bias, activation: act}, nil
}

// forward computes x·K + b row by row, so it also applies per timestep.
func (d *denseLayer) forward(x tensor) tensor {
	var out mat.Dense
	out.Mul(x.m, d.kernel)
	rows, _ := out.Dims()
	for r := 0; r < rows; r++ {
		row := out.RawRowView(r)
		floats.Add(row, d.bias)
		d.activation(row)
	}
	return tensor{m: &out, mask: x.mask, seq: x.seq}
}

func activationFunc(name string) (func([]float64), error) {
	switch strings.ToLower(name) {
	case "", "linear", "none":
		return func([]float64) {}, nil
	case "relu":
		return func(v []float64) {
			for i, x := range v {
				v[i] = math.Max(0, x)
			}
		}, nil
	case "tanh":
		return func(v []float64) {
			for i, x := range v {
				v[i] = math.Tanh(x)
			}
		}, nil
	case "sigmoid":
		return func(v []float64) {
			for i, x := range v {
				v[i] = 1 / (1 + math.Exp(-x))
			}
		}, nil
	case "softmax":
		return softmax, nil
	default:
		return nil, fmt.Errorf("unsupported activation %q", name)
	}
}

func softmax(v []float64) {
	peak := floats.Max(v)
	for i, x := range v {
		v[i] = math.Exp(x - peak)
	}
	floats.Scale(1/floats.Sum(v), v)
}

// Argmax returns the index of the largest value; the first one wins ties.
// It returns -1 for an empty slice.
func Argmax(v []float64) int {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	return best
}
