// Package linear provides the concrete collaborators behind the bench
// interfaces: a multinomial logistic classifier, a LiSSA-style s_test
// estimator, and a seeded synthetic classification dataset.
package linear

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/influence-bench/influence-bench/bench"
)

// Parameter block names exposed through NamedParameters.
const (
	WeightParamName = "linear.weight"
	BiasParamName   = "linear.bias"
)

// Model is a multinomial logistic classifier over dense features:
// logits = W x + b with W of shape (classes x features).
type Model struct {
	numClasses  int
	numFeatures int
	weights     *mat.Dense // classes x features
	bias        []float64  // classes
}

// NewModel initializes a model with small random weights.
func NewModel(numClasses, numFeatures int, rng *rand.Rand) (*Model, error) {
	if numClasses < 2 || numFeatures < 1 {
		return nil, fmt.Errorf("model requires >=2 classes and >=1 feature, got %d classes %d features",
			numClasses, numFeatures)
	}
	w := make([]float64, numClasses*numFeatures)
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	return &Model{
		numClasses:  numClasses,
		numFeatures: numFeatures,
		weights:     mat.NewDense(numClasses, numFeatures, w),
		bias:        make([]float64, numClasses),
	}, nil
}

// NumClasses returns the number of output classes.
func (m *Model) NumClasses() int { return m.numClasses }

// NumFeatures returns the input feature dimension.
func (m *Model) NumFeatures() int { return m.numFeatures }

// Logits returns W x + b for one feature vector.
func (m *Model) Logits(features []float64) []float64 {
	logits := make([]float64, m.numClasses)
	for c := 0; c < m.numClasses; c++ {
		logits[c] = floats.Dot(m.weights.RawRowView(c), features) + m.bias[c]
	}
	return logits
}

// probabilities computes a numerically-stable softmax over the logits.
func (m *Model) probabilities(features []float64) []float64 {
	logits := m.Logits(features)
	max := floats.Max(logits)
	sum := 0.0
	for c, l := range logits {
		logits[c] = math.Exp(l - max)
		sum += logits[c]
	}
	floats.Scale(1/sum, logits)
	return logits
}

// Predict returns the argmax class for an example.
func (m *Model) Predict(ex *bench.Example) int {
	logits := m.Logits(ex.Features)
	best := 0
	for c := 1; c < len(logits); c++ {
		if logits[c] > logits[best] {
			best = c
		}
	}
	return best
}

// NamedParameters lists the model's parameter blocks. Both blocks of the
// linear model are trainable.
func (m *Model) NamedParameters() []bench.ParamInfo {
	return []bench.ParamInfo{
		{Name: WeightParamName, Size: m.numClasses * m.numFeatures, Trainable: true},
		{Name: BiasParamName, Size: m.numClasses, Trainable: true},
	}
}

// LossGrad returns the gradient of the mean cross-entropy loss over a batch,
// as (dW, db) with dW of shape (classes x features).
func (m *Model) LossGrad(batch []*bench.Example) (*mat.Dense, []float64) {
	gradW := mat.NewDense(m.numClasses, m.numFeatures, nil)
	gradB := make([]float64, m.numClasses)
	for _, ex := range batch {
		p := m.probabilities(ex.Features)
		p[ex.Label] -= 1
		for c := 0; c < m.numClasses; c++ {
			row := gradW.RawRowView(c)
			floats.AddScaled(row, p[c], ex.Features)
			gradB[c] += p[c]
		}
	}
	inv := 1 / float64(len(batch))
	gradW.Scale(inv, gradW)
	floats.Scale(inv, gradB)
	return gradW, gradB
}

// HVP returns the Hessian-vector product of the mean cross-entropy loss over
// a batch with the direction (vW, vb). For softmax regression the per-sample
// Hessian applied to v has the closed form a x^T where
//
//	u = vW x + vb
//	a = p .* u - p (p . u)
//
// Weight decay contributes wd*v for blocks not exempted by ignores.
func (m *Model) HVP(batch []*bench.Example, vW *mat.Dense, vb []float64,
	weightDecay float64, decayWeight, decayBias bool) (*mat.Dense, []float64) {

	hvW := mat.NewDense(m.numClasses, m.numFeatures, nil)
	hvB := make([]float64, m.numClasses)
	u := make([]float64, m.numClasses)
	a := make([]float64, m.numClasses)

	for _, ex := range batch {
		p := m.probabilities(ex.Features)
		for c := 0; c < m.numClasses; c++ {
			u[c] = floats.Dot(vW.RawRowView(c), ex.Features) + vb[c]
		}
		pu := floats.Dot(p, u)
		for c := 0; c < m.numClasses; c++ {
			a[c] = p[c]*u[c] - p[c]*pu
		}
		for c := 0; c < m.numClasses; c++ {
			floats.AddScaled(hvW.RawRowView(c), a[c], ex.Features)
			hvB[c] += a[c]
		}
	}
	inv := 1 / float64(len(batch))
	hvW.Scale(inv, hvW)
	floats.Scale(inv, hvB)

	if weightDecay != 0 {
		if decayWeight {
			var scaled mat.Dense
			scaled.Scale(weightDecay, vW)
			hvW.Add(hvW, &scaled)
		}
		if decayBias {
			floats.AddScaled(hvB, weightDecay, vb)
		}
	}
	return hvW, hvB
}

// Fit runs plain SGD over the training set for the given number of epochs.
// Parameter updates happen only here; the sweep itself never mutates the
// model.
func (m *Model) Fit(train *bench.Dataset, epochs int, learningRate float64, rng *rand.Rand) {
	for epoch := 0; epoch < epochs; epoch++ {
		for _, idx := range rng.Perm(train.Len()) {
			ex := train.Get(idx)
			gradW, gradB := m.LossGrad([]*bench.Example{ex})
			var step mat.Dense
			step.Scale(-learningRate, gradW)
			m.weights.Add(m.weights, &step)
			floats.AddScaled(m.bias, -learningRate, gradB)
		}
	}
}

// Accuracy returns the fraction of examples the model classifies correctly.
func (m *Model) Accuracy(ds *bench.Dataset) float64 {
	if ds.Len() == 0 {
		return 0
	}
	correct := 0
	for i := 0; i < ds.Len(); i++ {
		ex := ds.Get(i)
		if m.Predict(ex) == ex.Label {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len())
}
