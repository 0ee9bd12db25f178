package linear

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/influence-bench/influence-bench/bench"
)

// Estimator approximates s_test with the LiSSA recurrence: starting from the
// test-loss gradient v,
//
//	h <- v + (1 - damp) h - HVP(batch, h) / scale
//
// for numSamples randomized training batches, then s_test = h / scale.
// Damp and scale keep the recurrence numerically stable.
type Estimator struct{}

func NewEstimator() *Estimator {
	return &Estimator{}
}

var _ bench.Estimator = (*Estimator)(nil)

// EstimateSTest runs the recurrence and returns host-resident per-parameter
// blocks in NamedParameters order, minus blocks named in ParamsFilter.
func (e *Estimator) EstimateSTest(model bench.Classifier, loader *bench.BatchLoader,
	ex *bench.Example, params bench.EstimatorParams, numSamples int) ([]bench.ParamBlock, error) {

	m, ok := model.(*Model)
	if !ok {
		return nil, fmt.Errorf("linear estimator requires *linear.Model, got %T", model)
	}
	if params.Scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", params.Scale)
	}
	if numSamples <= 0 {
		return nil, fmt.Errorf("sample budget must be positive, got %d", numSamples)
	}

	vW, vb := m.LossGrad([]*bench.Example{ex})
	hW := mat.DenseCopyOf(vW)
	hb := append([]float64(nil), vb...)

	decayWeight := !nameIgnored(WeightParamName, params.WeightDecayIgnores)
	decayBias := !nameIgnored(BiasParamName, params.WeightDecayIgnores)

	for t := 0; t < numSamples; t++ {
		batch := loader.Next()
		hvW, hvB := m.HVP(batch, hW, hb, params.WeightDecay, decayWeight, decayBias)

		// h = v + (1 - damp) h - hv / scale
		var next mat.Dense
		next.Scale(1-params.Damp, hW)
		next.Add(&next, vW)
		var scaledHV mat.Dense
		scaledHV.Scale(-1/params.Scale, hvW)
		next.Add(&next, &scaledHV)
		hW.Copy(&next)

		for c := range hb {
			hb[c] = vb[c] + (1-params.Damp)*hb[c] - hvB[c]/params.Scale
		}
	}

	hW.Scale(1/params.Scale, hW)
	floats.Scale(1/params.Scale, hb)

	blocks := make([]bench.ParamBlock, 0, 2)
	if !nameFiltered(WeightParamName, params.ParamsFilter) {
		data := make([]float64, m.NumClasses()*m.NumFeatures())
		copy(data, hW.RawMatrix().Data)
		blocks = append(blocks, bench.ParamBlock{Name: WeightParamName, Data: data})
	}
	if !nameFiltered(BiasParamName, params.ParamsFilter) {
		blocks = append(blocks, bench.ParamBlock{Name: BiasParamName, Data: append([]float64(nil), hb...)})
	}
	return blocks, nil
}

// nameFiltered matches the parameter filter by exact block name.
func nameFiltered(name string, filter []string) bool {
	for _, f := range filter {
		if f == name {
			return true
		}
	}
	return false
}

// nameIgnored matches weight-decay ignore entries by substring, so the
// conventional "bias" entry exempts "linear.bias".
func nameIgnored(name string, ignores []string) bool {
	for _, ig := range ignores {
		if strings.Contains(name, ig) {
			return true
		}
	}
	return false
}
