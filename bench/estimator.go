// Interfaces between the harness and its numerical collaborators. The harness
// never looks inside the estimator: it times the call, moves the output to the
// result record, and propagates any failure unmodified.

package bench

// ParamBlock is one named per-parameter tensor of estimator output,
// host-resident as a flat float64 slice.
type ParamBlock struct {
	Name string    `cbor:"name"`
	Data []float64 `cbor:"data"`
}

// ParamInfo describes one named parameter block of a model.
type ParamInfo struct {
	Name      string
	Size      int
	Trainable bool
}

// Classifier is the model under test. Parameters are read-only during the
// sweep; the harness never updates them.
type Classifier interface {
	// Predict returns the predicted class index for an example.
	Predict(ex *Example) int
	// NamedParameters lists the model's parameter blocks in a fixed order.
	NamedParameters() []ParamInfo
}

// EstimatorParams carries the numerical-stabilization hyperparameters and
// parameter-exclusion lists for an estimator invocation.
type EstimatorParams struct {
	Damp  float64 // damping term added to the Hessian for stability
	Scale float64 // scaling divisor for the iterative recurrence

	WeightDecay float64 // L2 coefficient applied during Hessian-vector products

	// ParamsFilter names parameter blocks excluded from estimation entirely
	// (frozen parameters).
	ParamsFilter []string

	// WeightDecayIgnores names parameter blocks exempt from weight decay.
	WeightDecayIgnores []string
}

// DefaultWeightDecayIgnores lists the parameter names conventionally exempt
// from weight decay, before frozen parameters are appended.
func DefaultWeightDecayIgnores() []string {
	return []string{"bias", "LayerNorm.weight"}
}

// BuildParamsFilter returns the names of the model's non-trainable parameter
// blocks.
func BuildParamsFilter(model Classifier) []string {
	var filter []string
	for _, p := range model.NamedParameters() {
		if !p.Trainable {
			filter = append(filter, p.Name)
		}
	}
	return filter
}

// Estimator computes s_test: an approximation of the inverse Hessian of the
// training loss applied to the gradient of the test loss. Implementations
// draw numSamples batches from the loader. The returned blocks must be
// host-resident copies, safe to retain after the call.
type Estimator interface {
	EstimateSTest(model Classifier, loader *BatchLoader, ex *Example, params EstimatorParams, numSamples int) ([]ParamBlock, error)
}
