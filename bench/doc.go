// Package bench provides the s_test runtime benchmarking harness.
//
// # Reading Guide
//
// Start with these three files to understand the harness:
//   - grid.go: the (num_samples x batch_size x repetition) sweep grid and its cursor
//   - sweeper.go: the driver loop (filter -> time estimator -> persist -> accumulate)
//   - sink.go: result persistence (local directory, Redis, save-and-mirror)
//
// # Architecture
//
// The bench package defines interfaces and the sweep driver; concrete
// collaborators live in sub-packages:
//   - bench/linear/: multinomial logistic model, LiSSA-style s_test estimator,
//     and a seeded synthetic classification dataset
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Classifier: prediction and named-parameter introspection for the model under test
//   - Estimator: the timed unit, an inverse-Hessian-vector-product approximation
//   - Sink: where each timed result record goes
//
// The sweep itself is single-threaded and synchronous: one grid point is
// computed, persisted, and accumulated before the next begins.
package bench
