// Package progress defines the feedback contract shared by the provisioning
// pipelines. It is deliberately decoupled from any presentation layer.
package progress

// Func receives one human-readable status line plus a completion fraction in
// [0, 1]. Within one pipeline run fractions are non-decreasing. The pipeline
// invokes the callback synchronously, possibly from a worker goroutine;
// marshaling back to a UI context is the caller's responsibility, and a
// blocking callback stalls the pipeline.
type Func func(message string, fraction float64)

// Nop discards progress events.
func Nop(string, float64) {}
