// Package pipeline runs one analysis job end to end: validate the input,
// negotiate an output codec, acquire a pose session, loop over every frame
// with per-frame fault isolation, verify the artifact, and aggregate
// statistics. ProcessWithRetry wraps a single-shot run in a bounded
// retry/backoff state machine.
//
// Per-frame failures (bad decode, estimator error) are counted, never
// raised; only resource acquisition and post-run artifact verification use
// the error path. The frame loop preserves frame-count parity: every frame
// decoded from the input produces exactly one frame written to the output,
// annotated or passthrough.
package pipeline
