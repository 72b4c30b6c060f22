// Package trace provides the tracing subsystem of canary.
//
// Every run emits span and point events for its state transitions and,
// at step level, for each write/observe pair. Events go to a stream sink
// (text or NDJSON), a ring buffer kept in memory for dumps, or both.
//
// # Usage
//
//	canary --trace=- --trace-level=step
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only ring dumps on boundary errors
//   - LevelPhase: Run and phase boundaries
//   - LevelStep: Every write step
//   - LevelDebug: Everything
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "write", parentID)
//	defer span.End("")
package trace
