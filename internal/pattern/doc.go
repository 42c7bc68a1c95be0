// Package pattern defines the key/value command model that the benchmark
// drives the target server with.
//
// A pattern is generated from a dash-separated template such as
// "SET-GET-GET-DEL" (ParsePattern). Concrete commands are generated from a
// template by walking it left to right and tracking the most recently
// generated SET, so that subsequent GET/DEL commands in the same pattern
// reuse that SET's key (ExecPattern). Predicted responses are computed once,
// at generation time, by simulating the commands against an in-memory ghost
// store — the worker package only ever compares bytes, it never recomputes
// expected state.
package pattern
