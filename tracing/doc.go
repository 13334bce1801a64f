// Package tracing integrates observability back-ends with the gesture
// control loop to provide tracing of approval transitions and action
// dispatches.  All instrumentation is kept in a separate package so that
// applications which do not require tracing can exclude it from their build.
package tracing
