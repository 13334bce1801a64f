// Package extension provides the run-time registries that connect declarative
// gesture bindings with user-supplied action services and their Go types.
//
// The registries are normally populated through the public APIs under the
// root wavetune package, therefore most applications do not need to import
// this package directly.
package extension
