// Package mapper implements the gesture to action mapping layer: a registry
// of bindings (one action per gesture, last registration wins) and the
// dispatch path that resolves a binding against the action service registry
// and invokes it with a typed input.
package mapper
