package types

import (
	"context"
	"reflect"
)

type Signatures []Signature

func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Signature describes a service method: its name and the pointer-to-struct
// input and output types the method operates on.
type Signature struct {
	Name        string
	Description string
	Input       reflect.Type
	Output      reflect.Type
}

// Executable is a method implementation; input and output are pointers to the
// types declared by the method signature.
type Executable func(context context.Context, input, output interface{}) error
