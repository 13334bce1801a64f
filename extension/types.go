package extension

import (
	"github.com/viant/x"
)

// DataTypeIniter lets a service contribute its input/output types to the
// shared registry when it is registered.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Types registers the Go types action methods operate on so that declarative
// binding arguments can be materialized into typed inputs.
type Types struct {
	x.Registry
}

// Register adds a data type to the registry.
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup returns a data type from the registry, or nil when unknown.
func (t *Types) Lookup(dataType string) *x.Type {
	return t.Registry.Lookup(dataType)
}

// NewTypes creates a new type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{
		Registry: *x.NewRegistry(options...),
	}
}
