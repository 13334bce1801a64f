package types

// Service is an invokable action service. A service groups related playback
// operations (methods) under a single name; bindings reference a method as
// "service.method".
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
