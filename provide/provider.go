package provide

// Provider builds an I from a module of type M.
//
// Every generated provider struct implements Provider for the Interface type
// its provide directive names.
type Provider[M, I any] interface {
	Provide(module M) I
}

// HasProvider is the registry query for a single lookup type I.
//
// A generated provider takes one HasProvider type parameter per dependency,
// so a provider can itself be used as the resolver of another provider.
type HasProvider[M, I any] interface {
	Provider[M, I]
}

// ProviderFunc adapts a plain function, usually a method expression such as
// (*Module).Repository, to HasProvider.
type ProviderFunc[M, I any] func(module M) I

// Provide calls f(module).
func (f ProviderFunc[M, I]) Provide(module M) I {
	return f(module)
}

// Value always provides the same value, whatever the module.
type Value[M, I any] struct {
	V I
}

// Provide returns v.V.
func (v Value[M, I]) Provide(M) I {
	return v.V
}

// Sync is required from modules whose dependencies are awaited. Awaiting
// hands the module to another goroutine, so the module must be safe to share.
//
// The only way to satisfy Sync is to embed [Concurrent].
type Sync interface {
	shareable()
}

// Concurrent marks a module type as safe for concurrent use. Embed it in the
// module struct.
type Concurrent struct{}

func (Concurrent) shareable() {}

// Box moves v to the heap and returns a pointer to it.
func Box[T any](v T) *T {
	return &v
}
