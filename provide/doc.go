// Package provide holds the runtime side of provider-generator.
//
// Generated providers implement [Provider]; modules expose their dependencies
// through [HasProvider] resolvers. The remaining types are the wrappers that
// provide/depend options compose:
//
//   - box      -> *T           ([Box])
//   - arc      -> Shared[T]    ([NewShared])
//   - fallible -> Result[T, E] ([Ok], [Err])
//   - async    -> Deferred[T]  ([Async])
//
// Nothing in this package resolves dependencies at runtime. All wiring is
// checked by the Go compiler when the generated code is built.
package provide
