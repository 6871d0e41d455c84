// Package gen renders provider plans to Go source.
//
// Generation uses text/template + go/format. Each package with annotated
// types gets one file holding, per type:
//   - the provider struct, generic over the module, the type's own
//     parameters and one resolver per looked-up field
//   - its Provide method: field bindings in declaration order, then the
//     construction wrapped by the type-level options
package gen
