// Package analyze loads Go packages and finds the types to generate
// providers for.
//
// It uses golang.org/x/tools/go/packages to parse and type-check packages,
// then scans type declarations for a "//inject:provide(...)" doc-comment
// directive and struct fields for an `inject:"depend(...)"` tag.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: an annotated struct with its type parameters, fields and the
//     imports of the declaring file
//   - Annotation: a directive as written, with its source position
package analyze
