// Package diagnostic provides located, structured generation-time
// diagnostics for provider-generator.
//
// Key capabilities:
//   - Malformed provide/depend directives, with the expected grammar production
//   - Unsupported annotated shapes (non-struct types, unnamed fields)
//   - Contradictory option combinations
//   - Problems found while composing the generated provider
package diagnostic
