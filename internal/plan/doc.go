// Package plan synthesizes the providers of annotated types.
//
// For every type carrying a provide directive the planner:
//  1. Parses the provide and depend directives
//  2. Resolves the package qualifiers the annotations use against the
//     declaring file's imports
//  3. Computes one lookup type per non-default field; each becomes a
//     resolver type parameter bounded by HasProvider[M, Lookup]
//  4. Composes the field bindings and the returned expression
//  5. Requires a Sync module when any field awaits
//
// Problems are reported as diagnostics per type; a failing type does not
// prevent the rest of its package from being planned.
package plan
