// Package compose turns option lists into Go types and expressions.
//
// For a field, the lookup type is a right fold of the options over the
// declared type (the first option is the outermost wrapper) and the binding
// expression is a left fold over the registry query (the first option acts
// first on the looked-up value). The two folds run in opposite directions so
// that unwrapping the lookup type layer by layer yields the declared type.
//
// For the provided type both folds run left to right: the construction of the
// value is wrapped by each option in turn, and so is its type.
package compose
