// Package suggest finds the closest known name to a misspelled one, for
// "did you mean" hints in diagnostics.
//
// Names are compared after normalization (case folding, separator and
// CamelCase handling) by normalized Levenshtein similarity.
package suggest
