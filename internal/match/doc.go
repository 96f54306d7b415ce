// Package match ranks declared codes by similarity to a code that was not
// found, so a misspelled unit reference can be reported with a suggestion.
//
// Key functions:
//   - NormalizeCode: folds case and drops separators
//   - Levenshtein: computes edit distance between strings
//   - Rank: orders candidates by normalized similarity
//   - Suggest: returns the single best candidate above a threshold
package match
