// Package analytics answers word-vector queries: analogies, pairwise
// similarity, 2D projection and the daily guessing game.
//
// Components read vectors through Vectors, implemented by store.Store.
// Expected conditions such as unknown words are reported as typed errors
// (UnknownWordError, UnknownWordsError, InsufficientWordsError) that match
// ErrUnknownWord or ErrInsufficientWords with errors.Is.
package analytics
