// Package index defines a minimal abstraction for vector indexes that can be
// built from embeddings, queried for kNN by cosine similarity, and serialized
// for persistence. Implementations in this module include an exact parallel
// brute-force scan and a cover tree.
package index
