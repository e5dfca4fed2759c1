// Package cover provides a kNN index backed by a cover tree. Vectors are
// stored unit-normalised and searched by Euclidean distance, which orders
// candidates exactly like cosine similarity; returned scores are exact
// cosine similarities. Persistence reuses the brute-force binary format.
package cover
