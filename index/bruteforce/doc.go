// Package bruteforce provides an exact vector index that answers kNN queries
// by scanning all vectors and scoring via cosine similarity. Large indexes
// are scanned in parallel shards. It supports a compact binary format that
// the cover index reuses for persistence.
package bruteforce
