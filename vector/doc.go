// Package vector defines the word-vector primitives shared by this module:
//   - Vector and Neighbor value types
//   - Model, the capability interface of a loaded embedding space
//   - word normalisation
//   - cosine/L2 math and element-wise arithmetic
//   - embedding encoding (BLOB) used by the SQLite vocabulary store
package vector
