// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: opening vocabulary databases and registering the
// vec_cosine / vec_l2 SQL scalar functions used by SQL-side neighbour search.
package engine
