// Package vocab stores a word embedding vocabulary in SQLite and serves it as
// a read-only vector.Model.
//
// Embeddings are imported once from GloVe or word2vec files into the vocab
// table. Open loads the vocabulary into memory together with a nearest
// neighbour index that is persisted, zstd-compressed, in vector_storage so
// later processes skip the build. Any write to vocab drops the persisted
// index through triggers.
package vocab
