package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/viant/wordvec/vector"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterVectorFunctions registers vec_cosine and vec_l2 with the driver so
// they are available on connections opened after this call. Existing open
// connections will not see the functions. Safe to call repeatedly.
func RegisterVectorFunctions() {
	registerOnce.Do(func() {
		_ = sqlite.RegisterDeterministicScalarFunction("vec_cosine", 2, vecCosineImpl)
		_ = sqlite.RegisterDeterministicScalarFunction("vec_l2", 2, vecL2Impl)
	})
}

func embeddingArgs(name string, args []driver.Value) (vector.Vector, vector.Vector, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	var out [2]vector.Vector
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case []byte:
			vec, err := vector.DecodeEmbedding(v)
			if err != nil {
				return nil, nil, err
			}
			out[i] = vec
		default:
			return nil, nil, fmt.Errorf("%s: unsupported argument type %T for embedding; want BLOB", name, arg)
		}
	}
	return out[0], out[1], nil
}

// vecCosineImpl yields NULL for NULL/empty or zero-magnitude inputs so it can
// be used in ORDER BY over a whole table.
func vecCosineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingArgs("vec_cosine", args)
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("vec_cosine: dimension mismatch %d vs %d", len(a), len(b))
	}
	if vector.Norm(a) == 0 || vector.Norm(b) == 0 {
		return nil, nil
	}
	return vector.CosineSimilarity(a, b)
}

func vecL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingArgs("vec_l2", args)
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	return vector.L2Distance(a, b)
}
