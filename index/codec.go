package index

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/viant/wordvec/index/cover"
)

var (
	encoderPool sync.Pool
	decoderPool sync.Pool
)

func getEncoder() *zstd.Encoder {
	if v := encoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getDecoder() *zstd.Decoder {
	if v := decoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode serializes idx and compresses the result with zstd.
func Encode(idx Index) ([]byte, error) {
	if idx == nil {
		return nil, errors.New("index: encode nil index")
	}
	raw, err := idx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	enc := getEncoder()
	defer encoderPool.Put(enc)
	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode decompresses data produced by Encode into a new index of kind.
func Decode(kind Kind, data []byte, coverOpts ...cover.Option) (Index, error) {
	idx, err := New(kind, coverOpts...)
	if err != nil {
		return nil, err
	}
	dec := getDecoder()
	defer decoderPool.Put(dec)
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("index: decompress %s blob: %w", kind, err)
	}
	if err := idx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return idx, nil
}
